// Package writer persists the combined dataset.
//
// Writers:
//   - Atomic CSV writer (temp file in the output directory, fsync, rename)
//   - TimescaleDB exporter (optional)
//
// The exporter uses append-only semantics: every reading is keyed by the
// SHA-256 of its full-row dedup key and inserted with ON CONFLICT DO NOTHING,
// so exporting the same combined file twice never duplicates rows.
package writer
