// Package database provides the TimescaleDB connection pool used by the
// optional export of the combined dataset.
//
// Tables:
//   - sensor_readings: one row per distinct reading, keyed by row hash
//   - merge_runs: one row per exported merge run
package database
