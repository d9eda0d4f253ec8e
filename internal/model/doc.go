// Package model defines shared data types used across the sensor data merger.
//
// Conventions:
//   - Field values are kept as the exact text read from the input files and
//     written back verbatim; parsing is only used for ordering and validation.
//   - Timestamps: Unix epoch seconds (fractional allowed) or one of the
//     configured time layouts; instants compare by absolute time.
//   - IDs: uuid.UUID for merge run IDs
package model
