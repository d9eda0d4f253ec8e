// Package merge implements the Merger: it combines sensor CSV files into one
// deduplicated, timestamp-ordered combined file.
//
// A merge is a pure function of its inputs. Every file must share one header;
// rows equal in every field to an earlier row are dropped (first occurrence
// wins); the rest are stably sorted by timestamp, so ties keep input file
// order and then row order. The output is replaced atomically and re-running
// over unchanged inputs produces a byte-identical file.
//
// Failures are reported, never retried:
//   - ErrEmptyInput: nothing to merge; the output is not touched
//   - *SchemaMismatchError: headers differ or lack the timestamp column
//   - *UnreadableFileError: missing, unparseable or permission-denied input
//   - *WriteError: the output could not be written
package merge
