// Package inspect reports on input files without merging them.
//
// Files are read concurrently, bounded by Options.Concurrency; reports come
// back in input order. A per-file problem is recorded in its report rather
// than aborting the others, so one run shows every broken file at once.
package inspect
