// Package source finds and reads sensor CSV files.
//
// Discovery matches a glob inside an input directory and returns paths in
// lexical order, leaving out the combined output so a run never reads its own
// result by accident. The reader requires a header row, strips a leading
// byte-order mark and rejects rows whose field count differs from the header.
package source
