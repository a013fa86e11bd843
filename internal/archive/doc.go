// Package archive extracts compressed submission archives into working
// directories.
//
// The corpus format is a tar-style container, optionally gzip-compressed.
// Compression is auto-detected: a gzip read is attempted first and the
// extractor falls back to a plain tar read when the gzip header is absent.
// Entry paths are sanitized so that a hostile archive cannot write outside
// its destination directory.
package archive
