// Package canonical normalizes source text before structural comparison.
//
// Canonicalization removes everything that is noise for similarity
// detection: instructor-supplied template lines, block and line comments,
// and conditional-compilation directive lines. Input bytes are normalized
// to NFC first so that submissions saved by different editors compare
// byte-for-byte equal.
//
// The pass is line-oriented and runs in a single forward sweep, so
// canonicalization of the same input is deterministic and idempotent on
// comment-free text.
package canonical
