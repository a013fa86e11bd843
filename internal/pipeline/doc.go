// Package pipeline orchestrates a full similarity run: archive
// extraction, candidate discovery, per-file fingerprinting, and pairwise
// scoring.
//
// All concurrent phases run under an errgroup with a configurable limit.
// Failures are local by design: a corrupt archive, unreadable file, or
// parse failure is logged and absorbed at the task level, and the batch
// always completes for the submissions that remain. The only fatal
// conditions are an unreadable corpus directory and context cancellation.
//
// Each candidate file is canonicalized, parsed, and fingerprinted exactly
// once; pairs are scored over the cached fingerprint sets. Since pair
// count grows quadratically in the number of matched files, this keeps
// parse work linear while the quadratic part is a cheap set comparison.
package pipeline
