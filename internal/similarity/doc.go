// Package similarity computes winnowed fingerprints over serialized syntax
// trees and scores fingerprint sets against each other.
//
// Fingerprinting follows the winnowing scheme: every length-n substring of
// the serialized tree is hashed, consecutive hashes are grouped into
// overlapping windows of size w, and the minimum hash of each window is
// selected with ties broken toward the latest position. The resulting set
// of distinct hash values stands in for the tree's local structure.
//
// Scoring is a containment-aware variant of Jaccard similarity: the
// average of how much of each set is covered by the intersection. Unlike
// plain Jaccard it does not penalize a pair where one tree is much larger
// than the shared core.
package similarity
