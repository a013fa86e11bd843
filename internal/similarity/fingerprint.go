package similarity

import (
	"encoding/hex"
	"hash/fnv"

	"golang.org/x/crypto/blake2b"
)

// Default winnowing parameters for syntax-tree fingerprinting.
// n is the substring length hashed into each n-gram, w the number of
// consecutive hashes per winnowing window.
const (
	DefaultNGram  = 5
	DefaultWindow = 10
)

// Set is a fingerprint set: the distinct winnowed hash values of one
// serialized syntax tree.
type Set map[uint64]struct{}

// Contains reports whether the hash is part of the set.
func (s Set) Contains(h uint64) bool {
	_, ok := s[h]
	return ok
}

// Fingerprint computes the winnowed fingerprint set of a serialized tree.
// Input shorter than n, or producing fewer than w hashes, yields an empty
// set rather than an error: there is simply no structural content to
// fingerprint.
func Fingerprint(serialized string, n, w int) Set {
	set := make(Set)
	if n <= 0 || w <= 0 || len(serialized) < n {
		return set
	}

	hashes := make([]uint64, 0, len(serialized)-n+1)
	for i := 0; i+n <= len(serialized); i++ {
		hashes = append(hashes, hashNgram(serialized[i:i+n]))
	}
	if len(hashes) < w {
		return set
	}

	for start := 0; start+w <= len(hashes); start++ {
		minIdx := start
		for i := start + 1; i < start+w; i++ {
			// Ties prefer the latest position so a repeated minimal
			// n-gram is not re-selected by every overlapping window.
			if hashes[i] <= hashes[minIdx] {
				minIdx = i
			}
		}
		set[hashes[minIdx]] = struct{}{}
	}
	return set
}

// hashNgram hashes one n-gram with FNV-1a. The hash is content-based and
// therefore stable across runs and processes.
func hashNgram(ngram string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ngram))
	return h.Sum64()
}

// Digest returns the hex-encoded blake2b-256 digest of canonical text.
// It identifies identical canonical texts in the run history without
// persisting the fingerprints themselves.
func Digest(canonicalText string) string {
	sum := blake2b.Sum256([]byte(canonicalText))
	return hex.EncodeToString(sum[:])
}
