package similarity

// Score computes the containment-average similarity of two fingerprint
// sets: (|A∩B|/|A| + |A∩B|/|B|) / 2. The result is in [0, 1] and
// symmetric in its arguments. If either set is empty the score is 0,
// signalling "no structural content to compare" rather than an error.
func Score(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller set for the intersection count.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for h := range small {
		if large.Contains(h) {
			shared++
		}
	}

	return (float64(shared)/float64(len(a)) + float64(shared)/float64(len(b))) / 2
}
