package model

import (
	"sort"
	"time"
)

// PairResult is the similarity score for one unordered pair of candidate
// files. The score is a property of the pair: comparing (A, B) and (B, A)
// yields the same value.
type PairResult struct {
	// FileA is the first file of the pair, in enumeration order.
	FileA string `json:"file_a"`

	// FileB is the second file of the pair.
	FileB string `json:"file_b"`

	// Score is the containment-average similarity in [0, 1].
	Score float64 `json:"score"`
}

// Report holds all pair results of one scan invocation together with the
// parameters that produced them.
type Report struct {
	// GeneratedAt is when the report was created.
	GeneratedAt time.Time `json:"generated_at"`

	// CorpusDir is the directory the submission archives were read from.
	CorpusDir string `json:"corpus_dir"`

	// TargetFile is the filename suffix that candidate files were matched
	// against.
	TargetFile string `json:"target_file"`

	// NGram and Window are the winnowing parameters used for this run.
	NGram  int `json:"ngram"`
	Window int `json:"window"`

	// Candidates lists every matched file, in discovery order.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Pairs holds one result per unordered candidate pair.
	Pairs []PairResult `json:"pairs"`
}

// NewReport creates a Report for the given run parameters with the
// generation time set to now.
func NewReport(corpusDir, targetFile string, ngram, window int) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		CorpusDir:   corpusDir,
		TargetFile:  targetFile,
		NGram:       ngram,
		Window:      window,
	}
}

// Sort orders the pairs by descending score. The sort is stable so that
// equal scores keep their pair-enumeration order, which makes report
// output deterministic regardless of task completion order.
func (r *Report) Sort() {
	sort.SliceStable(r.Pairs, func(i, j int) bool {
		return r.Pairs[i].Score > r.Pairs[j].Score
	})
}
