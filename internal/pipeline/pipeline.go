package pipeline

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/simscan/internal/archive"
	"github.com/nao1215/simscan/internal/canonical"
	"github.com/nao1215/simscan/internal/model"
	"github.com/nao1215/simscan/internal/similarity"
	"github.com/nao1215/simscan/internal/syntax"
)

// junkPrefix marks platform resource-fork files ("._name") that macOS
// leaves inside archives; they shadow the real file and must be skipped.
const junkPrefix = "._"

// Pipeline executes one similarity run. All collaborators are injected at
// construction; a Pipeline holds no global state and independent runs may
// execute in parallel (e.g. in tests).
type Pipeline struct {
	// canon strips comments and template lines before parsing.
	canon *canonical.Canonicalizer

	// parser converts canonical text into a syntax tree.
	parser syntax.Parser

	// logger receives per-task warnings. Task failures never abort a run.
	logger *slog.Logger

	// workers bounds concurrent extraction and comparison tasks.
	workers int

	// ngram and window are the winnowing parameters.
	ngram  int
	window int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithWorkers bounds the number of concurrent tasks. Default is 10.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithParser replaces the built-in structure parser with a grammar-backed
// implementation.
func WithParser(parser syntax.Parser) Option {
	return func(p *Pipeline) { p.parser = parser }
}

// WithWinnowing sets the n-gram length and window size used for
// fingerprinting.
func WithWinnowing(n, w int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.ngram = n
		}
		if w > 0 {
			p.window = w
		}
	}
}

// New creates a Pipeline with the given canonicalizer.
func New(canon *canonical.Canonicalizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		canon:   canon,
		parser:  syntax.NewStructureParser(),
		workers: 10,
		ngram:   similarity.DefaultNGram,
		window:  similarity.DefaultWindow,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run executes the full pipeline over the corpus and returns the report
// together with the extracted submissions (for later cleanup).
func (p *Pipeline) Run(ctx context.Context, corpusDir, targetFile string) (*model.Report, []model.Submission, error) {
	archives, err := archive.Find(corpusDir)
	if err != nil {
		return nil, nil, err
	}

	startTime := time.Now()
	p.logger.Info("starting run",
		"archives", len(archives),
		"workers", p.workers,
	)

	submissions, err := p.extractAll(ctx, archives)
	if err != nil {
		return nil, submissions, err
	}

	candidates := p.discover(submissions, targetFile)
	p.logger.Info("candidates discovered", "count", len(candidates))

	cache, err := p.fingerprintAll(ctx, candidates)
	if err != nil {
		return nil, submissions, err
	}

	report := model.NewReport(corpusDir, targetFile, p.ngram, p.window)
	for _, c := range candidates {
		report.Candidates = append(report.Candidates, model.Candidate{
			Path:   c,
			Digest: cache[c].digest,
		})
	}

	report.Pairs, err = p.compareAll(ctx, candidates, cache)
	if err != nil {
		return nil, submissions, err
	}

	p.logger.Info("run complete",
		"candidates", len(candidates),
		"pairs", len(report.Pairs),
		"elapsed", time.Since(startTime),
	)
	return report, submissions, nil
}

// extractAll unpacks every archive concurrently. Extraction failures are
// recorded on the submission and logged, never returned: a corrupt
// archive removes one submission from the comparison, not the run.
func (p *Pipeline) extractAll(ctx context.Context, archives []string) ([]model.Submission, error) {
	submissions := make([]model.Submission, len(archives))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, archivePath := range archives {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			dest := archive.DestDir(archivePath)
			sub := model.Submission{ArchivePath: archivePath, Dir: dest}
			if err := archive.Extract(archivePath, dest); err != nil {
				p.logger.Warn("skipping archive",
					"archive", archivePath,
					"error", err,
				)
				sub.Err = err.Error()
			}
			// Destination directories are disjoint per archive, so no
			// lock is needed; each goroutine writes its own index.
			submissions[i] = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return submissions, err
	}
	return submissions, nil
}

// discover walks every successfully extracted tree and collects files
// whose name matches the target filename by suffix, skipping resource-fork
// junk. Walk order is deterministic, which fixes pair enumeration order.
func (p *Pipeline) discover(submissions []model.Submission, targetFile string) []string {
	var candidates []string
	for _, sub := range submissions {
		if sub.Err != "" {
			continue
		}
		err := filepath.WalkDir(sub.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, junkPrefix) {
				return nil
			}
			if strings.HasSuffix(name, targetFile) {
				candidates = append(candidates, path)
			}
			return nil
		})
		if err != nil {
			p.logger.Warn("failed to walk submission",
				"dir", sub.Dir,
				"error", err,
			)
		}
	}
	return candidates
}

// entry is one cached fingerprint. A nil set means the file failed to
// canonicalize or parse; every pair involving it scores 0.
type entry struct {
	set    similarity.Set
	digest string
}

// fingerprintAll computes each candidate's fingerprint set exactly once,
// concurrently. The same file participates in many pairs, so caching here
// turns O(pairs) parse work into O(files).
func (p *Pipeline) fingerprintAll(ctx context.Context, candidates []string) (map[string]entry, error) {
	cache := make(map[string]entry, len(candidates))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, path := range candidates {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			e := p.fingerprintFile(path)
			mu.Lock()
			cache[path] = e
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cache, nil
}

// fingerprintFile runs the canonicalize, parse, fingerprint chain for one
// file. Failures are logged and yield a nil set.
func (p *Pipeline) fingerprintFile(path string) entry {
	text, err := p.canon.Canonicalize(path)
	if err != nil {
		p.logger.Warn("unreadable candidate file",
			"file", path,
			"error", err,
		)
		return entry{}
	}

	tree, err := p.parser.Parse(text)
	if err != nil {
		p.logger.Warn("parse failure",
			"file", path,
			"error", err,
		)
		return entry{digest: similarity.Digest(text)}
	}

	return entry{
		set:    similarity.Fingerprint(tree.Sexpr(), p.ngram, p.window),
		digest: similarity.Digest(text),
	}
}

// compareAll scores every unordered candidate pair over the cached sets.
// Results land in a slice preallocated in enumeration order, so completion
// order of the concurrent tasks never affects report content.
func (p *Pipeline) compareAll(ctx context.Context, candidates []string, cache map[string]entry) ([]model.PairResult, error) {
	type pair struct{ a, b string }
	var pairs []pair
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			pairs = append(pairs, pair{a: candidates[i], b: candidates[j]})
		}
	}

	results := make([]model.PairResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, pr := range pairs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			score := similarity.Score(cache[pr.a].set, cache[pr.b].set)
			results[i] = model.PairResult{FileA: pr.a, FileB: pr.b, Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Cleanup removes the extracted working directories. Best effort: removal
// errors are logged and ignored, matching the contract that cleanup never
// fails a run that already produced its report.
func Cleanup(submissions []model.Submission, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, sub := range submissions {
		if sub.Dir == "" {
			continue
		}
		if err := os.RemoveAll(sub.Dir); err != nil {
			logger.Warn("failed to remove extracted directory",
				"dir", sub.Dir,
				"error", err,
			)
		}
	}
}
