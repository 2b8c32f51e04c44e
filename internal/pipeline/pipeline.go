package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/scribe-ci/scribe/internal/config"
	"github.com/scribe-ci/scribe/internal/logger"
	"github.com/scribe-ci/scribe/internal/report"
	"github.com/scribe-ci/scribe/internal/review"
)

// Reviewer reviews a single file. Satisfied by *review.FileReviewer; tests
// substitute stubs.
type Reviewer interface {
	ReviewFile(ctx context.Context, path string, content []byte) (*review.Report, error)
}

// Failure records one file that could not be reviewed or persisted.
type Failure struct {
	Path string
	Err  error
}

// Summary is the outcome of one run.
type Summary struct {
	// Candidates is the number of changed files that matched the filters.
	Candidates int
	Reviewed   int
	Skipped    int
	Failed     int
	// Reports holds the repo-relative paths of reports written this run, in
	// change-set order.
	Reports  []string
	Failures []Failure
}

// Pipeline runs detect -> review -> write for one push.
type Pipeline struct {
	cfg      config.Config
	reviewer Reviewer
	log      *logger.Logger
}

// New creates a Pipeline.
func New(cfg config.Config, reviewer Reviewer, log *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, reviewer: reviewer, log: log}
}

type fileResult struct {
	reportPath string
	skipped    bool
	err        error
}

// Run reviews every file in the change set and writes one report per file.
// Per-file errors are logged and isolated; one bad file never blocks reports
// for the rest of the batch. The error return is reserved for fatal
// conditions; per-file outcomes live in the Summary.
func (p *Pipeline) Run(ctx context.Context, files []string) (*Summary, error) {
	candidates := p.filter(files)
	summary := &Summary{Candidates: len(candidates)}
	if len(candidates) == 0 {
		return summary, nil
	}

	workers := p.cfg.Workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	results := make([]fileResult, len(candidates))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range candidates {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = p.processFile(ctx, path)
		}(i, path)
	}
	wg.Wait()

	for i, r := range results {
		switch {
		case r.err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Path: candidates[i], Err: r.err})
		case r.skipped:
			summary.Skipped++
		default:
			summary.Reviewed++
			summary.Reports = append(summary.Reports, r.reportPath)
		}
	}

	return summary, nil
}

func (p *Pipeline) processFile(ctx context.Context, path string) fileResult {
	log := p.log.With("path", path)
	log.Info("reviewing file")

	abs := filepath.Join(p.cfg.Git.RepoPath, path)

	info, err := os.Stat(abs)
	if err != nil {
		log.Error("cannot stat file", err)
		return fileResult{err: err}
	}
	if p.cfg.MaxFileBytes > 0 && info.Size() > int64(p.cfg.MaxFileBytes) {
		log.Warnf("skipping: file exceeds %d bytes", p.cfg.MaxFileBytes)
		return fileResult{skipped: true}
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		log.Error("cannot read file", err)
		return fileResult{err: err}
	}

	rep, err := p.reviewer.ReviewFile(ctx, path, content)
	if err != nil {
		log.Error("review failed", err)
		return fileResult{err: err}
	}

	reportPath := report.DerivePath(p.cfg.ReportsDir, p.cfg.SourceRoot, path)
	if err := report.Write(filepath.Join(p.cfg.Git.RepoPath, reportPath), rep.Content); err != nil {
		log.Error("write failed", err)
		return fileResult{err: err}
	}

	log.Infof("report written to %s (%d tokens, %s)", reportPath, rep.TokensUsed, rep.Elapsed.Round(time.Millisecond))
	return fileResult{reportPath: reportPath}
}

// filter applies the include/exclude glob patterns. Patterns match the base
// name or the full repo-relative path.
func (p *Pipeline) filter(files []string) []string {
	var kept []string
	for _, f := range files {
		if !matchesAny(f, p.cfg.Include) {
			continue
		}
		if len(p.cfg.Exclude) > 0 && matchesAny(f, p.cfg.Exclude) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func matchesAny(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
