package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/veritas-dev/veritas/internal/compare"
	"github.com/veritas-dev/veritas/internal/extract"
	"github.com/veritas-dev/veritas/internal/match"
	"github.com/veritas-dev/veritas/internal/report"
)

// ErrNoInput is returned when a run is started with no files at all. An
// input with files but no extractable functions is not an error; it yields
// an empty result with trust score 0.
var ErrNoInput = errors.New("no input files supplied")

// ProgressReporter receives stage progress during a run. Implementations
// must tolerate calls from multiple goroutines.
type ProgressReporter interface {
	StartStage(stage string, total int)
	Increment()
	FinishStage()
}

// nopProgress is used when the caller supplies no reporter.
type nopProgress struct{}

func (nopProgress) StartStage(string, int) {}
func (nopProgress) Increment()             {}
func (nopProgress) FinishStage()           {}

// Request is one analysis run's input: raw file contents keyed by path.
// The analyzer never touches the filesystem itself.
type Request struct {
	CodeFiles map[string]string
	DocFiles  map[string]string
}

// Analyzer wires the full pipeline: extraction, matching, comparison,
// synthesis, aggregation.
type Analyzer struct {
	registry    *extract.Registry
	matcher     *match.Matcher
	comparator  *compare.Comparator
	concurrency int
	progress    ProgressReporter
}

// AnalyzerOption adjusts analyzer construction.
type AnalyzerOption func(*Analyzer)

// WithConcurrency bounds the extraction and comparison worker pools.
func WithConcurrency(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithProgress attaches a progress reporter.
func WithProgress(p ProgressReporter) AnalyzerOption {
	return func(a *Analyzer) {
		if p != nil {
			a.progress = p
		}
	}
}

// NewAnalyzer assembles the pipeline from its stages.
func NewAnalyzer(registry *extract.Registry, matcher *match.Matcher, comparator *compare.Comparator, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		registry:    registry,
		matcher:     matcher,
		comparator:  comparator,
		concurrency: 4,
		progress:    nopProgress{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes one analysis. A single bad file or failed judge call never
// aborts the run; only structurally invalid overall input does.
func (a *Analyzer) Run(ctx context.Context, req Request) (*report.AnalysisResult, error) {
	if len(req.CodeFiles) == 0 && len(req.DocFiles) == 0 {
		return nil, ErrNoInput
	}

	start := time.Now()
	result := &report.AnalysisResult{
		RunID:       report.NewRunID(),
		GeneratedAt: start.UTC(),
	}

	extractStart := time.Now()
	codeUnits, docUnits, notes := a.extractAll(ctx, req)
	result.Notes = notes
	result.Timing.ExtractMs = time.Since(extractStart).Milliseconds()

	if len(codeUnits) == 0 && len(docUnits) == 0 {
		result.Summary = report.Aggregate(nil)
		result.Discrepancies = []report.Discrepancy{}
		result.Notes = append(result.Notes, "no documentable functions found in the supplied files")
		result.Timing.TotalMs = time.Since(start).Milliseconds()
		return result, nil
	}

	matchStart := time.Now()
	pairs, unclaimedDocs, err := a.matcher.Match(ctx, codeUnits, docUnits)
	if err != nil {
		return nil, fmt.Errorf("matching code to documentation: %w", err)
	}
	result.Timing.MatchMs = time.Since(matchStart).Milliseconds()

	compareStart := time.Now()
	verdicts := a.compareAll(ctx, pairs)
	result.Timing.CompareMs = time.Since(compareStart).Milliseconds()

	var discrepancies []report.Discrepancy
	for i, pair := range pairs {
		discrepancies = append(discrepancies, report.Synthesize(pair, verdicts[i])...)
	}
	discrepancies = append(discrepancies, report.SynthesizeUnclaimed(unclaimedDocs)...)
	report.SortDiscrepancies(discrepancies)
	if discrepancies == nil {
		discrepancies = []report.Discrepancy{}
	}

	result.Summary = report.Aggregate(verdicts)
	result.Discrepancies = discrepancies
	result.Timing.TotalMs = time.Since(start).Milliseconds()

	slog.Info("analysis complete",
		"run_id", result.RunID,
		"functions", result.Summary.TotalFunctions,
		"trust_score", result.Summary.TrustScore,
		"discrepancies", len(result.Discrepancies),
		"degraded", result.Summary.DegradedCount)

	return result, nil
}

// extractAll fans per-file extraction across the worker pool. Unsupported
// or unparseable files are skipped with a warning; extraction never fails
// the run.
func (a *Analyzer) extractAll(ctx context.Context, req Request) ([]extract.CodeUnit, []extract.DocUnit, []string) {
	type codeJob struct{ path, source string }

	var (
		mu        sync.Mutex
		codeUnits []extract.CodeUnit
		docUnits  []extract.DocUnit
		notes     []string
	)

	a.progress.StartStage("extracting", len(req.CodeFiles)+len(req.DocFiles))
	defer a.progress.FinishStage()

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.concurrency)

	for path, source := range req.CodeFiles {
		wg.Add(1)
		go func(job codeJob) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			units, err := a.registry.ExtractCode(ctx, job.path, []byte(job.source))
			mu.Lock()
			defer mu.Unlock()
			a.progress.Increment()
			if err != nil {
				var unsupported *extract.UnsupportedLanguageError
				if errors.As(err, &unsupported) {
					slog.Warn("skipping unsupported file", "path", job.path)
					notes = append(notes, fmt.Sprintf("skipped %s: unsupported language", job.path))
				} else {
					slog.Warn("extraction failed", "path", job.path, "error", err)
					notes = append(notes, fmt.Sprintf("skipped %s: extraction failed", job.path))
				}
				return
			}
			codeUnits = append(codeUnits, units...)
		}(codeJob{path, source})
	}

	for path, source := range req.DocFiles {
		wg.Add(1)
		go func(job codeJob) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			units, err := a.registry.ExtractDocs(ctx, job.path, []byte(job.source))
			mu.Lock()
			defer mu.Unlock()
			a.progress.Increment()
			if err != nil {
				var unsupported *extract.UnsupportedLanguageError
				if errors.As(err, &unsupported) {
					slog.Warn("skipping unsupported doc file", "path", job.path)
					notes = append(notes, fmt.Sprintf("skipped %s: unsupported language", job.path))
				} else {
					slog.Warn("doc extraction failed", "path", job.path, "error", err)
					notes = append(notes, fmt.Sprintf("skipped %s: extraction failed", job.path))
				}
				return
			}
			docUnits = append(docUnits, units...)
		}(codeJob{path, source})
	}

	wg.Wait()

	// Concurrent map iteration makes collection order nondeterministic.
	// Sorting here keeps re-runs on unchanged input byte-identical.
	sort.SliceStable(codeUnits, func(i, j int) bool {
		if codeUnits[i].FilePath != codeUnits[j].FilePath {
			return codeUnits[i].FilePath < codeUnits[j].FilePath
		}
		return codeUnits[i].Line < codeUnits[j].Line
	})
	sort.SliceStable(docUnits, func(i, j int) bool {
		if docUnits[i].FilePath != docUnits[j].FilePath {
			return docUnits[i].FilePath < docUnits[j].FilePath
		}
		return docUnits[i].Line < docUnits[j].Line
	})
	sort.Strings(notes)

	return codeUnits, docUnits, notes
}

// compareAll fans per-pair comparison across the worker pool. Verdicts land
// at their pair's index, so output order is independent of scheduling.
func (a *Analyzer) compareAll(ctx context.Context, pairs []match.MatchedPair) []compare.Verdict {
	verdicts := make([]compare.Verdict, len(pairs))

	a.progress.StartStage("comparing", len(pairs))
	defer a.progress.FinishStage()

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.concurrency)

	for i := range pairs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			verdicts[i] = a.comparator.Compare(ctx, pairs[i])
			a.progress.Increment()
		}(i)
	}

	wg.Wait()
	return verdicts
}
