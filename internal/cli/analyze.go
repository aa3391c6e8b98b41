package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas-dev/veritas/internal/analyze"
	"github.com/veritas-dev/veritas/internal/compare"
	"github.com/veritas-dev/veritas/internal/config"
	"github.com/veritas-dev/veritas/internal/embed"
	"github.com/veritas-dev/veritas/internal/extract"
	"github.com/veritas-dev/veritas/internal/judge"
	"github.com/veritas-dev/veritas/internal/match"
	"github.com/veritas-dev/veritas/internal/report"
)

var (
	analyzeFormat string
	analyzeOutput string
	analyzeQuiet  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a repository's documentation against its code",
	Long: `Analyze discovers code and documentation files under the given path
(default: current directory), verifies every documented claim against the
actual code, and prints a trust report.

Configuration is read from .veritas/config.yml under the target path, with
VERITAS_* environment variables taking precedence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format: text, json, or markdown")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rootDir := "."
	if len(args) > 0 {
		rootDir = args[0]
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return err
	}

	analyzer, cleanup, err := buildAnalyzer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	discovery, err := analyze.NewFileDiscovery(rootDir, cfg.Paths.Code, cfg.Paths.Docs, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("invalid path patterns: %w", err)
	}
	req, err := discovery.ReadRequest()
	if err != nil {
		return err
	}

	result, err := analyzer.Run(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, analyze.ErrNoInput) {
			return fmt.Errorf("no code or documentation files found under %s", rootDir)
		}
		return err
	}

	return report.WriteResult(result, analyzeFormat, analyzeOutput)
}

// buildAnalyzer assembles the pipeline from configuration. The returned
// cleanup closes the embedding provider.
func buildAnalyzer(ctx context.Context, cfg *config.Config) (*analyze.Analyzer, func(), error) {
	provider, err := embed.NewProvider(embed.Config{
		Provider:   cfg.Embedding.Provider,
		Endpoint:   cfg.Embedding.Endpoint,
		APIKey:     firstNonEmpty(cfg.Embedding.APIKey, os.Getenv("OPENAI_API_KEY")),
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		CacheSize:  cfg.Embedding.CacheSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building embedding provider: %w", err)
	}
	cleanup := func() { provider.Close() }

	if err := provider.Initialize(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	matcher := match.NewMatcher(provider,
		match.WithWeights(match.Weights{
			Embedding: cfg.Matching.WeightEmbedding,
			Name:      cfg.Matching.WeightName,
			Feature:   cfg.Matching.WeightFeature,
		}),
		match.WithFloor(cfg.Matching.MinScore),
	)

	j, err := buildJudge(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	comparator := compare.NewComparator(j, compare.Config{
		HighThreshold:  cfg.Routing.HighThreshold,
		JudgeThreshold: cfg.Routing.JudgeThreshold,
		JudgeTimeout:   time.Duration(cfg.Judge.TimeoutSeconds) * time.Second,
	})

	opts := []analyze.AnalyzerOption{analyze.WithConcurrency(cfg.Concurrency)}
	if !analyzeQuiet {
		opts = append(opts, analyze.WithProgress(NewCLIProgressReporter()))
	}

	return analyze.NewAnalyzer(extract.NewRegistry(), matcher, comparator, opts...), cleanup, nil
}

func buildJudge(cfg *config.Config) (compare.Judge, error) {
	switch cfg.Judge.Provider {
	case "mock":
		return &judge.MockJudge{}, nil
	case "none":
		// Comparator degrades every escalated pair to the embedding formula.
		return nil, nil
	default:
		return judge.NewOpenAI(judge.Config{
			APIKey:     firstNonEmpty(cfg.Judge.APIKey, os.Getenv("OPENAI_API_KEY")),
			BaseURL:    cfg.Judge.Endpoint,
			Model:      cfg.Judge.Model,
			MaxRetries: cfg.Judge.MaxRetries,
		})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
