package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidProvider indicates an unsupported embedding or judge provider
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidDimensions indicates invalid embedding dimensions
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")

	// ErrEmptyModel indicates a missing model name
	ErrEmptyModel = errors.New("empty model")

	// ErrInvalidWeights indicates similarity weights that do not form a blend
	ErrInvalidWeights = errors.New("invalid similarity weights")

	// ErrInvalidThresholds indicates routing thresholds out of order or range
	ErrInvalidThresholds = errors.New("invalid routing thresholds")

	// ErrInvalidMinScore indicates a match floor outside [0, 1]
	ErrInvalidMinScore = errors.New("invalid minimum match score")

	// ErrInvalidTimeout indicates a non-positive judge timeout
	ErrInvalidTimeout = errors.New("invalid judge timeout")

	// ErrInvalidConcurrency indicates a non-positive worker count
	ErrInvalidConcurrency = errors.New("invalid concurrency")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateEmbedding(&cfg.Embedding); err != nil {
		errs = append(errs, err)
	}
	if err := validateJudge(&cfg.Judge); err != nil {
		errs = append(errs, err)
	}
	if err := validateMatching(&cfg.Matching); err != nil {
		errs = append(errs, err)
	}
	if err := validateRouting(&cfg.Routing); err != nil {
		errs = append(errs, err)
	}
	if cfg.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidConcurrency, cfg.Concurrency))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateEmbedding(cfg *EmbeddingConfig) error {
	var errs []error

	provider := strings.ToLower(cfg.Provider)
	if provider != "openai" && provider != "mock" && provider != "" {
		errs = append(errs, fmt.Errorf("%w: embedding provider must be 'openai' or 'mock', got '%s'", ErrInvalidProvider, cfg.Provider))
	}
	if strings.TrimSpace(cfg.Model) == "" && provider == "openai" {
		errs = append(errs, fmt.Errorf("%w: embedding model is required", ErrEmptyModel))
	}
	if cfg.Dimensions < 0 {
		errs = append(errs, fmt.Errorf("%w: dimensions cannot be negative, got %d", ErrInvalidDimensions, cfg.Dimensions))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateJudge(cfg *JudgeConfig) error {
	var errs []error

	provider := strings.ToLower(cfg.Provider)
	if provider != "openai" && provider != "mock" && provider != "none" && provider != "" {
		errs = append(errs, fmt.Errorf("%w: judge provider must be 'openai', 'mock', or 'none', got '%s'", ErrInvalidProvider, cfg.Provider))
	}
	if strings.TrimSpace(cfg.Model) == "" && provider == "openai" {
		errs = append(errs, fmt.Errorf("%w: judge model is required", ErrEmptyModel))
	}
	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout_seconds must be positive, got %d", ErrInvalidTimeout, cfg.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateMatching(cfg *MatchingConfig) error {
	var errs []error

	for name, w := range map[string]float64{
		"weight_embedding": cfg.WeightEmbedding,
		"weight_name":      cfg.WeightName,
		"weight_feature":   cfg.WeightFeature,
	} {
		if w < 0 || w > 1 {
			errs = append(errs, fmt.Errorf("%w: %s must be in [0,1], got %g", ErrInvalidWeights, name, w))
		}
	}
	sum := cfg.WeightEmbedding + cfg.WeightName + cfg.WeightFeature
	if math.Abs(sum-1.0) > 0.001 {
		errs = append(errs, fmt.Errorf("%w: weights must sum to 1.0, got %g", ErrInvalidWeights, sum))
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		errs = append(errs, fmt.Errorf("%w: min_score must be in [0,1], got %g", ErrInvalidMinScore, cfg.MinScore))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateRouting(cfg *RoutingConfig) error {
	var errs []error

	if cfg.HighThreshold <= 0 || cfg.HighThreshold > 1 {
		errs = append(errs, fmt.Errorf("%w: high_threshold must be in (0,1], got %g", ErrInvalidThresholds, cfg.HighThreshold))
	}
	if cfg.JudgeThreshold < 0 || cfg.JudgeThreshold > 1 {
		errs = append(errs, fmt.Errorf("%w: judge_threshold must be in [0,1], got %g", ErrInvalidThresholds, cfg.JudgeThreshold))
	}
	if cfg.JudgeThreshold >= cfg.HighThreshold {
		errs = append(errs, fmt.Errorf("%w: judge_threshold (%g) must be below high_threshold (%g)", ErrInvalidThresholds, cfg.JudgeThreshold, cfg.HighThreshold))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
