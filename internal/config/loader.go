package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (VERITAS_*)
// 2. Config file (.veritas/config.yml or .veritas/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".veritas")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("VERITAS")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., VERITAS_JUDGE_API_KEY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	v.BindEnv("embedding.provider")
	v.BindEnv("embedding.model")
	v.BindEnv("embedding.dimensions")
	v.BindEnv("embedding.endpoint")
	v.BindEnv("embedding.api_key")
	v.BindEnv("embedding.cache_size")

	v.BindEnv("judge.provider")
	v.BindEnv("judge.model")
	v.BindEnv("judge.endpoint")
	v.BindEnv("judge.api_key")
	v.BindEnv("judge.timeout_seconds")
	v.BindEnv("judge.max_retries")

	v.BindEnv("routing.high_threshold")
	v.BindEnv("routing.judge_threshold")
	v.BindEnv("concurrency")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("embedding.provider", defaults.Embedding.Provider)
	v.SetDefault("embedding.model", defaults.Embedding.Model)
	v.SetDefault("embedding.dimensions", defaults.Embedding.Dimensions)
	v.SetDefault("embedding.endpoint", defaults.Embedding.Endpoint)
	v.SetDefault("embedding.cache_size", defaults.Embedding.CacheSize)

	v.SetDefault("judge.provider", defaults.Judge.Provider)
	v.SetDefault("judge.model", defaults.Judge.Model)
	v.SetDefault("judge.timeout_seconds", defaults.Judge.TimeoutSeconds)
	v.SetDefault("judge.max_retries", defaults.Judge.MaxRetries)

	v.SetDefault("matching.weight_embedding", defaults.Matching.WeightEmbedding)
	v.SetDefault("matching.weight_name", defaults.Matching.WeightName)
	v.SetDefault("matching.weight_feature", defaults.Matching.WeightFeature)
	v.SetDefault("matching.min_score", defaults.Matching.MinScore)

	v.SetDefault("routing.high_threshold", defaults.Routing.HighThreshold)
	v.SetDefault("routing.judge_threshold", defaults.Routing.JudgeThreshold)

	v.SetDefault("paths.code", defaults.Paths.Code)
	v.SetDefault("paths.docs", defaults.Paths.Docs)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("concurrency", defaults.Concurrency)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
