package config

// Config represents the complete veritas configuration.
// It can be loaded from .veritas/config.yml with environment variable overrides.
type Config struct {
	Embedding   EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Judge       JudgeConfig     `yaml:"judge" mapstructure:"judge"`
	Matching    MatchingConfig  `yaml:"matching" mapstructure:"matching"`
	Routing     RoutingConfig   `yaml:"routing" mapstructure:"routing"`
	Paths       PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Concurrency int             `yaml:"concurrency" mapstructure:"concurrency"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`     // "openai" or "mock"
	Model      string `yaml:"model" mapstructure:"model"`           // e.g., "text-embedding-3-small"
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"` // embedding vector dimensions
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`     // optional OpenAI-compatible base URL
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	CacheSize  int    `yaml:"cache_size" mapstructure:"cache_size"` // cached embeddings; negative disables
}

// JudgeConfig configures the LLM judge.
type JudgeConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "openai" or "mock"
	Model          string `yaml:"model" mapstructure:"model"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// MatchingConfig tunes the blended similarity and the match floor.
type MatchingConfig struct {
	WeightEmbedding float64 `yaml:"weight_embedding" mapstructure:"weight_embedding"`
	WeightName      float64 `yaml:"weight_name" mapstructure:"weight_name"`
	WeightFeature   float64 `yaml:"weight_feature" mapstructure:"weight_feature"`
	MinScore        float64 `yaml:"min_score" mapstructure:"min_score"`
}

// RoutingConfig tunes the comparator's lane thresholds.
type RoutingConfig struct {
	HighThreshold  float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	JudgeThreshold float64 `yaml:"judge_threshold" mapstructure:"judge_threshold"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for code files
	Docs   []string `yaml:"docs" mapstructure:"docs"`     // glob patterns for documentation
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   "openai",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
			CacheSize:  10000,
		},
		Judge: JudgeConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 10,
			MaxRetries:     2,
		},
		Matching: MatchingConfig{
			WeightEmbedding: 0.5,
			WeightName:      0.3,
			WeightFeature:   0.2,
			MinScore:        0.15,
		},
		Routing: RoutingConfig{
			HighThreshold:  0.85,
			JudgeThreshold: 0.60,
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.py",
				"**/*.js",
				"**/*.jsx",
				"**/*.ts",
				"**/*.tsx",
				"**/*.java",
			},
			Docs: []string{
				"**/*.md",
				"**/openapi.json",
				"**/swagger.json",
				"**/package.json",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.test",
				"*.pyc",
				"*.min.js",
			},
		},
		Concurrency: 4,
	}
}
