// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/essay-grader/internal/feedback"
	"github.com/jonathan/essay-grader/internal/llm"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/scoring"
)

// Environment variables that override file values
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

// Defaults applied by MergeWithDefaults when a field is unset
const (
	DefaultPort           = 8080
	DefaultRequestTimeout = 60
	DefaultRateLimit      = 2.0
	DefaultRateBurst      = 5
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or come from CLI flags.
type Config struct {
	// Models
	APIKey             string `json:"api_key,omitempty" yaml:"api_key,omitempty"`                           // Gemini API key
	LiteModel          string `json:"lite_model,omitempty" yaml:"lite_model,omitempty"`                     // Model for per-sentence judgments
	StandardModel      string `json:"standard_model,omitempty" yaml:"standard_model,omitempty"`             // Model for element classification
	EmbeddingModel     string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`           // Embedding model
	EmbeddingCacheSize int    `json:"embedding_cache_size,omitempty" yaml:"embedding_cache_size,omitempty"` // Cached embeddings

	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Server
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	RequestTimeout int      `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`
	RateLimit      float64  `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"` // Requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// Scoring
	Weights    map[string]float64   `json:"weights,omitempty" yaml:"weights,omitempty"`
	Thresholds *feedback.Thresholds `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`

	// Behavior
	Log     observability.LogConfig `json:"log,omitempty" yaml:"log,omitempty"`
	Verbose bool                    `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed reports
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Weight and threshold problems are returned wrapping a *types.ConfigurationError.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be non-negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_limit' and 'rate_burst' must be non-negative")
	}
	if c.EmbeddingCacheSize < 0 {
		return fmt.Errorf("config error: 'embedding_cache_size' must be non-negative")
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("config error: unknown log format %q", c.Log.Format)
	}

	if err := scoring.ValidateWeights(c.Weights); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Thresholds != nil {
		if err := c.Thresholds.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	return nil
}

// ApplyEnv overrides secrets with GEMINI_API_KEY and DATABASE_URL when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LiteModel == "" {
		result.LiteModel = defaults.LiteModel
	}
	if result.StandardModel == "" {
		result.StandardModel = defaults.StandardModel
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = firstPositive(defaults.Port, DefaultPort)
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = firstPositive(defaults.RequestTimeout, DefaultRequestTimeout)
	}
	if result.RateBurst == 0 {
		result.RateBurst = firstPositive(defaults.RateBurst, DefaultRateBurst)
	}
	if result.EmbeddingCacheSize == 0 {
		result.EmbeddingCacheSize = firstPositive(defaults.EmbeddingCacheSize, llm.DefaultEmbeddingCacheSize)
	}

	// Float fields
	if result.RateLimit == 0 {
		if defaults.RateLimit > 0 {
			result.RateLimit = defaults.RateLimit
		} else {
			result.RateLimit = DefaultRateLimit
		}
	}

	// Collections are replaced, never merged element-wise
	if result.Weights == nil {
		result.Weights = defaults.Weights
	}
	if result.Thresholds == nil {
		result.Thresholds = defaults.Thresholds
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig builds the model configuration, keeping defaults for unset model names.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.LiteModel != "" {
		cfg = cfg.WithModel(llm.TierLite, c.LiteModel)
	}
	if c.StandardModel != "" {
		cfg = cfg.WithModel(llm.TierStandard, c.StandardModel)
	}
	if c.EmbeddingModel != "" {
		cfg.EmbeddingModel = c.EmbeddingModel
	}
	return cfg
}

// FeedbackThresholds returns the configured thresholds or the defaults.
func (c *Config) FeedbackThresholds() feedback.Thresholds {
	if c.Thresholds == nil {
		return feedback.DefaultThresholds()
	}
	return *c.Thresholds
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
