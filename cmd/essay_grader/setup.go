package main

import (
	"context"
	"fmt"

	"github.com/jonathan/essay-grader/internal/config"
	"github.com/jonathan/essay-grader/internal/db"
	"github.com/jonathan/essay-grader/internal/grader"
	"github.com/jonathan/essay-grader/internal/llm"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/observability"
)

// newToolkit builds the NLP collaborators. Tests replace it with mocks.
var newToolkit = func(ctx context.Context, cfg *config.Config) (nlp.Toolkit, func(), error) {
	if cfg.APIKey == "" {
		return nlp.Toolkit{}, nil, fmt.Errorf("API key is required (set %s environment variable or api_key in the config file)", config.EnvAPIKey)
	}
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nlp.Toolkit{}, nil, err
	}
	toolkit, err := llm.NewToolkit(client, cfg.EmbeddingCacheSize)
	if err != nil {
		_ = client.Close()
		return nlp.Toolkit{}, nil, err
	}
	return toolkit, func() { _ = client.Close() }, nil
}

// loadSettings reads the optional config file, applies environment overrides and
// the persistent log flags, fills defaults and validates the result.
func loadSettings() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	merged := cfg.MergeWithDefaults(config.Config{})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// newGrader wires a grader from configuration. The returned cleanup releases the
// model client.
func newGrader(ctx context.Context, cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) (*grader.Grader, func(), error) {
	toolkit, cleanup, err := newToolkit(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create NLP toolkit: %w", err)
	}

	g, err := grader.New(grader.Deps{
		Toolkit:    toolkit,
		Weights:    cfg.Weights,
		Thresholds: cfg.FeedbackThresholds(),
		Logger:     logger,
		Metrics:    metrics,
	})
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, fmt.Errorf("failed to create grader: %w", err)
	}
	if cleanup == nil {
		cleanup = func() {}
	}
	return g, cleanup, nil
}

// connectDB opens the submission store and creates its tables.
func connectDB(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set %s or database_url in the config file)", config.EnvDatabaseURL)
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	return database, nil
}
