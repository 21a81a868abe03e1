package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonathan/essay-grader/internal/config"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/nlp/nlptest"
)

// useMockToolkit swaps the model-backed toolkit for in-process mocks for the
// duration of a test.
func useMockToolkit(t *testing.T) {
	t.Helper()
	original := newToolkit
	newToolkit = func(context.Context, *config.Config) (nlp.Toolkit, func(), error) {
		return nlptest.Toolkit(), nil, nil
	}
	t.Cleanup(func() { newToolkit = original })
}

// testConfig returns defaults with logging silenced
func testConfig() *config.Config {
	cfg := (&config.Config{}).MergeWithDefaults(config.Config{})
	cfg.Log.Level = "error"
	return &cfg
}

// repoPath resolves a path relative to the repository root
func repoPath(parts ...string) string {
	return filepath.Join(append([]string{"..", ".."}, parts...)...)
}
