package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/essay-grader/internal/benchmark"
	"github.com/jonathan/essay-grader/internal/types"
)

func TestRunBenchmark_TextOutput(t *testing.T) {
	useMockToolkit(t)
	var out bytes.Buffer

	err := runBenchmark(context.Background(), &out, testConfig(), benchmarkOptions{
		Dataset:     repoPath("testdata", "essays.csv"),
		TaskType:    types.TaskArgument,
		Concurrency: 2,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "BENCHMARK RESULTS")
	assert.Contains(t, out.String(), "MAE:")
	assert.Contains(t, out.String(), "Component MAE:")
}

func TestRunBenchmark_JSONAndOutputFile(t *testing.T) {
	useMockToolkit(t)
	var out bytes.Buffer
	outPath := filepath.Join(t.TempDir(), "benchmark.json")
	dataset := repoPath("testdata", "essays.csv")

	err := runBenchmark(context.Background(), &out, testConfig(), benchmarkOptions{
		Dataset:    dataset,
		Limit:      1,
		OutputFile: outPath,
		JSON:       true,
	})
	require.NoError(t, err)

	var summary types.BenchmarkSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 1, summary.Essays)
	assert.Equal(t, 1, summary.Scored)
	assert.Equal(t, dataset, summary.Dataset)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var report benchmark.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Len(t, report.Results, 1)
	assert.Equal(t, summary.RunID, report.Summary.RunID)
}

func TestRunBenchmark_DatasetErrors(t *testing.T) {
	useMockToolkit(t)
	dir := t.TempDir()
	noRows := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(noRows, []byte("Essay,Overall\n,6\n"), 0644))

	tests := []struct {
		name    string
		dataset string
		wantErr string
	}{
		{name: "missing file", dataset: filepath.Join(dir, "missing.csv"), wantErr: "failed to open dataset"},
		{name: "no gradable rows", dataset: noRows, wantErr: "no gradable rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runBenchmark(context.Background(), &bytes.Buffer{}, testConfig(), benchmarkOptions{Dataset: tt.dataset})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
