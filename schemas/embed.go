// Package schemas embeds the JSON Schemas for the grader's request, report and
// benchmark documents.
package schemas

import "embed"

// Schema file names
const (
	ScoreRequest     = "score_request.schema.json"
	ScoreReport      = "score_report.schema.json"
	BenchmarkSummary = "benchmark_summary.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Names lists the embedded schema files.
var Names = []string{ScoreRequest, ScoreReport, BenchmarkSummary}
