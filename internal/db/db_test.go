package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/essay-grader/internal/types"
)

func TestBuildListQuery_Defaults(t *testing.T) {
	query, args := buildListQuery(SubmissionFilters{})

	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $1")
	assert.NotContains(t, query, "OFFSET")
	assert.Equal(t, []any{DefaultListLimit}, args)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	query, args := buildListQuery(SubmissionFilters{
		TaskType: " Discussion ",
		MinBand:  6.5,
		Limit:    10,
		Offset:   20,
	})

	assert.Contains(t, query, "AND task_type = $1")
	assert.Contains(t, query, "AND band >= $2")
	assert.Contains(t, query, "LIMIT $3")
	assert.Contains(t, query, "OFFSET $4")
	assert.Equal(t, []any{"discussion", 6.5, 10, 20}, args)
}

func TestBuildListQuery_CapsLimit(t *testing.T) {
	_, args := buildListQuery(SubmissionFilters{Limit: 10_000})
	assert.Equal(t, []any{MaxListLimit}, args)
}

func TestDecodeReport(t *testing.T) {
	report, err := decodeReport([]byte(`{"task_type":"argument","band":6.5,"percentage":68.75}`))
	assert.NoError(t, err)
	assert.Equal(t, types.TaskArgument, report.TaskType)
	assert.Equal(t, 6.5, report.Band)

	report, err = decodeReport(nil)
	assert.NoError(t, err)
	assert.Nil(t, report)

	_, err = decodeReport([]byte(`{not json`))
	assert.Error(t, err)
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS submissions")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS benchmark_runs")
}
