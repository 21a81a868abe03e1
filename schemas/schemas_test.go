package schemas_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	validation "github.com/jonathan/essay-grader/internal/schemas"
	"github.com/jonathan/essay-grader/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range schemas.Names {
		t.Run(name, func(t *testing.T) {
			data, err := schemas.FS.ReadFile(name)
			require.NoError(t, err, "schema should be embedded")

			var v map[string]any
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", name)
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", v["$schema"])
			assert.Equal(t, "object", v["type"])
			assert.NotEmpty(t, v["required"])
		})
	}
}

func TestEmbeddedMatchesDisk(t *testing.T) {
	for _, name := range schemas.Names {
		t.Run(name, func(t *testing.T) {
			embedded, err := schemas.FS.ReadFile(name)
			require.NoError(t, err)
			onDisk, err := os.ReadFile(filepath.Join(".", name))
			require.NoError(t, err)
			assert.Equal(t, string(onDisk), string(embedded))
		})
	}
}

func TestValidFixtures(t *testing.T) {
	fixtures := map[string]string{
		schemas.ScoreRequest:     "score_request.json",
		schemas.ScoreReport:      "score_report.json",
		schemas.BenchmarkSummary: "benchmark_summary.json",
	}

	for schema, fixture := range fixtures {
		t.Run(fixture, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("..", "testdata", "valid", fixture))
			require.NoError(t, err)
			assert.NoError(t, validation.ValidateEmbedded(schema, data))
		})
	}
}

func TestInvalidFixtures(t *testing.T) {
	fixtures := map[string]string{
		schemas.ScoreRequest: "score_request.json",
		schemas.ScoreReport:  "score_report.json",
	}

	for schema, fixture := range fixtures {
		t.Run(fixture, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("..", "testdata", "invalid", fixture))
			require.NoError(t, err)

			err = validation.ValidateEmbedded(schema, data)
			var validationErr *validation.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}
