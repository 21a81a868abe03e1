package benchmark

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/essay-grader/internal/types"
)

const sampleCSV = `Task_Type,Question,Essay,Task_Response,Coherence_Cohesion,Lexical_Resource,Range_Accuracy,Overall
2,"Is university education necessary?","Some people think university is essential. I disagree.",6,6.5,6,5.5,6
2,"Should cities ban cars?","",5,5,5,5,5
2,"Should cities ban cars?","Cars pollute the air, so cities should limit them.",,,,,7.5
2,"Is tourism good?","Tourism brings money.",5,5,5,5,n/a
`

func TestLoad(t *testing.T) {
	samples, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	first := samples[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "Is university education necessary?", first.Question)
	assert.Equal(t, 6.0, first.Overall)
	assert.Equal(t, map[string]float64{
		types.ComponentTaskAchievement: 6,
		types.ComponentCoherence:       6.5,
		types.ComponentLexical:         6,
		types.ComponentGrammar:         5.5,
	}, first.Components)

	second := samples[1]
	assert.Equal(t, 3, second.Row)
	assert.Equal(t, 7.5, second.Overall)
	assert.Nil(t, second.Components)
}

func TestLoad_HeaderVariants(t *testing.T) {
	csv := "\ufeffESSAY , overall\nShort essay.,4.5\n"
	samples, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "Short essay.", samples[0].Essay)
	assert.Empty(t, samples[0].Question)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "dataset is empty"},
		{"missing essay", "Question,Overall\nq,5\n", "missing column: essay"},
		{"missing overall", "Essay,Question\ne,q\n", "missing column: overall"},
		{"bad quoting", "Essay,Overall\n\"unterminated,5\n", "extraneous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "essays.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	samples, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
