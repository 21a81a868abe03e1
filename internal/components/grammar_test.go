package components

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/nlp/nlptest"
	"github.com/jonathan/essay-grader/internal/types"
)

func acceptabilityBy(scores map[string]float64) *nlptest.MockAcceptability {
	return &nlptest.MockAcceptability{AcceptabilityFunc: func(_ context.Context, sentence string) (float64, error) {
		return scores[sentence], nil
	}}
}

func TestScoreGrammar(t *testing.T) {
	tk := nlptest.Toolkit()
	tk.Acceptability = acceptabilityBy(map[string]float64{
		"The argument is clear.": 0.9,
		"Him go school.":         0.2,
		"Education matters.":     0.6,
	})
	a := newTestAnalyzer(tk)

	result, err := a.ScoreGrammar(context.Background(), "The argument is clear. Him go school. Education matters.")
	require.NoError(t, err)

	assert.Equal(t, types.ComponentGrammar, result.Score.Name)
	assert.InDelta(t, 1.7/3, result.Score.Raw, 1e-9)
	// 1 + 0.567*8 = 5.53
	assert.Equal(t, 5.5, result.Score.Band)
	assert.False(t, result.Score.Degraded)
	assert.Equal(t, []string{"Adequate grammar but with noticeable errors."}, result.Feedback.Improvements)
	assert.Empty(t, result.Feedback.Strengths)
	require.Len(t, result.Feedback.Suggestions["sentences"], 1)
	assert.Contains(t, result.Feedback.Suggestions["sentences"][0], "Him go school.")

	analysis, ok := result.Score.Detail["sentence_analysis"].([]SentenceScore)
	require.True(t, ok)
	assert.Len(t, analysis, 3)
}

func TestScoreGrammar_QuotesWeakestFirst(t *testing.T) {
	tk := nlptest.Toolkit()
	tk.Acceptability = acceptabilityBy(map[string]float64{
		"A.": 0.3, "B.": 0.1, "C.": 0.4, "D.": 0.2, "E.": 0.95,
	})
	a := newTestAnalyzer(tk)

	result, err := a.ScoreGrammar(context.Background(), "A. B. C. D. E.")
	require.NoError(t, err)

	lines := result.Feedback.Suggestions["sentences"]
	require.Len(t, lines, maxQuotedSentences)
	assert.Contains(t, lines[0], `"B."`)
	assert.Contains(t, lines[1], `"D."`)
	assert.Contains(t, lines[2], `"A."`)
}

func TestScoreGrammar_NoSentences(t *testing.T) {
	tk := nlptest.Toolkit()
	tk.Splitter = &nlptest.MockSplitter{SplitSentencesFunc: func(context.Context, string) ([]nlp.Sentence, error) {
		return nil, nil
	}}
	a := newTestAnalyzer(tk)

	_, err := a.ScoreGrammar(context.Background(), "...")
	var inputErr *types.InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestScoreGrammar_CollaboratorFailures(t *testing.T) {
	failing := errors.New("model offline")
	tests := []struct {
		name   string
		modify func(*nlp.Toolkit)
	}{
		{
			name: "splitter",
			modify: func(tk *nlp.Toolkit) {
				tk.Splitter = &nlptest.MockSplitter{SplitSentencesFunc: func(context.Context, string) ([]nlp.Sentence, error) {
					return nil, failing
				}}
			},
		},
		{
			name: "acceptability",
			modify: func(tk *nlp.Toolkit) {
				tk.Acceptability = &nlptest.MockAcceptability{AcceptabilityFunc: func(context.Context, string) (float64, error) {
					return 0, failing
				}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := nlptest.Toolkit()
			tt.modify(&tk)
			a := newTestAnalyzer(tk)

			result, err := a.ScoreGrammar(context.Background(), "One sentence. Another one.")
			require.NoError(t, err)
			assert.True(t, result.Score.Degraded)
			assert.Equal(t, 5.0, result.Score.Band)
			assert.NotEmpty(t, result.Feedback.Improvements)
		})
	}
}

func TestGrammarSummary(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{0.95, "Excellent grammar with sophisticated structures."},
		{0.8, "Good grammar with occasional errors that don't impede understanding."},
		{0.61, "Good grammar with occasional errors that don't impede understanding."},
		{0.6, "Adequate grammar but with noticeable errors."},
		{0.4, "Significant grammatical errors that affect understanding."},
		{0, "Significant grammatical errors that affect understanding."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GrammarSummary(tt.avg), "avg %v", tt.avg)
	}
}
