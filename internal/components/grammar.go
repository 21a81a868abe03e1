package components

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/essay-grader/internal/types"
)

const (
	grammarExcellent = 0.8
	grammarGood      = 0.6
	grammarAdequate  = 0.4

	// weakSentence is the acceptability below which a sentence is quoted for review.
	weakSentence       = 0.5
	maxQuotedSentences = 3
)

// SentenceScore is the acceptability of one sentence.
type SentenceScore struct {
	Sentence string  `json:"sentence"`
	Score    float64 `json:"score"`
}

// ScoreGrammar averages per-sentence acceptability and maps it onto a band.
// Text with no sentences is a *types.InputError. A failed collaborator call yields a
// neutral, degraded result.
func (a *Analyzer) ScoreGrammar(ctx context.Context, text string) (types.ComponentFeedback, error) {
	sentences, err := a.toolkit.Splitter.SplitSentences(ctx, text)
	if err != nil {
		a.degrade(types.ComponentGrammar, OpSplit, err)
		return neutralComponent(types.ComponentGrammar), nil
	}
	if len(sentences) == 0 {
		return types.ComponentFeedback{}, &types.InputError{Field: "text", Message: "no valid sentences found"}
	}

	scores := make([]SentenceScore, 0, len(sentences))
	total := 0.0
	for _, s := range sentences {
		p, err := a.toolkit.Acceptability.Acceptability(ctx, s.Text)
		if err != nil {
			a.degrade(types.ComponentGrammar, OpAcceptability, err)
			return neutralComponent(types.ComponentGrammar), nil
		}
		scores = append(scores, SentenceScore{Sentence: s.Text, Score: p})
		total += p
	}
	avg := total / float64(len(scores))

	return types.ComponentFeedback{
		Score: types.ComponentScore{
			Name: types.ComponentGrammar,
			Band: bandOf(avg),
			Raw:  avg,
			Detail: map[string]any{
				"sentence_analysis": scores,
			},
		},
		Feedback: grammarFeedback(avg, scores),
	}, nil
}

// GrammarSummary returns the one-line description of an average acceptability.
func GrammarSummary(avg float64) string {
	switch {
	case avg > grammarExcellent:
		return "Excellent grammar with sophisticated structures."
	case avg > grammarGood:
		return "Good grammar with occasional errors that don't impede understanding."
	case avg > grammarAdequate:
		return "Adequate grammar but with noticeable errors."
	default:
		return "Significant grammatical errors that affect understanding."
	}
}

func grammarFeedback(avg float64, scores []SentenceScore) types.FeedbackBundle {
	fb := types.NewFeedbackBundle()
	summary := GrammarSummary(avg)
	if avg > grammarGood {
		fb.Strengths = append(fb.Strengths, summary)
	} else {
		fb.Improvements = append(fb.Improvements, summary)
	}

	weak := make([]SentenceScore, 0, len(scores))
	for _, s := range scores {
		if s.Score < weakSentence {
			weak = append(weak, s)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].Score < weak[j].Score })
	if len(weak) > maxQuotedSentences {
		weak = weak[:maxQuotedSentences]
	}
	for _, s := range weak {
		fb.Suggestions["sentences"] = append(fb.Suggestions["sentences"],
			fmt.Sprintf("Check the grammar of this sentence: %q", s.Sentence))
	}
	return fb
}
