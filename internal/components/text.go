package components

import (
	"regexp"
	"strings"

	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/scoring"
	"github.com/jonathan/essay-grader/internal/types"
)

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// Paragraphs splits text on blank lines and counts whitespace-separated words per block.
func Paragraphs(text string) []types.Paragraph {
	var paragraphs []types.Paragraph
	for _, block := range blankLine.Split(strings.TrimSpace(text), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		paragraphs = append(paragraphs, types.Paragraph{Text: block, Length: len(strings.Fields(block))})
	}
	return paragraphs
}

// CheckWordCount compares the number of alphabetic tokens with the required minimum.
func CheckWordCount(tokens []nlp.Token, required int) types.WordCount {
	count := nlp.AlphaCount(tokens)
	return types.WordCount{
		Count:            count,
		Required:         required,
		MeetsRequirement: count >= required,
		Difference:       count - required,
	}
}

// bandOf maps a unit score to a band on the half-step lattice.
func bandOf(unit float64) float64 {
	return scoring.Normalize(scoring.ToBand(unit))
}

func minOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
