// Package nlp defines the language-model collaborators the analyzers depend on,
// and a local tokenizer/tagger backed by prose.
package nlp

import (
	"context"
	"strings"

	"github.com/jonathan/essay-grader/internal/types"
)

// Classification is the result of zero-shot multi-label classification.
// Scores[i] is the independent probability that Labels[i] applies.
type Classification struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Score returns the probability for a label, or 0 if the label was not classified.
func (c Classification) Score(label string) float64 {
	for i, l := range c.Labels {
		if l == label && i < len(c.Scores) {
			return c.Scores[i]
		}
	}
	return 0
}

// Token is one tagged word or punctuation mark.
type Token struct {
	Text string
	// Lemma is the lowercased base form.
	Lemma string
	// Tag is the fine-grained Penn Treebank tag.
	Tag string
	// PartOfSpeech is the coarse universal tag (NOUN, VERB, ADJ, PRON, ...).
	PartOfSpeech string
	IsAlpha      bool
	IsStop       bool
}

// NounPhrase is a base noun chunk.
type NounPhrase struct {
	Text           string
	TokenCount     int
	HeadIsStopword bool
}

// Sentence is one segmented sentence with its tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Classifier assigns independent probabilities to candidate labels.
type Classifier interface {
	ClassifyElements(ctx context.Context, text string, labels []string) (Classification, error)
}

// Embedder maps text to a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Tagger tokenizes and part-of-speech tags text.
type Tagger interface {
	TagTokens(ctx context.Context, text string) ([]Token, error)
}

// Chunker extracts base noun phrases.
type Chunker interface {
	NounPhrases(ctx context.Context, text string) ([]NounPhrase, error)
}

// SentenceSplitter segments text into sentences.
type SentenceSplitter interface {
	SplitSentences(ctx context.Context, text string) ([]Sentence, error)
}

// AcceptabilityScorer returns the probability that a sentence is grammatically acceptable.
type AcceptabilityScorer interface {
	Acceptability(ctx context.Context, sentence string) (float64, error)
}

// Toolkit bundles the collaborators used by one grading run.
type Toolkit struct {
	Classifier    Classifier
	Embedder      Embedder
	Tagger        Tagger
	Chunker       Chunker
	Splitter      SentenceSplitter
	Acceptability AcceptabilityScorer
}

// Validate reports the first missing collaborator as a *types.ConfigurationError.
func (t Toolkit) Validate() error {
	missing := ""
	switch {
	case t.Classifier == nil:
		missing = "classifier"
	case t.Embedder == nil:
		missing = "embedder"
	case t.Tagger == nil:
		missing = "tagger"
	case t.Chunker == nil:
		missing = "chunker"
	case t.Splitter == nil:
		missing = "splitter"
	case t.Acceptability == nil:
		missing = "acceptability"
	default:
		return nil
	}
	return &types.ConfigurationError{Key: "toolkit." + missing, Message: "collaborator is not configured"}
}

// Words returns the lowercased alphabetic tokens.
func Words(tokens []Token) []string {
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.IsAlpha {
			words = append(words, strings.ToLower(t.Text))
		}
	}
	return words
}

// AlphaCount returns the number of alphabetic tokens.
func AlphaCount(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.IsAlpha {
			n++
		}
	}
	return n
}
