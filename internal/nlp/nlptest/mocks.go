// Package nlptest provides function-field mocks of the nlp collaborators for tests.
package nlptest

import (
	"context"
	"strings"

	"github.com/jonathan/essay-grader/internal/nlp"
)

// MockClassifier implements nlp.Classifier. With no func set, every label scores 0.5.
type MockClassifier struct {
	ClassifyElementsFunc func(ctx context.Context, text string, labels []string) (nlp.Classification, error)
}

func (m *MockClassifier) ClassifyElements(ctx context.Context, text string, labels []string) (nlp.Classification, error) {
	if m.ClassifyElementsFunc != nil {
		return m.ClassifyElementsFunc(ctx, text, labels)
	}
	scores := make([]float64, len(labels))
	for i := range scores {
		scores[i] = 0.5
	}
	return nlp.Classification{Labels: labels, Scores: scores}, nil
}

// FixedScores returns a ClassifyElementsFunc answering from a label map; absent labels score 0.
func FixedScores(scores map[string]float64) func(context.Context, string, []string) (nlp.Classification, error) {
	return func(_ context.Context, _ string, labels []string) (nlp.Classification, error) {
		out := nlp.Classification{Labels: labels, Scores: make([]float64, len(labels))}
		for i, l := range labels {
			out.Scores[i] = scores[l]
		}
		return out, nil
	}
}

// MockEmbedder implements nlp.Embedder. With no func set, every text embeds to [1 0].
type MockEmbedder struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return []float32{1, 0}, nil
}

// MockTagger implements nlp.Tagger. With no func set, it splits on whitespace and
// marks every token as an alphabetic noun.
type MockTagger struct {
	TagTokensFunc func(ctx context.Context, text string) ([]nlp.Token, error)
}

func (m *MockTagger) TagTokens(ctx context.Context, text string) ([]nlp.Token, error) {
	if m.TagTokensFunc != nil {
		return m.TagTokensFunc(ctx, text)
	}
	return SimpleTokens(text), nil
}

// MockChunker implements nlp.Chunker. With no func set, it returns no phrases.
type MockChunker struct {
	NounPhrasesFunc func(ctx context.Context, text string) ([]nlp.NounPhrase, error)
}

func (m *MockChunker) NounPhrases(ctx context.Context, text string) ([]nlp.NounPhrase, error) {
	if m.NounPhrasesFunc != nil {
		return m.NounPhrasesFunc(ctx, text)
	}
	return nil, nil
}

// MockSplitter implements nlp.SentenceSplitter. With no func set, it splits on periods.
type MockSplitter struct {
	SplitSentencesFunc func(ctx context.Context, text string) ([]nlp.Sentence, error)
}

func (m *MockSplitter) SplitSentences(ctx context.Context, text string) ([]nlp.Sentence, error) {
	if m.SplitSentencesFunc != nil {
		return m.SplitSentencesFunc(ctx, text)
	}
	return SimpleSentences(text), nil
}

// MockAcceptability implements nlp.AcceptabilityScorer. With no func set, every sentence scores 0.75.
type MockAcceptability struct {
	AcceptabilityFunc func(ctx context.Context, sentence string) (float64, error)
}

func (m *MockAcceptability) Acceptability(ctx context.Context, sentence string) (float64, error) {
	if m.AcceptabilityFunc != nil {
		return m.AcceptabilityFunc(ctx, sentence)
	}
	return 0.75, nil
}

// Toolkit returns a toolkit of default mocks.
func Toolkit() nlp.Toolkit {
	return nlp.Toolkit{
		Classifier:    &MockClassifier{},
		Embedder:      &MockEmbedder{},
		Tagger:        &MockTagger{},
		Chunker:       &MockChunker{},
		Splitter:      &MockSplitter{},
		Acceptability: &MockAcceptability{},
	}
}

// SimpleTokens splits text on whitespace, strips surrounding punctuation and tags
// every word as a noun.
func SimpleTokens(text string) []nlp.Token {
	var tokens []nlp.Token
	for _, field := range strings.Fields(text) {
		word := strings.Trim(field, ".,;:!?\"'()")
		if word == "" {
			continue
		}
		tokens = append(tokens, nlp.Token{
			Text:         word,
			Lemma:        strings.ToLower(word),
			Tag:          "NN",
			PartOfSpeech: "NOUN",
			IsAlpha:      isAlpha(word),
			IsStop:       nlp.IsStopword(word),
		})
	}
	return tokens
}

// SimpleSentences splits text after every period.
func SimpleSentences(text string) []nlp.Sentence {
	var sentences []nlp.Sentence
	for _, part := range strings.SplitAfter(text, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sentences = append(sentences, nlp.Sentence{Text: part, Tokens: SimpleTokens(part)})
	}
	return sentences
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return s != ""
}
