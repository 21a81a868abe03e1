package nlp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// ProseAnalyzer is a local Tagger, Chunker and SentenceSplitter backed by prose's
// averaged-perceptron tagger and sentence segmenter. The tagging model is loaded
// once per process and shared; the analyzer is safe for concurrent use.
type ProseAnalyzer struct {
	model *prose.Model
}

var (
	sharedModelOnce sync.Once
	sharedModel     *prose.Model
)

// loadModel returns the process-wide tagging model.
func loadModel() *prose.Model {
	sharedModelOnce.Do(func() {
		sharedModel = prose.ModelFromData("essay-grader")
	})
	return sharedModel
}

// NewProseAnalyzer creates a local analyzer.
func NewProseAnalyzer() *ProseAnalyzer {
	return &ProseAnalyzer{model: loadModel()}
}

// TagTokens tokenizes and tags text without sentence segmentation.
func (a *ProseAnalyzer) TagTokens(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
		prose.UsingModel(a.model))
	if err != nil {
		return nil, fmt.Errorf("failed to tag text: %w", err)
	}
	return convertTokens(doc.Tokens()), nil
}

// SplitSentences segments and tags text in a single pass, then assigns the tagged
// tokens to sentences in order.
func (a *ProseAnalyzer) SplitSentences(ctx context.Context, text string) ([]Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.UsingModel(a.model))
	if err != nil {
		return nil, fmt.Errorf("failed to segment text: %w", err)
	}

	texts := make([]string, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		texts = append(texts, s.Text)
	}
	return assignTokens(texts, convertTokens(doc.Tokens())), nil
}

func convertTokens(raw []prose.Token) []Token {
	tokens := make([]Token, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, newToken(t.Text, t.Tag))
	}
	return tokens
}

// assignTokens distributes tokens over sentences by consuming, for each sentence,
// tokens until their combined length covers the sentence's non-space characters.
// Blank sentences are dropped and any tokens left over join the last sentence.
func assignTokens(texts []string, tokens []Token) []Sentence {
	var sentences []Sentence
	next := 0
	for _, raw := range texts {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		want := nonSpaceLen(text)
		got := 0
		first := next
		for next < len(tokens) && got < want {
			got += nonSpaceLen(tokens[next].Text)
			next++
		}
		sentences = append(sentences, Sentence{Text: text, Tokens: tokens[first:next:next]})
	}
	if n := len(sentences); n > 0 && next < len(tokens) {
		last := &sentences[n-1]
		last.Tokens = append(last.Tokens, tokens[next:]...)
	}
	return sentences
}

func nonSpaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// NounPhrases returns base noun chunks in text order.
func (a *ProseAnalyzer) NounPhrases(ctx context.Context, text string) ([]NounPhrase, error) {
	tokens, err := a.TagTokens(ctx, text)
	if err != nil {
		return nil, err
	}
	return ChunkNounPhrases(tokens), nil
}

// ChunkNounPhrases groups maximal runs of determiners, modifiers and nouns that end in a
// noun. Personal pronouns form single-token chunks.
func ChunkNounPhrases(tokens []Token) []NounPhrase {
	var phrases []NounPhrase
	var run []Token

	flush := func() {
		last := len(run) - 1
		for last >= 0 && !isNominal(run[last]) {
			last--
		}
		if last >= 0 {
			phrases = append(phrases, newNounPhrase(run[:last+1]))
		}
		run = run[:0]
	}

	for _, tok := range tokens {
		switch {
		case tok.Tag == "PRP":
			flush()
			phrases = append(phrases, newNounPhrase([]Token{tok}))
		case chunkTags[tok.Tag]:
			run = append(run, tok)
		default:
			flush()
		}
	}
	flush()
	return phrases
}

var chunkTags = map[string]bool{
	"DT": true, "PDT": true, "PRP$": true, "CD": true,
	"JJ": true, "JJR": true, "JJS": true,
	"NN": true, "NNS": true, "NNP": true, "NNPS": true,
}

func isNominal(t Token) bool {
	return t.PartOfSpeech == "NOUN" || t.PartOfSpeech == "PROPN"
}

func newNounPhrase(run []Token) NounPhrase {
	words := make([]string, len(run))
	for i, t := range run {
		words[i] = t.Text
	}
	head := run[len(run)-1]
	return NounPhrase{
		Text:           strings.Join(words, " "),
		TokenCount:     len(run),
		HeadIsStopword: head.IsStop,
	}
}

func newToken(text, tag string) Token {
	pos := universalTag(tag)
	return Token{
		Text:         text,
		Lemma:        lemmatize(text, tag),
		Tag:          tag,
		PartOfSpeech: pos,
		IsAlpha:      isAlpha(text),
		IsStop:       IsStopword(text),
	}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// universalTag maps a Penn Treebank tag to its coarse universal part of speech.
func universalTag(tag string) string {
	switch tag {
	case "NN", "NNS":
		return "NOUN"
	case "NNP", "NNPS":
		return "PROPN"
	case "PRP", "PRP$", "WP", "WP$", "EX":
		return "PRON"
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return "VERB"
	case "MD":
		return "AUX"
	case "JJ", "JJR", "JJS":
		return "ADJ"
	case "RB", "RBR", "RBS", "WRB":
		return "ADV"
	case "DT", "PDT", "WDT":
		return "DET"
	case "IN", "RP":
		return "ADP"
	case "CC":
		return "CCONJ"
	case "CD":
		return "NUM"
	case "TO", "POS":
		return "PART"
	case "UH":
		return "INTJ"
	case "SYM", "$", "#":
		return "SYM"
	case "FW", "LS":
		return "X"
	default:
		return "PUNCT"
	}
}

// lemmatize lowercases the token and reduces regular plural nouns to their singular.
func lemmatize(text, tag string) string {
	lower := strings.ToLower(text)
	if tag != "NNS" && tag != "NNPS" {
		return lower
	}
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return strings.TrimSuffix(lower, "ies") + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"), strings.HasSuffix(lower, "xes"):
		return strings.TrimSuffix(lower, "es")
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"):
		return lower
	case strings.HasSuffix(lower, "s") && len(lower) > 3:
		return strings.TrimSuffix(lower, "s")
	}
	return lower
}
