// Package alignment scores how well an essay covers its task's rubric elements and
// the key phrases of its question.
package alignment

import (
	"context"
	"math"
	"strings"

	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/rubric"
	"github.com/jonathan/essay-grader/internal/types"
)

const (
	// Topic adherence blend when a question context is present.
	elementWeight    = 0.4
	similarityWeight = 0.6
	// onTopicThreshold is the exclusive lower bound for IsOnTopic.
	onTopicThreshold = 0.5
	// semanticMatchThreshold is the exclusive lower bound of sentence similarity for
	// a phrase that does not appear literally.
	semanticMatchThreshold = 0.6
	// neutralScore stands in for a signal that could not be computed, and for a
	// question with no key phrases.
	neutralScore = 0.5
)

// Collaborator operation names used in logs and metrics.
const (
	OpClassify = "classify_elements"
	OpEmbed    = "embed"
	OpChunk    = "noun_phrases"
	OpSplit    = "split_sentences"
)

// Deps are the collaborators a Scorer uses.
type Deps struct {
	Classifier nlp.Classifier
	Embedder   nlp.Embedder
	Chunker    nlp.Chunker
	Splitter   nlp.SentenceSplitter
	Logger     *observability.Logger
	Metrics    *observability.Metrics
}

// Scorer computes topic adherence and question alignment. It holds no mutable state.
type Scorer struct {
	deps Deps
}

// NewScorer creates a Scorer.
func NewScorer(deps Deps) *Scorer {
	if deps.Logger == nil {
		deps.Logger = observability.NopLogger()
	}
	return &Scorer{deps: deps}
}

// TopicAdherence blends the mean zero-shot element probability for the task type with
// the essay/question similarity when a question context is given.
//
// An unknown task type is returned as a *types.ConfigurationError. A collaborator
// failure yields the neutral result with Degraded set.
func (s *Scorer) TopicAdherence(ctx context.Context, text string, taskType types.TaskType, questionContext string) (types.TopicRelevance, error) {
	req, err := rubric.Lookup(taskType)
	if err != nil {
		return types.TopicRelevance{}, err
	}

	classification, err := s.deps.Classifier.ClassifyElements(ctx, text, req.Elements)
	if err != nil {
		s.degrade(OpClassify, err)
		return neutralTopic(), nil
	}

	elementScores := make(types.ElementScoreMap, len(classification.Labels))
	total, n := 0.0, 0
	for i, label := range classification.Labels {
		if i >= len(classification.Scores) {
			break
		}
		elementScores[label] = classification.Scores[i]
		total += classification.Scores[i]
		n++
	}
	base := 0.0
	if n > 0 {
		base = total / float64(n)
	}

	result := types.TopicRelevance{
		TopicAdherence: base,
		ElementScores:  elementScores,
	}

	if questionContext = strings.TrimSpace(questionContext); questionContext != "" {
		essayVec, err := s.deps.Embedder.Embed(ctx, text)
		if err != nil {
			s.degrade(OpEmbed, err)
			return neutralTopic(), nil
		}
		questionVec, err := s.deps.Embedder.Embed(ctx, questionContext)
		if err != nil {
			s.degrade(OpEmbed, err)
			return neutralTopic(), nil
		}
		sim := Cosine(essayVec, questionVec)
		result.QuestionSimilarity = &sim
		result.TopicAdherence = elementWeight*base + similarityWeight*sim
	}

	result.IsOnTopic = result.TopicAdherence > onTopicThreshold
	return result, nil
}

// QuestionAlignment checks each key phrase of the question context against the essay.
// A phrase is addressed when it appears literally (ignoring case) or when some essay
// sentence is semantically close to it. With no key phrases the score is 0.5.
func (s *Scorer) QuestionAlignment(ctx context.Context, text, questionContext string) types.AlignmentResult {
	if strings.TrimSpace(questionContext) == "" {
		return emptyAlignment(false)
	}

	phrases, err := s.deps.Chunker.NounPhrases(ctx, questionContext)
	if err != nil {
		s.degrade(OpChunk, err)
		return emptyAlignment(true)
	}
	elements := KeyPhrases(phrases)
	if len(elements) == 0 {
		return emptyAlignment(false)
	}

	lowerText := strings.ToLower(text)
	var sentenceVecs [][]float32
	sentencesLoaded := false

	result := types.AlignmentResult{
		AddressedElements: []string{},
		MissingElements:   []string{},
		TotalElements:     len(elements),
	}
	for _, element := range elements {
		if strings.Contains(lowerText, strings.ToLower(element)) {
			result.AddressedElements = append(result.AddressedElements, element)
			continue
		}

		if !sentencesLoaded {
			sentenceVecs, err = s.embedSentences(ctx, text)
			if err != nil {
				return emptyAlignment(true)
			}
			sentencesLoaded = true
		}

		elementVec, err := s.deps.Embedder.Embed(ctx, element)
		if err != nil {
			s.degrade(OpEmbed, err)
			return emptyAlignment(true)
		}
		if maxSimilarity(elementVec, sentenceVecs) > semanticMatchThreshold {
			result.AddressedElements = append(result.AddressedElements, element)
		} else {
			result.MissingElements = append(result.MissingElements, element)
		}
	}

	result.AddressedCount = len(result.AddressedElements)
	result.OverallScore = float64(result.AddressedCount) / float64(result.TotalElements)
	return result
}

// KeyPhrases filters noun phrases to those with more than one token or a non-stopword
// head, deduplicated by text in extraction order.
func KeyPhrases(phrases []nlp.NounPhrase) []string {
	seen := make(map[string]struct{}, len(phrases))
	var out []string
	for _, p := range phrases {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if p.TokenCount <= 1 && p.HeadIsStopword {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero norm or
// the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (s *Scorer) embedSentences(ctx context.Context, text string) ([][]float32, error) {
	sentences, err := s.deps.Splitter.SplitSentences(ctx, text)
	if err != nil {
		s.degrade(OpSplit, err)
		return nil, err
	}
	vecs := make([][]float32, 0, len(sentences))
	for _, sent := range sentences {
		vec, err := s.deps.Embedder.Embed(ctx, sent.Text)
		if err != nil {
			s.degrade(OpEmbed, err)
			return nil, err
		}
		vecs = append(vecs, vec)
	}
	return vecs, nil
}

func maxSimilarity(vec []float32, candidates [][]float32) float64 {
	best := math.Inf(-1)
	for _, c := range candidates {
		if sim := Cosine(vec, c); sim > best {
			best = sim
		}
	}
	return best
}

func (s *Scorer) degrade(operation string, err error) {
	cerr := &types.CollaboratorError{Operation: operation, Cause: err}
	s.deps.Logger.Warn("collaborator failed, using neutral signal", "operation", operation, "error", cerr)
	s.deps.Metrics.IncCollaboratorFailure(operation)
}

func neutralTopic() types.TopicRelevance {
	return types.TopicRelevance{
		TopicAdherence: neutralScore,
		ElementScores:  types.ElementScoreMap{},
		IsOnTopic:      true,
		Degraded:       true,
	}
}

func emptyAlignment(degraded bool) types.AlignmentResult {
	return types.AlignmentResult{
		OverallScore:      neutralScore,
		AddressedElements: []string{},
		MissingElements:   []string{},
		Degraded:          degraded,
	}
}
