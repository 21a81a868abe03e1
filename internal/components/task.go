package components

import (
	"context"
	"strings"

	"github.com/jonathan/essay-grader/internal/feedback"
	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/rubric"
	"github.com/jonathan/essay-grader/internal/scoring"
	"github.com/jonathan/essay-grader/internal/types"
)

// ScoreTaskAchievement scores how fully the essay answers its task: topic adherence,
// question alignment when a question is given, length and discourse markers.
//
// Invalid input is a *types.InputError and an unknown task type a
// *types.ConfigurationError. Collaborator failures degrade the result instead.
func (a *Analyzer) ScoreTaskAchievement(ctx context.Context, essay types.Essay) (types.TaskAchievement, error) {
	if err := essay.Validate(); err != nil {
		return types.TaskAchievement{}, err
	}
	req, err := rubric.Lookup(essay.TaskType)
	if err != nil {
		return types.TaskAchievement{}, err
	}
	text := strings.TrimSpace(essay.Text)
	questionContext := essay.QuestionContext()

	topic, err := a.alignment.TopicAdherence(ctx, text, essay.TaskType, questionContext)
	if err != nil {
		return types.TaskAchievement{}, err
	}

	var aligned *types.AlignmentResult
	if questionContext != "" {
		result := a.alignment.QuestionAlignment(ctx, text, questionContext)
		aligned = &result
	}

	tokens, err := a.toolkit.Tagger.TagTokens(ctx, text)
	wordCountDegraded := false
	if err != nil {
		a.degrade(types.ComponentTaskAchievement, OpTag, err)
		tokens = fallbackTokens(text)
		wordCountDegraded = true
	}
	wordCount := CheckWordCount(tokens, req.MinWords)

	coverage := markers.Coverage(text, markers.DiscourseMarkers)
	markerScore := markers.Score(coverage)
	paragraphs := Paragraphs(text)

	signals := scoring.Signals{TopicAdherence: topic.TopicAdherence, WordCountOK: wordCount.MeetsRequirement}
	if aligned != nil {
		signals.Alignment = &aligned.OverallScore
	}
	scheme := scoring.SelectScheme(signals)
	band := scoring.TaskBand(signals, scheme)

	detail := map[string]any{
		"topic_relevance": topic.TopicAdherence,
		"word_count":      scoring.WordCountScore(wordCount.MeetsRequirement),
		"marker_score":    markerScore,
		"weights":         scheme.Weights(),
	}
	if aligned != nil {
		detail["question_alignment"] = aligned.OverallScore
	}

	fb := feedback.Synthesize(feedback.Analysis{
		TaskType:        essay.TaskType.Normalize(),
		QuestionContext: questionContext,
		Topic:           topic,
		Alignment:       aligned,
		WordCount:       wordCount,
		Markers:         coverage,
		MarkerScore:     markerScore,
		MarkerSet:       markers.DiscourseMarkers,
		Paragraphs:      paragraphs,
	}, a.thresholds)

	degraded := topic.Degraded || wordCountDegraded || (aligned != nil && aligned.Degraded)
	return types.TaskAchievement{
		Component: types.ComponentScore{
			Name:     types.ComponentTaskAchievement,
			Band:     band,
			Raw:      topic.TopicAdherence,
			Degraded: degraded,
			Detail:   detail,
		},
		Topic:      topic,
		Alignment:  aligned,
		WordCount:  wordCount,
		Markers:    coverage,
		Paragraphs: paragraphs,
		Feedback:   fb,
	}, nil
}

// fallbackTokens counts whitespace-separated words that contain a letter.
func fallbackTokens(text string) []nlp.Token {
	var tokens []nlp.Token
	for _, field := range strings.Fields(text) {
		if strings.IndexFunc(field, isLetter) >= 0 {
			tokens = append(tokens, nlp.Token{Text: field, Lemma: strings.ToLower(field), IsAlpha: true})
		}
	}
	return tokens
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
