package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/types"
)

func baseAnalysis() Analysis {
	return Analysis{
		TaskType: types.TaskArgument,
		Topic: types.TopicRelevance{
			TopicAdherence: 0.65,
			ElementScores:  types.ElementScoreMap{"position": 0.8, "arguments": 0.7, "examples": 0.65, "conclusion": 0.9},
			IsOnTopic:      true,
		},
		WordCount: types.WordCount{Count: 300, Required: 250, MeetsRequirement: true, Difference: 50},
		Markers: types.MarkerCoverage{
			"position":   {"believe"},
			"evidence":   {"because"},
			"contrast":   {"however"},
			"conclusion": {"therefore"},
		},
		MarkerScore: 0.6,
		Paragraphs:  []types.Paragraph{{Length: 50}, {Length: 150}, {Length: 100}},
	}
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, 0.7, th.TopicStrength)
	assert.Equal(t, 0.6, th.TopicImprovement)
	assert.Equal(t, 0.6, th.WeakElement)
	assert.Equal(t, 0.7, th.AlignmentStrength)
	assert.Equal(t, 0.6, th.AlignmentImprovement)
	assert.Equal(t, 0.7, th.MarkerStrength)
	assert.Equal(t, 0.6, th.MarkerImprovement)
	assert.Equal(t, 3, th.MaxExamplePhrases)
	assert.NoError(t, th.Validate())
}

func TestThresholds_Validate(t *testing.T) {
	th := DefaultThresholds()
	th.TopicStrength = 1.2
	var cfgErr *types.ConfigurationError
	require.ErrorAs(t, th.Validate(), &cfgErr)
	assert.Equal(t, "thresholds.topic_strength", cfgErr.Key)

	th = DefaultThresholds()
	th.MarkerImprovement = 0.9
	require.ErrorAs(t, th.Validate(), &cfgErr)
	assert.Equal(t, "thresholds.marker", cfgErr.Key)

	th = DefaultThresholds()
	th.MaxExamplePhrases = 0
	assert.Error(t, th.Validate())
}

func TestTopicRule(t *testing.T) {
	th := DefaultThresholds()
	a := baseAnalysis()

	a.Topic.TopicAdherence = 0.75
	assert.Equal(t, []Item{{Kind: Strength, Text: "Strong topic relevance and task achievement"}}, TopicRule(a, th))

	a.Topic.TopicAdherence = 0.7
	assert.Empty(t, TopicRule(a, th))

	a.Topic.TopicAdherence = 0.55
	assert.Equal(t, Improvement, TopicRule(a, th)[0].Kind)

	a.Topic = types.TopicRelevance{TopicAdherence: 0.5, ElementScores: types.ElementScoreMap{}, IsOnTopic: true, Degraded: true}
	assert.Empty(t, TopicRule(a, th))
}

func TestTopicRule_DegradedNeverAStrength(t *testing.T) {
	a := baseAnalysis()
	a.Topic.TopicAdherence = 0.95
	a.Topic.Degraded = true

	bundle := Synthesize(a, DefaultThresholds())

	assert.NotContains(t, bundle.Strengths, "Strong topic relevance and task achievement")
}

func TestWeakElementsRule_RubricOrder(t *testing.T) {
	a := baseAnalysis()
	a.Topic.ElementScores = types.ElementScoreMap{"conclusion": 0.2, "position": 0.3, "arguments": 0.9, "examples": 0.59}

	items := WeakElementsRule(a, DefaultThresholds())

	require.Len(t, items, 3)
	assert.Equal(t, "Strengthen coverage of 'position'", items[0].Text)
	assert.Equal(t, "Strengthen coverage of 'examples'", items[1].Text)
	assert.Equal(t, "Strengthen coverage of 'conclusion'", items[2].Text)
	for _, item := range items {
		assert.Equal(t, CategoryTopic, item.Category)
	}
}

func TestWeakElementsRule_HumanizesNames(t *testing.T) {
	a := baseAnalysis()
	a.TaskType = types.TaskDiscussion
	a.Topic.ElementScores = types.ElementScoreMap{"multiple_views": 0.1}

	items := WeakElementsRule(a, DefaultThresholds())

	require.Len(t, items, 1)
	assert.Equal(t, "Strengthen coverage of 'multiple views'", items[0].Text)
}

func TestAlignmentRule(t *testing.T) {
	th := DefaultThresholds()
	a := baseAnalysis()
	assert.Empty(t, AlignmentRule(a, th))

	a.Alignment = &types.AlignmentResult{OverallScore: 0.75, TotalElements: 4, AddressedCount: 3}
	assert.Equal(t, Strength, AlignmentRule(a, th)[0].Kind)

	a.Alignment = &types.AlignmentResult{OverallScore: 0.25, TotalElements: 4, AddressedCount: 1, MissingElements: []string{"a", "b", "c"}}
	items := AlignmentRule(a, th)
	require.Len(t, items, 1)
	assert.Equal(t, "Address more of the question: 3 of 4 key points are missing", items[0].Text)

	a.Alignment = &types.AlignmentResult{OverallScore: 0.5, Degraded: true}
	assert.Empty(t, AlignmentRule(a, th))

	a.Alignment = &types.AlignmentResult{OverallScore: 0.5}
	assert.Empty(t, AlignmentRule(a, th))
}

func TestMissingQuestionElementsRule_QuotesQuestion(t *testing.T) {
	a := baseAnalysis()
	a.QuestionContext = "Some people think schools should teach finance. Discuss the Main Challenges of this approach."
	a.Alignment = &types.AlignmentResult{
		OverallScore:    0,
		MissingElements: []string{"the main challenges", "household budgets"},
		TotalElements:   2,
	}

	items := MissingQuestionElementsRule(a, DefaultThresholds())

	require.Len(t, items, 2)
	assert.Equal(t, `Address 'the main challenges' from the question, which asks: "Discuss the Main Challenges of this approach."`, items[0].Text)
	assert.Equal(t, "Address 'household budgets' from the question", items[1].Text)
	assert.Equal(t, CategoryQuestion, items[0].Category)
}

func TestMarkerRule(t *testing.T) {
	th := DefaultThresholds()
	a := baseAnalysis()

	a.MarkerScore = 0.8
	assert.Equal(t, "Good use of cohesive devices and clear structure", MarkerRule(a, th)[0].Text)
	a.MarkerScore = 0.65
	assert.Empty(t, MarkerRule(a, th))
	a.MarkerScore = 0.3
	assert.Equal(t, "Use more discourse markers to improve coherence", MarkerRule(a, th)[0].Text)
}

func TestMissingMarkersRule_NamesUpToThreeExamples(t *testing.T) {
	a := baseAnalysis()
	a.Markers = markers.Coverage("I believe this because it matters.", markers.DiscourseMarkers)

	items := MissingMarkersRule(a, DefaultThresholds())

	require.Len(t, items, 2)
	assert.Equal(t, "Add contrast markers such as 'however', 'although', 'despite'", items[0].Text)
	assert.Equal(t, "Add conclusion markers such as 'therefore', 'thus', 'consequently'", items[1].Text)
}

func TestMissingMarkersRule_CustomSet(t *testing.T) {
	a := baseAnalysis()
	a.MarkerSet = markers.LinkingPhrases
	a.Markers = markers.Coverage("", markers.LinkingPhrases)
	th := DefaultThresholds()
	th.MaxExamplePhrases = 1

	items := MissingMarkersRule(a, th)

	require.Len(t, items, 6)
	assert.Equal(t, "Add cause effect markers such as 'consequently'", items[2].Text)
}

func TestStructureRule(t *testing.T) {
	th := DefaultThresholds()
	a := baseAnalysis()
	assert.Empty(t, StructureRule(a, th))

	a.MarkerScore = 0.2
	assert.Len(t, StructureRule(a, th), 3)

	a.MarkerScore = 0.65
	a.Paragraphs = []types.Paragraph{{Length: 300}}
	items := StructureRule(a, th)
	require.Len(t, items, 1)
	assert.Equal(t, "Organise the essay into 3 paragraphs: introduction, body, conclusion", items[0].Text)
}

func TestWordCountRule(t *testing.T) {
	a := baseAnalysis()
	assert.Equal(t, []Item{{Kind: Strength, Text: "Meets the required word count"}}, WordCountRule(a, DefaultThresholds()))

	a.WordCount = types.WordCount{Count: 180, Required: 250, Difference: -70}
	items := WordCountRule(a, DefaultThresholds())
	require.Len(t, items, 2)
	assert.Equal(t, "Increase word count by 70 words to meet the minimum requirement", items[0].Text)
	assert.Equal(t, CategoryWordCount, items[1].Category)
}

func TestSynthesize_OrderFollowsRules(t *testing.T) {
	a := baseAnalysis()
	a.Topic.TopicAdherence = 0.9
	a.Alignment = &types.AlignmentResult{OverallScore: 1, TotalElements: 1, AddressedCount: 1, AddressedElements: []string{"x"}}
	a.MarkerScore = 0.8

	bundle := Synthesize(a, DefaultThresholds())

	assert.Equal(t, []string{
		"Strong topic relevance and task achievement",
		"Addresses the key points of the question",
		"Good use of cohesive devices and clear structure",
		"Meets the required word count",
	}, bundle.Strengths)
	assert.Empty(t, bundle.Improvements)
}

func TestSynthesize_DeduplicatesPerList(t *testing.T) {
	dup := func(Analysis, Thresholds) []Item {
		return []Item{
			{Kind: Improvement, Text: "Same"},
			{Kind: Improvement, Text: "Same"},
			{Kind: Suggestion, Category: "a", Text: "Same"},
			{Kind: Suggestion, Category: "b", Text: "Same"},
			{Kind: Suggestion, Text: "Uncategorised"},
		}
	}

	bundle := Synthesize(baseAnalysis(), DefaultThresholds(), dup, dup)

	assert.Equal(t, []string{"Same"}, bundle.Improvements)
	assert.Equal(t, []string{"Same"}, bundle.Suggestions["a"])
	assert.Equal(t, []string{"Same"}, bundle.Suggestions["b"])
	assert.Equal(t, []string{"Uncategorised"}, bundle.Suggestions[CategoryGeneral])
}

func TestSynthesize_GeneralFallback(t *testing.T) {
	silent := func(Analysis, Thresholds) []Item { return nil }

	bundle := Synthesize(baseAnalysis(), DefaultThresholds(), silent)
	assert.Equal(t, map[string][]string{
		CategoryGeneral: {
			"State your position clearly in the introduction and restate it in the conclusion",
			"Support each argument with a specific example or piece of evidence",
			"Acknowledge an opposing view and explain why your position is stronger",
		},
	}, bundle.Suggestions)
	assert.NotNil(t, bundle.Strengths)
	assert.NotNil(t, bundle.Improvements)

	a := baseAnalysis()
	a.TaskType = "unknown"
	bundle = Synthesize(a, DefaultThresholds(), silent)
	assert.Equal(t, []string{"Review the task requirements and ensure all aspects are addressed"}, bundle.Suggestions[CategoryGeneral])
}

func TestSynthesize_NoFallbackWhenSuggestionsExist(t *testing.T) {
	a := baseAnalysis()
	a.WordCount = types.WordCount{Count: 100, Required: 250}

	bundle := Synthesize(a, DefaultThresholds())

	assert.NotContains(t, bundle.Suggestions, CategoryGeneral)
	assert.Contains(t, bundle.Suggestions, CategoryWordCount)
}
