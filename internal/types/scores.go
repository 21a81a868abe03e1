package types

// Component names used by the overall aggregator
const (
	ComponentGrammar         = "grammar"
	ComponentLexical         = "lexical"
	ComponentCoherence       = "coherence"
	ComponentTaskAchievement = "task_achievement"
	ComponentMarkerCoverage  = "marker_coverage"
)

// ComponentScore is the output of one analyzer. Created fresh per request.
type ComponentScore struct {
	Name     string         `json:"name"`
	Band     float64        `json:"band"`
	Raw      float64        `json:"raw"`
	Degraded bool           `json:"degraded,omitempty"`
	Detail   map[string]any `json:"detail,omitempty"`
}

// ElementScoreMap maps a rubric element to its adherence score in [0, 1].
type ElementScoreMap map[string]float64

// TopicRelevance is the result of topic adherence scoring.
type TopicRelevance struct {
	TopicAdherence float64         `json:"topic_adherence"`
	ElementScores  ElementScoreMap `json:"element_scores"`
	// QuestionSimilarity is nil when no question context was supplied.
	QuestionSimilarity *float64 `json:"question_similarity,omitempty"`
	IsOnTopic          bool     `json:"is_on_topic"`
	Degraded           bool     `json:"degraded,omitempty"`
}

// AlignmentResult describes how well an essay addresses the key phrases of its question.
type AlignmentResult struct {
	OverallScore      float64  `json:"overall_score"`
	AddressedElements []string `json:"addressed_elements"`
	MissingElements   []string `json:"missing_elements"`
	TotalElements     int      `json:"total_elements"`
	AddressedCount    int      `json:"addressed_count"`
	Degraded          bool     `json:"degraded,omitempty"`
}

// MarkerCoverage maps a marker category to the phrases of that category found in the text.
type MarkerCoverage map[string][]string

// Total returns the number of matched phrases across all categories.
func (c MarkerCoverage) Total() int {
	total := 0
	for _, found := range c {
		total += len(found)
	}
	return total
}

// WordCount is the outcome of the minimum length check.
type WordCount struct {
	Count            int  `json:"word_count"`
	Required         int  `json:"required"`
	MeetsRequirement bool `json:"meets_requirement"`
	Difference       int  `json:"difference"`
}

// Paragraph is one blank-line separated block of the essay.
type Paragraph struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}
