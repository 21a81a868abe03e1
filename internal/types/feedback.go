package types

// FeedbackBundle holds human-readable feedback for one analysis.
type FeedbackBundle struct {
	Strengths    []string            `json:"strengths"`
	Improvements []string            `json:"improvements"`
	Suggestions  map[string][]string `json:"suggestions"`
}

// NewFeedbackBundle returns an empty bundle with non-nil collections.
func NewFeedbackBundle() FeedbackBundle {
	return FeedbackBundle{
		Strengths:    []string{},
		Improvements: []string{},
		Suggestions:  map[string][]string{},
	}
}

// SuggestionCount returns the number of suggestion lines across all categories.
func (b FeedbackBundle) SuggestionCount() int {
	n := 0
	for _, lines := range b.Suggestions {
		n += len(lines)
	}
	return n
}
