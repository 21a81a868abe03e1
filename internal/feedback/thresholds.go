// Package feedback derives strengths, improvements and suggestions from analysis results
// with a fixed sequence of deterministic rules.
package feedback

import (
	"fmt"

	"github.com/jonathan/essay-grader/internal/types"
)

// Thresholds are the cut-offs the feedback rules compare signals against.
// Strength thresholds are exclusive lower bounds; improvement thresholds are exclusive
// upper bounds. A signal between the two yields neither.
type Thresholds struct {
	// TopicStrength and TopicImprovement apply to topic adherence.
	TopicStrength    float64 `json:"topic_strength" yaml:"topic_strength"`
	TopicImprovement float64 `json:"topic_improvement" yaml:"topic_improvement"`
	// WeakElement is the element probability below which a rubric element is named.
	WeakElement float64 `json:"weak_element" yaml:"weak_element"`
	// AlignmentStrength and AlignmentImprovement apply to question alignment.
	AlignmentStrength    float64 `json:"alignment_strength" yaml:"alignment_strength"`
	AlignmentImprovement float64 `json:"alignment_improvement" yaml:"alignment_improvement"`
	// MarkerStrength and MarkerImprovement apply to the discourse marker score.
	MarkerStrength    float64 `json:"marker_strength" yaml:"marker_strength"`
	MarkerImprovement float64 `json:"marker_improvement" yaml:"marker_improvement"`
	// MaxExamplePhrases caps the example markers named for a missing category.
	MaxExamplePhrases int `json:"max_example_phrases" yaml:"max_example_phrases"`
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TopicStrength:        0.7,
		TopicImprovement:     0.6,
		WeakElement:          0.6,
		AlignmentStrength:    0.7,
		AlignmentImprovement: 0.6,
		MarkerStrength:       0.7,
		MarkerImprovement:    0.6,
		MaxExamplePhrases:    3,
	}
}

// Validate checks every threshold is in [0, 1], that improvement cut-offs do not exceed
// strength cut-offs, and that at least one example phrase is allowed.
func (t Thresholds) Validate() error {
	unit := map[string]float64{
		"topic_strength":        t.TopicStrength,
		"topic_improvement":     t.TopicImprovement,
		"weak_element":          t.WeakElement,
		"alignment_strength":    t.AlignmentStrength,
		"alignment_improvement": t.AlignmentImprovement,
		"marker_strength":       t.MarkerStrength,
		"marker_improvement":    t.MarkerImprovement,
	}
	for key, v := range unit {
		if v < 0 || v > 1 {
			return &types.ConfigurationError{Key: "thresholds." + key, Message: fmt.Sprintf("must be in [0, 1], got %v", v)}
		}
	}
	pairs := []struct {
		key                   string
		improvement, strength float64
	}{
		{"topic", t.TopicImprovement, t.TopicStrength},
		{"alignment", t.AlignmentImprovement, t.AlignmentStrength},
		{"marker", t.MarkerImprovement, t.MarkerStrength},
	}
	for _, p := range pairs {
		if p.improvement > p.strength {
			return &types.ConfigurationError{
				Key:     "thresholds." + p.key,
				Message: fmt.Sprintf("improvement threshold %v exceeds strength threshold %v", p.improvement, p.strength),
			}
		}
	}
	if t.MaxExamplePhrases < 1 {
		return &types.ConfigurationError{Key: "thresholds.max_example_phrases", Message: "must be at least 1"}
	}
	return nil
}
