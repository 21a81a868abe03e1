package components

import (
	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/types"
)

// ScoreMarkerCoverage scores discourse marker use against a marker set.
// A nil set selects markers.DiscourseMarkers.
func ScoreMarkerCoverage(text string, set markers.Set) types.ComponentScore {
	if set == nil {
		set = markers.DiscourseMarkers
	}
	coverage := markers.Coverage(text, set)
	raw := markers.Score(coverage)
	return types.ComponentScore{
		Name: types.ComponentMarkerCoverage,
		Band: bandOf(raw),
		Raw:  raw,
		Detail: map[string]any{
			"coverage":  coverage,
			"missing":   markers.Missing(coverage, set),
			"diversity": markers.Diversity(coverage),
		},
	}
}
