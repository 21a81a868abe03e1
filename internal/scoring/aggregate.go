package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/essay-grader/internal/types"
)

// Result is the overall band and its display percentage.
type Result struct {
	Band       float64 `json:"band"`
	Percentage float64 `json:"percentage"`
}

// DefaultWeights weights the four rubric components equally.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		types.ComponentGrammar:         0.25,
		types.ComponentLexical:         0.25,
		types.ComponentCoherence:       0.25,
		types.ComponentTaskAchievement: 0.25,
	}
}

// ValidateWeights rejects negative, NaN or all-zero weight sets.
func ValidateWeights(weights map[string]float64) error {
	total := 0.0
	for name, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return &types.ConfigurationError{
				Key:     "weights." + name,
				Message: fmt.Sprintf("weight must be a finite non-negative number, got %v", w),
			}
		}
		total += w
	}
	if len(weights) > 0 && total == 0 {
		return &types.ConfigurationError{Key: "weights", Message: "at least one weight must be positive"}
	}
	return nil
}

// Aggregate combines component bands into the overall band. A nil weights map selects
// DefaultWeights. Components without a weight are ignored, and weighted components that
// are absent are dropped with the remaining weights renormalized. The band is rounded to
// the nearest 0.5 and clamped to [1, 9].
func Aggregate(components map[string]types.ComponentScore, weights map[string]float64) (Result, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := ValidateWeights(weights); err != nil {
		return Result{}, err
	}

	// Sorted names keep the floating point sum independent of map order.
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	var weighted, used float64
	for _, name := range names {
		score, ok := components[name]
		if !ok || weights[name] == 0 {
			continue
		}
		weighted += score.Band * weights[name]
		used += weights[name]
	}
	if used == 0 {
		return Result{}, &types.InputError{
			Field:   "components",
			Message: "no weighted component scores to aggregate",
		}
	}

	band := Normalize(weighted / used)
	return Result{Band: band, Percentage: Percentage(band)}, nil
}
