// Package markers detects category-tagged discourse markers in essay text.
package markers

import (
	"strings"

	"github.com/jonathan/essay-grader/internal/types"
)

const (
	// fullCoverageCount is the number of matched phrases that earns the maximum volume score.
	fullCoverageCount = 10
	// distributionBonus is added when every category has at least one match.
	distributionBonus = 0.2
)

// Category is a named list of marker phrases.
type Category struct {
	Name    string   `json:"name" yaml:"name"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// Set is an ordered, fixed list of categories.
type Set []Category

// Names returns the category names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Phrases returns the phrases of a category, or nil if the set has no such category.
func (s Set) Phrases(name string) []string {
	for _, c := range s {
		if c.Name == name {
			return c.Phrases
		}
	}
	return nil
}

// DiscourseMarkers are the task-achievement markers.
var DiscourseMarkers = Set{
	{Name: "position", Phrases: []string{"believe", "opinion", "agree", "disagree", "argue", "think"}},
	{Name: "evidence", Phrases: []string{"because", "since", "research", "studies", "example", "instance"}},
	{Name: "contrast", Phrases: []string{"however", "although", "despite", "nevertheless", "while"}},
	{Name: "conclusion", Phrases: []string{"therefore", "thus", "consequently", "in conclusion", "overall"}},
}

// LinkingPhrases are the coherence linking devices.
var LinkingPhrases = Set{
	{Name: "addition", Phrases: []string{"furthermore", "moreover", "additionally", "in addition", "also", "besides"}},
	{Name: "contrast", Phrases: []string{"however", "nevertheless", "on the other hand", "conversely", "although", "despite"}},
	{Name: "cause_effect", Phrases: []string{"consequently", "therefore", "as a result", "thus", "hence", "so"}},
	{Name: "example", Phrases: []string{"for instance", "for example", "specifically", "in particular", "such as", "namely"}},
	{Name: "sequence", Phrases: []string{"firstly", "secondly", "next", "then", "finally", "subsequently"}},
	{Name: "conclusion", Phrases: []string{"in conclusion", "to sum up", "overall", "ultimately", "in summary"}},
}

// Coverage tests every phrase of every category for case-insensitive containment in the
// whole text. Each phrase is recorded once if present. Every category of the set appears
// in the result, possibly with an empty list.
func Coverage(text string, set Set) types.MarkerCoverage {
	lower := strings.ToLower(text)
	coverage := make(types.MarkerCoverage, len(set))
	for _, category := range set {
		found := make([]string, 0)
		for _, phrase := range category.Phrases {
			if phrase == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(phrase)) {
				found = append(found, phrase)
			}
		}
		coverage[category.Name] = found
	}
	return coverage
}

// Score rewards both volume and variety: min(1, matched/10), plus a 0.2 bonus when every
// category has a match, capped at 1.
func Score(coverage types.MarkerCoverage) float64 {
	score := float64(coverage.Total()) / fullCoverageCount
	if score > 1.0 {
		score = 1.0
	}
	if allCategoriesHit(coverage) {
		score += distributionBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Missing returns the categories of the set with no matches, in set order.
func Missing(coverage types.MarkerCoverage, set Set) []string {
	var missing []string
	for _, category := range set {
		if len(coverage[category.Name]) == 0 {
			missing = append(missing, category.Name)
		}
	}
	return missing
}

// Diversity returns the fraction of categories with at least one match.
func Diversity(coverage types.MarkerCoverage) float64 {
	if len(coverage) == 0 {
		return 0
	}
	hit := 0
	for _, found := range coverage {
		if len(found) > 0 {
			hit++
		}
	}
	return float64(hit) / float64(len(coverage))
}

func allCategoriesHit(coverage types.MarkerCoverage) bool {
	if len(coverage) == 0 {
		return false
	}
	for _, found := range coverage {
		if len(found) == 0 {
			return false
		}
	}
	return true
}
