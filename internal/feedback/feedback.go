package feedback

import (
	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/rubric"
	"github.com/jonathan/essay-grader/internal/types"
)

// Analysis is the raw task achievement analysis the rules read.
type Analysis struct {
	TaskType        types.TaskType
	QuestionContext string
	Topic           types.TopicRelevance
	// Alignment is nil when the essay has no question context.
	Alignment   *types.AlignmentResult
	WordCount   types.WordCount
	Markers     types.MarkerCoverage
	MarkerScore float64
	// MarkerSet defines category order and example phrases. Nil selects markers.DiscourseMarkers.
	MarkerSet  markers.Set
	Paragraphs []types.Paragraph
}

// Kind says which list of the bundle an item belongs to.
type Kind int

const (
	Strength Kind = iota
	Improvement
	Suggestion
)

// Item is one feedback line produced by a rule.
type Item struct {
	Kind Kind
	// Category groups suggestions; it is ignored for strengths and improvements.
	Category string
	Text     string
}

// Rule inspects an analysis and returns zero or more items. Rules are pure.
type Rule func(Analysis, Thresholds) []Item

// Suggestion categories.
const (
	CategoryTopic     = "topic_relevance"
	CategoryQuestion  = "question_alignment"
	CategoryMarkers   = "discourse_markers"
	CategoryStructure = "structure"
	CategoryWordCount = "word_count"
	CategoryGeneral   = "general"
)

// DefaultRules returns the rules in evaluation order: topic, alignment, markers, then
// structure.
func DefaultRules() []Rule {
	return []Rule{
		TopicRule,
		WeakElementsRule,
		AlignmentRule,
		MissingQuestionElementsRule,
		MarkerRule,
		MissingMarkersRule,
		StructureRule,
		WordCountRule,
	}
}

// Synthesize folds the items of every rule into a bundle. With no rules it applies
// DefaultRules. Each list keeps first-seen order and drops duplicates. When no rule
// produced a suggestion, the task type's general advice is added.
func Synthesize(a Analysis, th Thresholds, rules ...Rule) types.FeedbackBundle {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	bundle := types.NewFeedbackBundle()
	seen := map[string]map[string]bool{}
	add := func(list, text string) bool {
		if seen[list] == nil {
			seen[list] = map[string]bool{}
		}
		if text == "" || seen[list][text] {
			return false
		}
		seen[list][text] = true
		return true
	}

	for _, rule := range rules {
		for _, item := range rule(a, th) {
			switch item.Kind {
			case Strength:
				if add("strengths", item.Text) {
					bundle.Strengths = append(bundle.Strengths, item.Text)
				}
			case Improvement:
				if add("improvements", item.Text) {
					bundle.Improvements = append(bundle.Improvements, item.Text)
				}
			case Suggestion:
				category := item.Category
				if category == "" {
					category = CategoryGeneral
				}
				if add("suggestions/"+category, item.Text) {
					bundle.Suggestions[category] = append(bundle.Suggestions[category], item.Text)
				}
			}
		}
	}

	if bundle.SuggestionCount() == 0 {
		bundle.Suggestions[CategoryGeneral] = rubric.Advice(a.TaskType)
	}
	return bundle
}
