package feedback

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/essay-grader/internal/evidence"
	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/rubric"
)

// TopicRule judges overall topic adherence. Degraded topic signals produce nothing.
func TopicRule(a Analysis, th Thresholds) []Item {
	if a.Topic.Degraded {
		return nil
	}
	switch {
	case a.Topic.TopicAdherence > th.TopicStrength:
		return []Item{{Kind: Strength, Text: "Strong topic relevance and task achievement"}}
	case a.Topic.TopicAdherence < th.TopicImprovement:
		return []Item{{Kind: Improvement, Text: "Improve coverage of key task elements"}}
	}
	return nil
}

// WeakElementsRule names each rubric element whose probability is below WeakElement,
// in rubric order.
func WeakElementsRule(a Analysis, th Thresholds) []Item {
	if a.Topic.Degraded || len(a.Topic.ElementScores) == 0 {
		return nil
	}
	var items []Item
	for _, element := range elementOrder(a) {
		if score, ok := a.Topic.ElementScores[element]; ok && score < th.WeakElement {
			items = append(items, Item{
				Kind:     Suggestion,
				Category: CategoryTopic,
				Text:     fmt.Sprintf("Strengthen coverage of '%s'", humanize(element)),
			})
		}
	}
	return items
}

// AlignmentRule judges how much of the question the essay addresses. It is silent when
// there is no question, no key phrases, or a degraded signal.
func AlignmentRule(a Analysis, th Thresholds) []Item {
	if a.Alignment == nil || a.Alignment.Degraded || a.Alignment.TotalElements == 0 {
		return nil
	}
	switch {
	case a.Alignment.OverallScore > th.AlignmentStrength:
		return []Item{{Kind: Strength, Text: "Addresses the key points of the question"}}
	case a.Alignment.OverallScore < th.AlignmentImprovement:
		return []Item{{Kind: Improvement, Text: fmt.Sprintf(
			"Address more of the question: %d of %d key points are missing",
			len(a.Alignment.MissingElements), a.Alignment.TotalElements)}}
	}
	return nil
}

// MissingQuestionElementsRule suggests addressing each missing key phrase, quoting the
// part of the question it comes from when it can be located.
func MissingQuestionElementsRule(a Analysis, _ Thresholds) []Item {
	if a.Alignment == nil {
		return nil
	}
	items := make([]Item, 0, len(a.Alignment.MissingElements))
	for _, element := range a.Alignment.MissingElements {
		text := fmt.Sprintf("Address '%s' from the question", element)
		if quote, ok := evidence.Quote(a.QuestionContext, element); ok {
			text += fmt.Sprintf(", which asks: %s", quote)
		}
		items = append(items, Item{Kind: Suggestion, Category: CategoryQuestion, Text: text})
	}
	return items
}

// MarkerRule judges the discourse marker score.
func MarkerRule(a Analysis, th Thresholds) []Item {
	switch {
	case a.MarkerScore > th.MarkerStrength:
		return []Item{{Kind: Strength, Text: "Good use of cohesive devices and clear structure"}}
	case a.MarkerScore < th.MarkerImprovement:
		return []Item{{Kind: Improvement, Text: "Use more discourse markers to improve coherence"}}
	}
	return nil
}

// MissingMarkersRule suggests example phrases for every marker category with no match.
func MissingMarkersRule(a Analysis, th Thresholds) []Item {
	set := a.MarkerSet
	if set == nil {
		set = markers.DiscourseMarkers
	}
	var items []Item
	for _, category := range markers.Missing(a.Markers, set) {
		examples := set.Phrases(category)
		if n := th.MaxExamplePhrases; n > 0 && len(examples) > n {
			examples = examples[:n]
		}
		if len(examples) == 0 {
			continue
		}
		items = append(items, Item{
			Kind:     Suggestion,
			Category: CategoryMarkers,
			Text: fmt.Sprintf("Add %s markers such as %s",
				humanize(category), quoteList(examples)),
		})
	}
	return items
}

// StructureRule suggests structural improvements for weak marker use and for essays with
// fewer paragraphs than the task's expected structure.
func StructureRule(a Analysis, th Thresholds) []Item {
	var items []Item
	if a.MarkerScore < th.MarkerImprovement {
		for _, text := range []string{
			"Use more linking words to connect ideas",
			"Ensure each paragraph has a clear main idea",
			"Use appropriate discourse markers to show relationships between ideas",
		} {
			items = append(items, Item{Kind: Suggestion, Category: CategoryStructure, Text: text})
		}
	}

	req, err := rubric.Lookup(a.TaskType)
	if err == nil && len(a.Paragraphs) > 0 && len(a.Paragraphs) < len(req.ParagraphStructure) {
		parts := make([]string, len(req.ParagraphStructure))
		for i, p := range req.ParagraphStructure {
			parts[i] = humanize(p)
		}
		items = append(items, Item{
			Kind:     Suggestion,
			Category: CategoryStructure,
			Text: fmt.Sprintf("Organise the essay into %d paragraphs: %s",
				len(req.ParagraphStructure), strings.Join(parts, ", ")),
		})
	}
	return items
}

// WordCountRule reports whether the minimum length was met.
func WordCountRule(a Analysis, _ Thresholds) []Item {
	if a.WordCount.MeetsRequirement {
		return []Item{{Kind: Strength, Text: "Meets the required word count"}}
	}
	short := a.WordCount.Required - a.WordCount.Count
	if short <= 0 {
		return nil
	}
	return []Item{
		{Kind: Improvement, Text: fmt.Sprintf("Increase word count by %d words to meet the minimum requirement", short)},
		{Kind: Suggestion, Category: CategoryWordCount, Text: fmt.Sprintf("Add approximately %d more words to meet the minimum requirement", short)},
	}
}

// elementOrder lists scored elements in rubric order, then any others alphabetically.
func elementOrder(a Analysis) []string {
	var order []string
	listed := map[string]bool{}
	if req, err := rubric.Lookup(a.TaskType); err == nil {
		for _, e := range req.Elements {
			if _, ok := a.Topic.ElementScores[e]; ok {
				order = append(order, e)
				listed[e] = true
			}
		}
	}
	var rest []string
	for e := range a.Topic.ElementScores {
		if !listed[e] {
			rest = append(rest, e)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func humanize(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func quoteList(phrases []string) string {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = "'" + p + "'"
	}
	return strings.Join(quoted, ", ")
}
