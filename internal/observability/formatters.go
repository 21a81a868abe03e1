// Package observability provides structured logging, Prometheus metrics and formatted
// output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/essay-grader/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs the overall band and every component band.
func (p *Printer) PrintReport(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", report.ID))
	sb.WriteString(fmt.Sprintf("Task:     %s\n", report.TaskType))
	if report.QuestionNumber > 0 {
		sb.WriteString(fmt.Sprintf("Question: %d\n", report.QuestionNumber))
	}
	sb.WriteString(fmt.Sprintf("Band:     %.1f (%.1f%%)\n", report.Band, report.Percentage))
	sb.WriteString("\n")

	names := make([]string, 0, len(report.Components))
	for name := range report.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("Components:\n")
	for _, name := range names {
		score := report.Components[name].Score
		sb.WriteString(fmt.Sprintf("  • %-18s %.1f", name, score.Band))
		if score.Degraded {
			sb.WriteString("  (provisional)")
		}
		sb.WriteString("\n")
	}

	p.printBox("SCORE REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTaskAchievement outputs topic adherence, alignment, length and marker details.
func (p *Printer) PrintTaskAchievement(task *types.TaskAchievement) {
	if task == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic adherence: %.2f", task.Topic.TopicAdherence))
	if task.Topic.Degraded {
		sb.WriteString(" (neutral)")
	}
	sb.WriteString("\n")

	elements := make([]string, 0, len(task.Topic.ElementScores))
	for element := range task.Topic.ElementScores {
		elements = append(elements, element)
	}
	sort.Strings(elements)
	for _, element := range elements {
		sb.WriteString(fmt.Sprintf("  • %-16s %.2f\n", element, task.Topic.ElementScores[element]))
	}

	if task.Alignment != nil {
		sb.WriteString(fmt.Sprintf("\nQuestion alignment: %.2f (%d/%d key phrases)\n",
			task.Alignment.OverallScore, task.Alignment.AddressedCount, task.Alignment.TotalElements))
		count := min(len(task.Alignment.MissingElements), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ✗ %s\n", task.Alignment.MissingElements[i]))
		}
		if len(task.Alignment.MissingElements) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(task.Alignment.MissingElements)-maxItemsToShow))
		}
	}

	sb.WriteString(fmt.Sprintf("\nWords: %d of %d", task.WordCount.Count, task.WordCount.Required))
	if !task.WordCount.MeetsRequirement {
		sb.WriteString(fmt.Sprintf(" (%d short)", -task.WordCount.Difference))
	}
	sb.WriteString(fmt.Sprintf("\nParagraphs: %d\n", len(task.Paragraphs)))
	sb.WriteString(fmt.Sprintf("Discourse markers: %d\n", task.Markers.Total()))

	p.printBox("TASK ACHIEVEMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs the strengths, improvements and suggestions of one component.
func (p *Printer) PrintFeedback(component string, fb types.FeedbackBundle) {
	if len(fb.Strengths) == 0 && len(fb.Improvements) == 0 && fb.SuggestionCount() == 0 {
		return
	}

	var sb strings.Builder
	writeList := func(heading, bullet string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(heading + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %s %s\n", bullet, items[i]))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}

	writeList("Strengths", "✓", fb.Strengths)
	writeList("Improvements", "•", fb.Improvements)

	categories := make([]string, 0, len(fb.Suggestions))
	for category := range fb.Suggestions {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		writeList("Suggestions ("+category+")", "→", fb.Suggestions[category])
	}

	title := strings.ToUpper(strings.ReplaceAll(component, "_", " ")) + " FEEDBACK"
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBenchmark outputs accuracy figures for a benchmark run.
func (p *Printer) PrintBenchmark(summary *types.BenchmarkSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", summary.RunID))
	if summary.Dataset != "" {
		sb.WriteString(fmt.Sprintf("Dataset:   %s\n", summary.Dataset))
	}
	sb.WriteString(fmt.Sprintf("Essays:    %d scored, %d failed, %d degraded\n", summary.Scored, summary.Failed, summary.Degraded))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", summary.Duration.Round(time.Millisecond)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("MAE:        %.3f\n", summary.MAE))
	sb.WriteString(fmt.Sprintf("RMSE:       %.3f\n", summary.RMSE))
	sb.WriteString(fmt.Sprintf("Exact:      %.1f%%\n", summary.ExactAccuracy*100))
	sb.WriteString(fmt.Sprintf("Within 0.5: %.1f%%", summary.WithinHalfAccuracy*100))

	if len(summary.ComponentMAE) > 0 {
		sb.WriteString("\n\nComponent MAE:")
		for _, name := range sortedKeys(summary.ComponentMAE) {
			sb.WriteString(fmt.Sprintf("\n  %-18s %.3f", name, summary.ComponentMAE[name]))
		}
	}

	p.printBox("BENCHMARK RESULTS", sb.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
