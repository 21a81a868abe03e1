// Package grader provides the high-level orchestration for scoring one essay.
package grader

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/essay-grader/internal/components"
	"github.com/jonathan/essay-grader/internal/feedback"
	"github.com/jonathan/essay-grader/internal/markers"
	"github.com/jonathan/essay-grader/internal/nlp"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/rubric"
	"github.com/jonathan/essay-grader/internal/scoring"
	"github.com/jonathan/essay-grader/internal/types"
)

// Outcome labels for the essays scored counter
const (
	StatusScored  = "scored"
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

// ProgressEvent represents a component finishing during grading
type ProgressEvent struct {
	Component string        `json:"component"`
	Band      float64       `json:"band"`
	Degraded  bool          `json:"degraded,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// ProgressCallback is called as each component completes. It may be called
// concurrently from several goroutines.
type ProgressCallback func(event ProgressEvent)

// Deps holds the collaborators and settings for a Grader
type Deps struct {
	Toolkit nlp.Toolkit
	// Weights for the overall band; nil selects scoring.DefaultWeights.
	Weights    map[string]float64
	Thresholds feedback.Thresholds
	// Markers scored by the marker coverage component; nil selects markers.DiscourseMarkers.
	Markers    markers.Set
	Logger     *observability.Logger
	Metrics    *observability.Metrics
	OnProgress ProgressCallback
}

// Grader scores essays. It holds no per-request state and is safe for concurrent use.
type Grader struct {
	analyzer   *components.Analyzer
	weights    map[string]float64
	markers    markers.Set
	logger     *observability.Logger
	metrics    *observability.Metrics
	onProgress ProgressCallback
	now        func() time.Time
}

// New validates the configuration and builds a Grader. Invalid weights or thresholds
// are reported as a *types.ConfigurationError.
func New(deps Deps) (*Grader, error) {
	if err := scoring.ValidateWeights(deps.Weights); err != nil {
		return nil, err
	}
	if deps.Thresholds != (feedback.Thresholds{}) {
		if err := deps.Thresholds.Validate(); err != nil {
			return nil, err
		}
	}
	if err := deps.Toolkit.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = observability.NopLogger()
	}
	if deps.Markers == nil {
		deps.Markers = markers.DiscourseMarkers
	}
	weights := scoring.DefaultWeights()
	if deps.Weights != nil {
		weights = make(map[string]float64, len(deps.Weights))
		for k, v := range deps.Weights {
			weights[k] = v
		}
	}

	return &Grader{
		analyzer: components.NewAnalyzer(components.Deps{
			Toolkit:    deps.Toolkit,
			Thresholds: deps.Thresholds,
			Logger:     deps.Logger,
			Metrics:    deps.Metrics,
		}),
		weights:    weights,
		markers:    deps.Markers,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		onProgress: deps.OnProgress,
		now:        time.Now,
	}, nil
}

// Weights returns a copy of the aggregation weights in use.
func (g *Grader) Weights() map[string]float64 {
	out := make(map[string]float64, len(g.weights))
	for k, v := range g.weights {
		out[k] = v
	}
	return out
}

// Grade runs the four rubric components concurrently, scores marker coverage and
// aggregates the weighted bands into a report.
//
// Invalid essays fail with a *types.InputError before any collaborator is called.
// Collaborator failures never fail the request; the affected components are listed
// in ScoreReport.Degraded.
func (g *Grader) Grade(ctx context.Context, essay types.Essay) (types.ScoreReport, error) {
	return g.GradeWithProgress(ctx, essay, g.onProgress)
}

// GradeWithProgress is Grade with a per-call progress callback in place of the one
// configured in Deps. A nil callback disables progress events.
func (g *Grader) GradeWithProgress(ctx context.Context, essay types.Essay, onProgress ProgressCallback) (types.ScoreReport, error) {
	taskType := essay.TaskType.Normalize()
	if err := essay.Validate(); err != nil {
		g.metrics.IncEssaysScored(string(taskType), StatusInvalid)
		return types.ScoreReport{}, err
	}
	if _, err := rubric.Lookup(taskType); err != nil {
		g.metrics.IncEssaysScored(string(taskType), StatusInvalid)
		return types.ScoreReport{}, err
	}
	essay.TaskType = taskType

	start := g.now()
	results := make(map[string]types.ComponentFeedback, 5)
	var task types.TaskAchievement
	var mu sync.Mutex

	record := func(name string, fb types.ComponentFeedback, began time.Time) {
		elapsed := time.Since(began)
		mu.Lock()
		results[name] = fb
		mu.Unlock()
		g.metrics.ObserveComponentDuration(name, elapsed)
		if onProgress != nil {
			onProgress(ProgressEvent{Component: name, Band: fb.Score.Band, Degraded: fb.Score.Degraded, Elapsed: elapsed})
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		began := time.Now()
		result, err := g.analyzer.ScoreTaskAchievement(egCtx, essay)
		if err != nil {
			return fmt.Errorf("task achievement failed: %w", err)
		}
		mu.Lock()
		task = result
		mu.Unlock()
		record(types.ComponentTaskAchievement, types.ComponentFeedback{Score: result.Component, Feedback: result.Feedback}, began)
		return nil
	})

	textComponents := []struct {
		name  string
		score func(context.Context, string) (types.ComponentFeedback, error)
	}{
		{types.ComponentGrammar, g.analyzer.ScoreGrammar},
		{types.ComponentLexical, g.analyzer.ScoreLexical},
		{types.ComponentCoherence, g.analyzer.ScoreCoherence},
	}
	for _, c := range textComponents {
		eg.Go(func() error {
			began := time.Now()
			result, err := c.score(egCtx, essay.Text)
			if err != nil {
				return fmt.Errorf("%s failed: %w", c.name, err)
			}
			record(c.name, result, began)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.metrics.IncEssaysScored(string(taskType), StatusFailed)
		g.logger.Warn("grading failed", "task_type", taskType, "error", err)
		return types.ScoreReport{}, err
	}
	// Collaborators failing because the request itself expired must not pass as
	// degraded signals.
	if err := ctx.Err(); err != nil {
		g.metrics.IncEssaysScored(string(taskType), StatusFailed)
		g.logger.Warn("grading aborted", "task_type", taskType, "error", err)
		return types.ScoreReport{}, fmt.Errorf("grading aborted: %w", err)
	}

	coverage := components.ScoreMarkerCoverage(essay.Text, g.markers)
	results[types.ComponentMarkerCoverage] = types.ComponentFeedback{Score: coverage, Feedback: types.NewFeedbackBundle()}

	scores := make(map[string]types.ComponentScore, len(results))
	for name, fb := range results {
		scores[name] = fb.Score
	}
	overall, err := scoring.Aggregate(scores, g.weights)
	if err != nil {
		g.metrics.IncEssaysScored(string(taskType), StatusFailed)
		return types.ScoreReport{}, err
	}

	report := types.ScoreReport{
		ID:              uuid.New(),
		TaskType:        taskType,
		QuestionNumber:  essay.QuestionNumber,
		Band:            overall.Band,
		Percentage:      overall.Percentage,
		Components:      results,
		TaskAchievement: &task,
		Degraded:        Degraded(scores),
		CreatedAt:       g.now().UTC(),
	}

	for name, score := range scores {
		g.metrics.ObserveBand(name, score.Band)
	}
	for _, name := range report.Degraded {
		g.metrics.IncDegraded(name)
	}
	g.metrics.ObserveBand("overall", report.Band)
	g.metrics.IncEssaysScored(string(taskType), StatusScored)
	g.logger.Info("essay graded",
		"id", report.ID,
		"task_type", taskType,
		"band", report.Band,
		"degraded", report.Degraded,
		"elapsed", g.now().Sub(start))

	return report, nil
}

// Degraded returns the sorted names of components computed from a neutral fallback.
func Degraded(scores map[string]types.ComponentScore) []string {
	var names []string
	for name, score := range scores {
		if score.Degraded {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
