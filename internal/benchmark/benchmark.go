package benchmark

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/scoring"
	"github.com/jonathan/essay-grader/internal/types"
)

// DefaultConcurrency is the number of essays graded at once when Options.Concurrency is zero
const DefaultConcurrency = 4

// bandTolerance absorbs float error when comparing half-band values
const bandTolerance = 1e-9

// Grader scores one essay. *grader.Grader satisfies it.
type Grader interface {
	Grade(ctx context.Context, essay types.Essay) (types.ScoreReport, error)
}

// Options configures a benchmark run
type Options struct {
	// Dataset is a label recorded in the summary, usually the file path.
	Dataset string
	// TaskType every essay is graded as; empty selects types.TaskArgument.
	TaskType    types.TaskType
	Concurrency int
	// Limit caps the number of samples graded; zero grades all of them.
	Limit    int
	Logger   *observability.Logger
	OnResult func(result Result)
}

// Result is the outcome for one sample
type Result struct {
	Row        int                `json:"row"`
	Reference  float64            `json:"reference"`
	Predicted  float64            `json:"predicted,omitempty"`
	Components map[string]float64 `json:"components,omitempty"`
	Degraded   bool               `json:"degraded,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Scored reports whether the grader produced a band for the sample
func (r Result) Scored() bool {
	return r.Error == ""
}

// Report is a finished benchmark run
type Report struct {
	Summary types.BenchmarkSummary `json:"summary"`
	Results []Result               `json:"results"`
}

// Run grades every sample with bounded concurrency and summarizes the accuracy of
// the predicted bands. A sample the grader rejects is counted as failed and does not
// stop the run; cancelling ctx does.
func Run(ctx context.Context, g Grader, samples []Sample, opts Options) (*Report, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.TaskType == "" {
		opts.TaskType = types.TaskArgument
	}
	if opts.Logger == nil {
		opts.Logger = observability.NopLogger()
	}
	if opts.Limit > 0 && opts.Limit < len(samples) {
		samples = samples[:opts.Limit]
	}

	start := time.Now()
	results := make([]Result, len(samples))
	completed := 0
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)

	for i, sample := range samples {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			result := gradeSample(egCtx, g, sample, opts.TaskType)
			if err := egCtx.Err(); err != nil {
				return err
			}

			mu.Lock()
			results[i] = result
			completed++
			done := completed
			if opts.OnResult != nil {
				opts.OnResult(result)
			}
			mu.Unlock()

			if result.Scored() {
				opts.Logger.Debug("sample graded", "row", sample.Row, "reference", sample.Overall, "predicted", result.Predicted, "progress", done)
			} else {
				opts.Logger.Warn("sample failed", "row", sample.Row, "error", result.Error, "progress", done)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(samples, results)
	summary.RunID = uuid.New()
	summary.Dataset = opts.Dataset
	summary.Duration = time.Since(start)

	opts.Logger.Info("benchmark finished",
		"run_id", summary.RunID,
		"essays", summary.Essays,
		"failed", summary.Failed,
		"mae", summary.MAE,
		"elapsed", summary.Duration)

	return &Report{Summary: summary, Results: results}, nil
}

func gradeSample(ctx context.Context, g Grader, sample Sample, taskType types.TaskType) Result {
	result := Result{Row: sample.Row, Reference: sample.Overall}
	report, err := g.Grade(ctx, types.Essay{
		Text:         sample.Essay,
		TaskType:     taskType,
		QuestionDesc: sample.Question,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Predicted = report.Band
	result.Degraded = len(report.Degraded) > 0
	result.Components = make(map[string]float64, len(report.Components))
	for name, fb := range report.Components {
		result.Components[name] = fb.Score.Band
	}
	return result
}

// Summarize computes accuracy figures for results[i], the outcome of samples[i].
// MAE and RMSE compare the predicted band with the raw reference score; the accuracy
// figures compare it with the reference rounded to the nearest half band. All rates
// are fractions of the scored samples.
func Summarize(samples []Sample, results []Result) types.BenchmarkSummary {
	summary := types.BenchmarkSummary{Essays: len(results)}

	var absSum, sqSum float64
	var exact, withinHalf int
	componentSums := map[string]float64{}
	componentCounts := map[string]int{}

	for i, result := range results {
		if !result.Scored() {
			summary.Failed++
			continue
		}
		summary.Scored++
		if result.Degraded {
			summary.Degraded++
		}

		diff := result.Predicted - result.Reference
		absSum += math.Abs(diff)
		sqSum += diff * diff

		bandDiff := math.Abs(result.Predicted - scoring.RoundHalf(result.Reference))
		if bandDiff < bandTolerance {
			exact++
		}
		if bandDiff <= 0.5+bandTolerance {
			withinHalf++
		}

		if i >= len(samples) {
			continue
		}
		for name, reference := range samples[i].Components {
			if predicted, ok := result.Components[name]; ok {
				componentSums[name] += math.Abs(predicted - reference)
				componentCounts[name]++
			}
		}
	}

	if summary.Scored == 0 {
		return summary
	}
	n := float64(summary.Scored)
	summary.MAE = absSum / n
	summary.RMSE = math.Sqrt(sqSum / n)
	summary.ExactAccuracy = float64(exact) / n
	summary.WithinHalfAccuracy = float64(withinHalf) / n

	if len(componentCounts) > 0 {
		summary.ComponentMAE = make(map[string]float64, len(componentCounts))
		for name, count := range componentCounts {
			summary.ComponentMAE[name] = componentSums[name] / float64(count)
		}
	}
	return summary
}
