package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/essay-grader/internal/benchmark"
	"github.com/jonathan/essay-grader/internal/config"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/schemas"
	"github.com/jonathan/essay-grader/internal/types"
	schemafiles "github.com/jonathan/essay-grader/schemas"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure predicted bands against a reference-graded essay dataset",
	Long: `Grade every essay of a CSV dataset (Essay, Question and Overall columns, plus
optional per-criterion columns) and report MAE, RMSE and band accuracy.`,
	RunE: runBenchmarkCmd,
}

var (
	benchmarkDataset     string
	benchmarkTaskType    string
	benchmarkConcurrency int
	benchmarkLimit       int
	benchmarkOutputFile  string
	benchmarkJSON        bool
	benchmarkSave        bool
)

func init() {
	benchmarkCmd.Flags().StringVarP(&benchmarkDataset, "dataset", "d", "", "Path to the dataset CSV (required)")
	benchmarkCmd.Flags().StringVarP(&benchmarkTaskType, "task-type", "t", string(types.TaskArgument), "Task type every essay is graded as")
	benchmarkCmd.Flags().IntVarP(&benchmarkConcurrency, "concurrency", "c", benchmark.DefaultConcurrency, "Essays graded at once")
	benchmarkCmd.Flags().IntVarP(&benchmarkLimit, "limit", "n", 0, "Grade only the first n essays")
	benchmarkCmd.Flags().StringVarP(&benchmarkOutputFile, "out", "o", "", "Write the full report (summary and per-essay results) as JSON")
	benchmarkCmd.Flags().BoolVar(&benchmarkJSON, "json", false, "Print the summary as JSON instead of a text box")
	benchmarkCmd.Flags().BoolVar(&benchmarkSave, "save", false, "Record the run summary in the database")

	_ = benchmarkCmd.MarkFlagRequired("dataset")
	rootCmd.AddCommand(benchmarkCmd)
}

// benchmarkOptions are the resolved inputs of the benchmark command
type benchmarkOptions struct {
	Dataset     string
	TaskType    types.TaskType
	Concurrency int
	Limit       int
	OutputFile  string
	JSON        bool
	Save        bool
}

func runBenchmarkCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	return runBenchmark(cmd.Context(), cmd.OutOrStdout(), cfg, benchmarkOptions{
		Dataset:     benchmarkDataset,
		TaskType:    types.TaskType(benchmarkTaskType),
		Concurrency: benchmarkConcurrency,
		Limit:       benchmarkLimit,
		OutputFile:  benchmarkOutputFile,
		JSON:        benchmarkJSON,
		Save:        benchmarkSave,
	})
}

func runBenchmark(ctx context.Context, out io.Writer, cfg *config.Config, opts benchmarkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.NewLogger(cfg.Log)

	samples, err := benchmark.LoadFile(opts.Dataset)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("dataset %s has no gradable rows", opts.Dataset)
	}
	logger.Info("dataset loaded", "path", opts.Dataset, "essays", len(samples))

	g, cleanup, err := newGrader(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := benchmark.Run(ctx, g, samples, benchmark.Options{
		Dataset:     opts.Dataset,
		TaskType:    opts.TaskType.Normalize(),
		Concurrency: opts.Concurrency,
		Limit:       opts.Limit,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	if err := schemas.ValidateValue(schemafiles.BenchmarkSummary, report.Summary); err != nil {
		return fmt.Errorf("benchmark summary does not validate against schema: %w", err)
	}

	if opts.OutputFile != "" {
		jsonBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(opts.OutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	if opts.Save {
		database, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.SaveBenchmarkRun(ctx, report.Summary); err != nil {
			return fmt.Errorf("failed to save benchmark run: %w", err)
		}
		logger.Info("benchmark run saved", "run_id", report.Summary.RunID)
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Summary)
	}
	observability.NewPrinter(out).PrintBenchmark(&report.Summary)
	return nil
}
