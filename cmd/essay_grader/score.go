package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/essay-grader/internal/config"
	"github.com/jonathan/essay-grader/internal/grader"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/schemas"
	"github.com/jonathan/essay-grader/internal/types"
	schemafiles "github.com/jonathan/essay-grader/schemas"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one essay and print its band report",
	Long: `Score an essay read from a text file (or stdin with --in -), or from a JSON
score request (--request) that validates against the score_request schema.`,
	RunE: runScoreCmd,
}

var (
	scoreInputFile    string
	scoreRequestFile  string
	scoreTaskType     string
	scoreQuestion     string
	scoreRequirements string
	scoreQuestionNum  int
	scoreOutputFile   string
	scoreJSON         bool
	scoreVerbose      bool
	scoreSave         bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreInputFile, "in", "i", "", "Path to the essay text file, or - for stdin")
	scoreCmd.Flags().StringVar(&scoreRequestFile, "request", "", "Path to a JSON score request (alternative to --in)")
	scoreCmd.Flags().StringVarP(&scoreTaskType, "task-type", "t", string(types.TaskArgument), "Task type: argument, discussion or problem_solution")
	scoreCmd.Flags().StringVarP(&scoreQuestion, "question", "q", "", "Question description")
	scoreCmd.Flags().StringVar(&scoreRequirements, "requirements", "", "Question requirements")
	scoreCmd.Flags().IntVar(&scoreQuestionNum, "question-number", 0, "Question number")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Write the JSON report to this file")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the report as JSON instead of text boxes")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print task achievement details and per-component feedback")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Store the scored submission in the database")

	rootCmd.AddCommand(scoreCmd)
}

// scoreOptions are the resolved inputs of the score command
type scoreOptions struct {
	Essay      types.Essay
	OutputFile string
	JSON       bool
	Verbose    bool
	Save       bool
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	if scoreInputFile != "" && scoreRequestFile != "" {
		return fmt.Errorf("cannot use --in with --request")
	}
	if scoreInputFile == "" && scoreRequestFile == "" {
		return fmt.Errorf("must provide either --in or --request")
	}

	var essay types.Essay
	var err error
	if scoreRequestFile != "" {
		essay, err = readScoreRequest(scoreRequestFile)
	} else {
		essay, err = readEssayText(scoreInputFile, cmd.InOrStdin())
		essay.TaskType = types.TaskType(scoreTaskType)
		essay.QuestionNumber = scoreQuestionNum
		essay.QuestionDesc = scoreQuestion
		essay.QuestionRequirements = scoreRequirements
	}
	if err != nil {
		return err
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	return runScore(cmd.Context(), cmd.OutOrStdout(), cfg, scoreOptions{
		Essay:      essay,
		OutputFile: scoreOutputFile,
		JSON:       scoreJSON,
		Verbose:    scoreVerbose || cfg.Verbose,
		Save:       scoreSave,
	})
}

func runScore(ctx context.Context, out io.Writer, cfg *config.Config, opts scoreOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.NewLogger(cfg.Log)

	g, cleanup, err := newGrader(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	onProgress := grader.ProgressCallback(nil)
	if opts.Verbose && !opts.JSON {
		onProgress = func(event grader.ProgressEvent) {
			logger.Info("component scored", "component", event.Component, "band", event.Band, "degraded", event.Degraded, "elapsed", event.Elapsed)
		}
	}

	report, err := g.GradeWithProgress(ctx, opts.Essay, onProgress)
	if err != nil {
		return fmt.Errorf("failed to score essay: %w", err)
	}

	if opts.OutputFile != "" {
		if err := writeReport(opts.OutputFile, report); err != nil {
			return err
		}
	}

	if opts.Save {
		database, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.SaveSubmission(ctx, opts.Essay, report); err != nil {
			return fmt.Errorf("failed to save submission: %w", err)
		}
		logger.Info("submission saved", "id", report.ID)
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printer := observability.NewPrinter(out)
	printer.PrintReport(&report)
	if opts.Verbose {
		printer.PrintTaskAchievement(report.TaskAchievement)
		names := make([]string, 0, len(report.Components))
		for name := range report.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printer.PrintFeedback(name, report.Components[name].Feedback)
		}
	}
	if len(report.Degraded) > 0 {
		_, _ = fmt.Fprintf(out, "Warning: provisional scores for %s (collaborator unavailable)\n", strings.Join(report.Degraded, ", "))
	}
	return nil
}

// readEssayText reads essay text from a file, or from stdin when path is "-"
func readEssayText(path string, stdin io.Reader) (types.Essay, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.Essay{}, fmt.Errorf("failed to read essay: %w", err)
	}
	return types.Essay{Text: string(data)}, nil
}

// readScoreRequest loads a JSON score request and validates it against the
// score_request schema before decoding.
func readScoreRequest(path string) (types.Essay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Essay{}, fmt.Errorf("failed to read request file: %w", err)
	}
	if err := schemas.ValidateEmbedded(schemafiles.ScoreRequest, data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return types.Essay{}, fmt.Errorf("request does not validate against schema: %w", err)
		}
		return types.Essay{}, err
	}

	var essay types.Essay
	if err := json.Unmarshal(data, &essay); err != nil {
		return types.Essay{}, fmt.Errorf("failed to parse request: %w", err)
	}
	return essay, nil
}

// writeReport writes the report as indented JSON and checks it against the
// score_report schema.
func writeReport(path string, report types.ScoreReport) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := schemas.ValidateEmbedded(schemafiles.ScoreReport, jsonBytes); err != nil {
		return fmt.Errorf("generated report does not validate against schema: %w", err)
	}
	return nil
}
