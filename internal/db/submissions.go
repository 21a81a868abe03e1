package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/essay-grader/internal/types"
)

// SaveSubmission stores an essay and its report under the report ID
func (db *DB) SaveSubmission(ctx context.Context, essay types.Essay, report types.ScoreReport) error {
	if report.ID == uuid.Nil {
		return fmt.Errorf("report has no id")
	}
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	degraded := report.Degraded
	if degraded == nil {
		degraded = []string{}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO submissions (id, task_type, question_number, essay_text, band, percentage, degraded, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.ID, string(report.TaskType), essay.QuestionNumber, essay.Text,
		report.Band, report.Percentage, degraded, jsonBytes, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save submission %s: %w", report.ID, err)
	}
	return nil
}

// GetSubmission retrieves a submission by ID. Returns nil, nil when it does not exist.
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var sub Submission
	var taskType string
	var reportBytes []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, task_type, question_number, essay_text, band::float8, percentage, degraded, report, created_at
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&sub.ID, &taskType, &sub.QuestionNumber, &sub.EssayText, &sub.Band, &sub.Percentage,
		&sub.Degraded, &reportBytes, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	sub.TaskType = types.TaskType(taskType)

	report, err := decodeReport(reportBytes)
	if err != nil {
		return nil, err
	}
	sub.Report = report
	return &sub, nil
}

// ListSubmissions retrieves recent submissions with optional filters
func (db *DB) ListSubmissions(ctx context.Context, filters SubmissionFilters) ([]SubmissionSummary, error) {
	query, args := buildListQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []SubmissionSummary
	for rows.Next() {
		var s SubmissionSummary
		var taskType string
		if err := rows.Scan(&s.ID, &taskType, &s.QuestionNumber, &s.Band, &s.Percentage, &s.Degraded, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		s.TaskType = types.TaskType(taskType)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// DeleteSubmission deletes a submission. Returns an error wrapping ErrNotFound when it does not exist.
func (db *DB) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveBenchmarkRun stores the summary of a benchmark run
func (db *DB) SaveBenchmarkRun(ctx context.Context, summary types.BenchmarkSummary) error {
	jsonBytes, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal benchmark summary: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO benchmark_runs (id, dataset, essays, scored, failed, mae, rmse, exact_accuracy, within_half_accuracy, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		summary.RunID, summary.Dataset, summary.Essays, summary.Scored, summary.Failed,
		summary.MAE, summary.RMSE, summary.ExactAccuracy, summary.WithinHalfAccuracy, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save benchmark run %s: %w", summary.RunID, err)
	}
	return nil
}

// buildListQuery assembles the filtered list query and its positional arguments
func buildListQuery(filters SubmissionFilters) (string, []any) {
	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `SELECT id, task_type, question_number, band::float8, percentage, cardinality(degraded) > 0, created_at
		FROM submissions WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.TaskType != "" {
		query += fmt.Sprintf(" AND task_type = $%d", argNum)
		args = append(args, string(filters.TaskType.Normalize()))
		argNum++
	}
	if filters.MinBand > 0 {
		query += fmt.Sprintf(" AND band >= $%d", argNum)
		args = append(args, filters.MinBand)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, limit)
	argNum++

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}
	return query, args
}

func decodeReport(data []byte) (*types.ScoreReport, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var report types.ScoreReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}
	return &report, nil
}
