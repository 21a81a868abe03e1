package db

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/essay-grader/internal/types"
)

// ErrNotFound is returned by operations that require an existing row
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps list queries when no limit is given
const DefaultListLimit = 50

// MaxListLimit is the largest page a list query returns
const MaxListLimit = 500

// Submission is a stored essay with its full score report
type Submission struct {
	ID             uuid.UUID          `json:"id"`
	TaskType       types.TaskType     `json:"task_type"`
	QuestionNumber int                `json:"question_number,omitempty"`
	EssayText      string             `json:"essay_text"`
	Band           float64            `json:"band"`
	Percentage     float64            `json:"percentage"`
	Degraded       []string           `json:"degraded,omitempty"`
	Report         *types.ScoreReport `json:"report"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SubmissionSummary is a lightweight view of a submission for listing
type SubmissionSummary struct {
	ID             uuid.UUID      `json:"id"`
	TaskType       types.TaskType `json:"task_type"`
	QuestionNumber int            `json:"question_number,omitempty"`
	Band           float64        `json:"band"`
	Percentage     float64        `json:"percentage"`
	Degraded       bool           `json:"degraded"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SubmissionFilters holds optional filters for listing submissions
type SubmissionFilters struct {
	TaskType types.TaskType
	MinBand  float64
	Limit    int
	Offset   int
}
