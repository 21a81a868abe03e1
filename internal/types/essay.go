// Package types provides type definitions for structured data used throughout the essay-grader system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// TaskType identifies the rubric an essay is written against.
type TaskType string

// Supported task types
const (
	TaskArgument        TaskType = "argument"
	TaskDiscussion      TaskType = "discussion"
	TaskProblemSolution TaskType = "problem_solution"
)

// TaskTypes lists every supported task type in rubric order.
var TaskTypes = []TaskType{TaskArgument, TaskDiscussion, TaskProblemSolution}

// Normalize returns the lower-cased, trimmed form of the task type.
func (t TaskType) Normalize() TaskType {
	return TaskType(strings.ToLower(strings.TrimSpace(string(t))))
}

// essayValidator caches struct metadata across calls and is safe for concurrent use.
var essayValidator = validator.New()

// Essay is a single scoring request. It is built once and treated as read-only.
type Essay struct {
	Text                 string   `json:"text" validate:"required"`
	TaskType             TaskType `json:"task_type" validate:"required"`
	QuestionNumber       int      `json:"question_number,omitempty" validate:"gte=0"`
	QuestionDesc         string   `json:"question_desc,omitempty"`
	QuestionRequirements string   `json:"question_requirements,omitempty"`
}

// Validate checks required fields. A failure is reported as an *InputError.
func (e *Essay) Validate() error {
	if strings.TrimSpace(e.Text) == "" {
		return &InputError{Field: "text", Message: "essay text is empty"}
	}
	if err := essayValidator.Struct(e); err != nil {
		field := "essay"
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			field = strings.ToLower(verrs[0].Field())
		}
		return &InputError{Field: field, Message: "invalid essay", Cause: err}
	}
	return nil
}

// QuestionContext joins the question description and requirements with a single space.
// Returns "" when neither is present.
func (e *Essay) QuestionContext() string {
	parts := make([]string, 0, 2)
	if d := strings.TrimSpace(e.QuestionDesc); d != "" {
		parts = append(parts, d)
	}
	if r := strings.TrimSpace(e.QuestionRequirements); r != "" {
		parts = append(parts, r)
	}
	return strings.Join(parts, " ")
}

// TaskRequirement is the static rubric record for one task type.
type TaskRequirement struct {
	MinWords           int      `json:"min_words" yaml:"min_words"`
	Elements           []string `json:"elements" yaml:"elements"`
	ParagraphStructure []string `json:"paragraph_structure" yaml:"paragraph_structure"`
}
