package types

import (
	"time"

	"github.com/google/uuid"
)

// TaskAchievement is the detailed result of the task achievement component.
type TaskAchievement struct {
	Component  ComponentScore   `json:"component"`
	Topic      TopicRelevance   `json:"topic_relevance"`
	Alignment  *AlignmentResult `json:"question_alignment,omitempty"`
	WordCount  WordCount        `json:"word_count"`
	Markers    MarkerCoverage   `json:"discourse_markers"`
	Paragraphs []Paragraph      `json:"paragraphs"`
	Feedback   FeedbackBundle   `json:"feedback"`
}

// ComponentFeedback pairs a component band with its feedback.
type ComponentFeedback struct {
	Score    ComponentScore `json:"score"`
	Feedback FeedbackBundle `json:"feedback"`
}

// ScoreReport is the full result of grading one essay.
type ScoreReport struct {
	ID              uuid.UUID                    `json:"id"`
	TaskType        TaskType                     `json:"task_type"`
	QuestionNumber  int                          `json:"question_number,omitempty"`
	Band            float64                      `json:"band"`
	Percentage      float64                      `json:"percentage"`
	Components      map[string]ComponentFeedback `json:"components"`
	TaskAchievement *TaskAchievement             `json:"task_achievement,omitempty"`
	Degraded        []string                     `json:"degraded,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
}
