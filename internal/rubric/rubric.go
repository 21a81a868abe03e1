// Package rubric holds the static per-task-type requirement table.
package rubric

import (
	"fmt"

	"github.com/jonathan/essay-grader/internal/types"
)

// DefaultMinWords is the minimum essay length for every task type.
const DefaultMinWords = 250

var requirements = map[types.TaskType]types.TaskRequirement{
	types.TaskArgument: {
		MinWords:           DefaultMinWords,
		Elements:           []string{"position", "arguments", "examples", "conclusion"},
		ParagraphStructure: []string{"introduction", "body", "conclusion"},
	},
	types.TaskDiscussion: {
		MinWords:           DefaultMinWords,
		Elements:           []string{"overview", "multiple_views", "opinion", "conclusion"},
		ParagraphStructure: []string{"introduction", "view1", "view2", "conclusion"},
	},
	types.TaskProblemSolution: {
		MinWords:           DefaultMinWords,
		Elements:           []string{"problem", "causes", "solutions", "evaluation"},
		ParagraphStructure: []string{"introduction", "problems", "solutions", "conclusion"},
	},
}

// Lookup returns a copy of the requirement record for a task type.
// An unknown task type is a *types.ConfigurationError.
func Lookup(taskType types.TaskType) (types.TaskRequirement, error) {
	req, ok := requirements[taskType.Normalize()]
	if !ok {
		return types.TaskRequirement{}, &types.ConfigurationError{
			Key:     "task_type",
			Message: fmt.Sprintf("unknown task type %q", taskType),
		}
	}
	return types.TaskRequirement{
		MinWords:           req.MinWords,
		Elements:           append([]string(nil), req.Elements...),
		ParagraphStructure: append([]string(nil), req.ParagraphStructure...),
	}, nil
}

// Known reports whether the task type has a requirement record.
func Known(taskType types.TaskType) bool {
	_, ok := requirements[taskType.Normalize()]
	return ok
}

// Advice returns the task-type specific guidance, most important first. Feedback
// falls back to it when no analyzer produced a suggestion.
func Advice(taskType types.TaskType) []string {
	switch taskType.Normalize() {
	case types.TaskArgument:
		return []string{
			"State your position clearly in the introduction and restate it in the conclusion",
			"Support each argument with a specific example or piece of evidence",
			"Acknowledge an opposing view and explain why your position is stronger",
		}
	case types.TaskDiscussion:
		return []string{
			"Discuss both views in separate paragraphs before giving your own opinion",
			"Give a balanced overview of each view with supporting reasons",
			"Make your own opinion explicit and explain which view you find more convincing",
		}
	case types.TaskProblemSolution:
		return []string{
			"Describe the main problems and their causes before proposing solutions",
			"Link each proposed solution to the problem it addresses",
			"Evaluate how practical and effective each solution would be",
		}
	default:
		return []string{"Review the task requirements and ensure all aspects are addressed"}
	}
}
