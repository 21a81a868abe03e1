package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollaboratorError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("topic adherence: %w", &CollaboratorError{Operation: "classify_elements", Cause: cause})

	var collabErr *CollaboratorError
	assert.True(t, errors.As(err, &collabErr))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "collaborator classify_elements failed: timeout")
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Key: "task_type", Message: `unknown task type "letter"`}
	assert.Equal(t, `configuration error: task_type: unknown task type "letter"`, err.Error())
}

func TestInputError_Message(t *testing.T) {
	err := &InputError{Field: "text", Message: "essay text is empty"}
	assert.Equal(t, "input error: text: essay text is empty", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
