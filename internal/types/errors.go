package types

import "fmt"

// InputError reports a missing or empty essay field. Not recoverable locally.
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("input error: %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports a task type or weight set the static tables do not support.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// CollaboratorError wraps a failure of an external model or embedding call.
// Analyzers recover from it by substituting a neutral signal.
type CollaboratorError struct {
	Operation string
	Cause     error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator %s failed: %v", e.Operation, e.Cause)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}
