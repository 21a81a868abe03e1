package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/essay-grader/internal/db"
	"github.com/jonathan/essay-grader/internal/types"
)

// ErrSubmissionNotFound indicates no submission exists with the given ID
type ErrSubmissionNotFound struct {
	ID uuid.UUID
}

func (e *ErrSubmissionNotFound) Error() string {
	return fmt.Sprintf("submission not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors are unwrapped with errors.As.
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		inputErr      *types.InputError
		configErr     *types.ConfigurationError
		notFoundErr   *ErrSubmissionNotFound
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validationErr), errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &configErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
