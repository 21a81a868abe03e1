package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/essay-grader/internal/db"
	"github.com/jonathan/essay-grader/internal/grader"
	"github.com/jonathan/essay-grader/internal/scoring"
	"github.com/jonathan/essay-grader/internal/types"
)

// maxRequestBytes bounds the size of a scoring request body
const maxRequestBytes = 1 << 20

// ScoreRequest represents the request body for POST /api/submissions
type ScoreRequest struct {
	Text                 string `json:"text" validate:"required"`
	TaskType             string `json:"task_type" validate:"required"`
	QuestionNumber       int    `json:"question_number,omitempty" validate:"gte=0"`
	QuestionDesc         string `json:"question_desc,omitempty"`
	QuestionRequirements string `json:"question_requirements,omitempty"`
	// Store defaults to true when a store is configured.
	Store *bool `json:"store,omitempty"`
}

// Essay converts the request into the essay to be graded
func (r ScoreRequest) Essay() types.Essay {
	return types.Essay{
		Text:                 r.Text,
		TaskType:             types.TaskType(r.TaskType),
		QuestionNumber:       r.QuestionNumber,
		QuestionDesc:         r.QuestionDesc,
		QuestionRequirements: r.QuestionRequirements,
	}
}

func (r ScoreRequest) wantsStore() bool {
	return r.Store == nil || *r.Store
}

// ScoreResponse represents the response for a scored submission
type ScoreResponse struct {
	Report types.ScoreReport `json:"report"`
	Stored bool              `json:"stored"`
}

// handleScore grades an essay and stores the submission
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeScoreRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp, err := s.score(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Scoring failed: "+err.Error())
		return
	}

	status := http.StatusOK
	if resp.Stored {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/submissions/"+resp.Report.ID.String())
	}
	s.jsonResponse(w, status, resp)
}

// handleScoreStream grades an essay and reports each component as it completes
// over Server-Sent Events
func (s *Server) handleScoreStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeScoreRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.score(r.Context(), req, func(event grader.ProgressEvent) {
		if err := sse.WriteEvent("component", event); err != nil {
			s.logger.Warn("failed to write SSE event", "error", err)
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	if err := sse.WriteEvent("report", resp); err != nil {
		s.logger.Warn("failed to write SSE event", "error", err)
		return
	}
	sse.WriteComplete(resp.Report.ID.String(), grader.StatusScored)
}

// decodeScoreRequest reads and validates a scoring request
func (s *Server) decodeScoreRequest(w http.ResponseWriter, r *http.Request) (ScoreRequest, error) {
	var req ScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return req, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	if err := s.validator.Struct(req); err != nil {
		return req, extractValidationError(err)
	}
	return req, nil
}

// score grades the request within the request timeout and persists the result.
// A storage failure is logged and reported as Stored=false; the report is still returned.
func (s *Server) score(ctx context.Context, req ScoreRequest, onProgress grader.ProgressCallback) (ScoreResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	essay := req.Essay()
	report, err := s.scorer.GradeWithProgress(ctx, essay, onProgress)
	if err != nil {
		return ScoreResponse{}, err
	}

	resp := ScoreResponse{Report: report}
	if s.store == nil || !req.wantsStore() {
		return resp, nil
	}
	if err := s.store.SaveSubmission(ctx, essay, report); err != nil {
		s.logger.Error("failed to store submission", "id", report.ID, "error", err)
		return resp, nil
	}
	resp.Stored = true
	return resp, nil
}

// handleGetSubmission returns a stored submission with its full report
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	sub, err := s.store.GetSubmission(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if sub == nil {
		err := &ErrSubmissionNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sub)
}

// handleListSubmissions lists recent submissions
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	query := r.URL.Query()
	filters := db.SubmissionFilters{
		TaskType: types.TaskType(query.Get("task_type")).Normalize(),
	}
	if minBand := query.Get("min_band"); minBand != "" {
		band, err := strconv.ParseFloat(minBand, 64)
		if err != nil || band < scoring.MinBand || band > scoring.MaxBand {
			s.errorResponse(w, http.StatusBadRequest, "min_band must be a band between 1 and 9")
			return
		}
		filters.MinBand = band
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filters.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filters.Offset = offset
		}
	}

	subs, err := s.store.ListSubmissions(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if subs == nil {
		subs = []db.SubmissionSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"count":       len(subs),
	})
}

// handleDeleteSubmission deletes a stored submission
func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteSubmission(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, (&ErrSubmissionNotFound{ID: id}).Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Submission storage is not configured")
		return false
	}
	return true
}

func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Submission ID is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid submission ID format")
		return uuid.Nil, false
	}
	return id, true
}

// extractValidationError converts the first validator failure into an *ErrValidation
func extractValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: fmt.Sprintf("failed on '%s'", ve.Tag())}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
