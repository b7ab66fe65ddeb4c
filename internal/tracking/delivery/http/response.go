package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-shortview/internal/tracking/domain"
	"go-shortview/pkg/problemdetails"

	"go.uber.org/zap"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeProblem writes an RFC 7807 Problem Details response
func writeProblem(w http.ResponseWriter, problem *problemdetails.ProblemDetail) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	json.NewEncoder(w).Encode(problem)
}

// problemFor maps a service error to its problem response.
func problemFor(err error) *problemdetails.ProblemDetail {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return problemdetails.NewValidation(problemdetails.FieldErrors(verr.Fields))
	case errors.Is(err, domain.ErrNotFound):
		return problemdetails.New(http.StatusNotFound, problemdetails.TypeNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		return problemdetails.New(http.StatusForbidden, problemdetails.TypeForbidden, "Forbidden", "you do not own this resource")
	case errors.Is(err, domain.ErrRejectedAsLoop):
		return problemdetails.New(http.StatusUnprocessableEntity, problemdetails.TypeRejectedAsLoop,
			"Rejected As Loop", "destination points to a tracked link of this service")
	default:
		return problemdetails.New(http.StatusInternalServerError, problemdetails.TypeInternalError,
			"Internal Server Error", "Internal server error")
	}
}

// writeError logs unexpected errors and writes the mapped problem.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	problem := problemFor(err)
	if problem.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeProblem(w, problem)
}
