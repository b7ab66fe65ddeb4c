// Package problemdetails builds RFC 7807 error bodies.
package problemdetails

import (
	"fmt"
	"net/http"
	"sort"
)

const (
	TypeInvalidRequest    = "invalid-request"
	TypeNotFound          = "not-found"
	TypeForbidden         = "forbidden"
	TypeUnauthorized      = "unauthorized"
	TypeRejectedAsLoop    = "rejected-as-loop"
	TypeRateLimitExceeded = "rate-limit-exceeded"
	TypeInternalError     = "internal-error"
	TypeValidationError   = "validation-error"
)

// TypeBaseURI prefixes every problem type.
const TypeBaseURI = "https://shortview.dev/problems/"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ProblemDetail struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

func New(status int, problemType, title, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:   TypeBaseURI + problemType,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func NewValidation(errors []FieldError) *ProblemDetail {
	return &ProblemDetail{
		Type:   TypeBaseURI + TypeValidationError,
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: "Request validation failed",
		Errors: errors,
	}
}

// FieldErrors converts a field to message map into FieldErrors sorted by field.
func FieldErrors(fields map[string]string) []FieldError {
	out := make([]FieldError, 0, len(fields))
	for field, msg := range fields {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func (p *ProblemDetail) Error() string {
	return fmt.Sprintf("%d %s: %s", p.Status, p.Title, p.Detail)
}
