package problemdetails

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PrefixesType(t *testing.T) {
	p := New(http.StatusNotFound, TypeNotFound, "Not Found", "artifact not found")

	assert.Equal(t, "https://shortview.dev/problems/not-found", p.Type)
	assert.Equal(t, http.StatusNotFound, p.Status)
	assert.Equal(t, "404 Not Found: artifact not found", p.Error())
}

func TestNewValidation_SortsFields(t *testing.T) {
	p := NewValidation(FieldErrors(map[string]string{
		"kind":        "cannot be blank",
		"destination": "url is required",
	}))

	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, []FieldError{
		{Field: "destination", Message: "url is required"},
		{Field: "kind", Message: "cannot be blank"},
	}, p.Errors)
}
