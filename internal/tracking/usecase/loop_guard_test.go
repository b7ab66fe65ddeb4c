package usecase_test

import (
	"errors"
	"testing"

	"go-shortview/internal/tracking/domain"
	"go-shortview/internal/tracking/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticResolver resolves paths by exact match or by prefix for the link route.
type staticResolver map[string]string

func (r staticResolver) Resolve(method, path string) (string, bool) {
	if method != "GET" {
		return "", false
	}
	if name, ok := r[path]; ok {
		return name, true
	}
	if len(path) > 3 && path[:3] == "/l/" {
		return "redirect_link", true
	}
	return "", false
}

func newGuard() *usecase.LoopGuard {
	return usecase.NewLoopGuard(staticResolver{"/healthz": "healthz"}, "redirect_link")
}

func TestLoopGuard_ValidateDestination(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "external destination", url: "https://example.com/page?x=1"},
		{name: "root path", url: "https://example.com"},
		{name: "own non-redirect route", url: "https://sv.example/healthz"},
		{name: "own redirect route", url: "https://sv.example/l/abc12345", wantErr: domain.ErrRejectedAsLoop},
		{name: "redirect route on foreign host", url: "https://elsewhere.example/l/abc12345", wantErr: domain.ErrRejectedAsLoop},
		{name: "ftp scheme", url: "ftp://example.com/file", wantErr: domain.ErrValidation},
		{name: "missing host", url: "https://", wantErr: domain.ErrValidation},
		{name: "empty", url: "", wantErr: domain.ErrValidation},
		{name: "relative", url: "/l/abc12345", wantErr: domain.ErrValidation},
	}

	guard := newGuard()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.ValidateDestination(tt.url)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

// TestLoopGuard_ExceedsMaxLength_ReturnsValidationError tests rejection of URLs exceeding 2048 chars
func TestLoopGuard_ExceedsMaxLength_ReturnsValidationError(t *testing.T) {
	long := "https://example.com/"
	for len(long) <= 2048 {
		long += "aaaaaaaaaa"
	}

	err := newGuard().ValidateDestination(long)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["destination"], "maximum length")
}
