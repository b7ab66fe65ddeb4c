package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	httphandler "go-shortview/internal/tracking/delivery/http"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := httphandler.NewRateLimiter(2)
	t.Cleanup(rl.Stop)
	h := rl.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/artifacts", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_SeparateAddresses(t *testing.T) {
	rl := httphandler.NewRateLimiter(1)
	t.Cleanup(rl.Stop)
	h := rl.Middleware(okHandler())

	for _, addr := range []string{"198.51.100.7:5000", "198.51.100.8:5000"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, addr)
		assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := httphandler.NewRateLimiter(10)
	rl.Stop()
	rl.Stop()
}

func TestLoggerMiddleware_LogsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := httphandler.LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
		assert.Equal(t, "/healthz", fields["path"])
	}
}
