package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter creates a new Chi router serving the route table.
//
// Tracking routes accept an optional owner so owners can be exempted from
// recording. API routes require an owner and are rate limited.
func NewRouter(handler *Handler, auth *Authenticator, rateLimiter *RateLimiter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	public := r.With(auth.OptionalOwner)
	api := r.With(rateLimiter.Middleware, auth.RequireOwner)

	handlers := handler.handlers()
	for _, rt := range Routes {
		h, ok := handlers[rt.Name]
		if !ok {
			panic(fmt.Sprintf("no handler for route %q", rt.Name))
		}
		if rt.API {
			api.Method(rt.Method, rt.Pattern, h)
		} else {
			public.Method(rt.Method, rt.Pattern, h)
		}
	}

	return r
}
