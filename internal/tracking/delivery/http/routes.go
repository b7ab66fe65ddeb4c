package http

import (
	"net/http"

	"go-shortview/internal/tracking/usecase"

	"github.com/go-chi/chi/v5"
)

// Route names.
const (
	RouteRedirectLink      = "redirect_link"
	RouteDisplayPixel      = "display_pixel"
	RouteHealthz           = "healthz"
	RouteReadyz            = "readyz"
	RouteCreateArtifact    = "create_artifact"
	RouteListArtifacts     = "list_artifacts"
	RouteGetArtifact       = "get_artifact"
	RouteDeleteArtifact    = "delete_artifact"
	RouteChangeNotify      = "change_notify"
	RouteGetEvent          = "get_event"
	RouteGetPreferences    = "get_preferences"
	RouteUpdatePreferences = "update_preferences"
)

// Route is one entry of the route table.
type Route struct {
	Name    string
	Method  string
	Pattern string
	// API routes require an owner and are rate limited.
	API bool
}

// Routes is the single route table. The router serves it and the
// RouteResolver matches destinations against it.
var Routes = []Route{
	{Name: RouteRedirectLink, Method: http.MethodGet, Pattern: "/l/{id}"},
	{Name: RouteDisplayPixel, Method: http.MethodGet, Pattern: "/p/{id}/image.png"},
	{Name: RouteHealthz, Method: http.MethodGet, Pattern: "/healthz"},
	{Name: RouteReadyz, Method: http.MethodGet, Pattern: "/readyz"},
	{Name: RouteCreateArtifact, Method: http.MethodPost, Pattern: "/api/v1/artifacts", API: true},
	{Name: RouteListArtifacts, Method: http.MethodGet, Pattern: "/api/v1/artifacts", API: true},
	{Name: RouteGetArtifact, Method: http.MethodGet, Pattern: "/api/v1/artifacts/{id}", API: true},
	{Name: RouteDeleteArtifact, Method: http.MethodDelete, Pattern: "/api/v1/artifacts/{id}", API: true},
	{Name: RouteChangeNotify, Method: http.MethodPut, Pattern: "/api/v1/artifacts/{id}/notify", API: true},
	{Name: RouteGetEvent, Method: http.MethodGet, Pattern: "/api/v1/artifacts/{id}/events/{eventID}", API: true},
	{Name: RouteGetPreferences, Method: http.MethodGet, Pattern: "/api/v1/preferences", API: true},
	{Name: RouteUpdatePreferences, Method: http.MethodPut, Pattern: "/api/v1/preferences", API: true},
}

// RouteResolver matches paths against the route table without serving them.
type RouteResolver struct {
	mux   *chi.Mux
	names map[string]string
}

var _ usecase.RouteResolver = (*RouteResolver)(nil)

// NewRouteResolver builds a resolver over Routes.
func NewRouteResolver() *RouteResolver {
	mux := chi.NewRouter()
	names := make(map[string]string, len(Routes))
	for _, rt := range Routes {
		mux.Method(rt.Method, rt.Pattern, http.NotFoundHandler())
		names[rt.Method+" "+rt.Pattern] = rt.Name
	}
	return &RouteResolver{mux: mux, names: names}
}

// Resolve returns the name of the route serving method and path.
func (r *RouteResolver) Resolve(method, path string) (string, bool) {
	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, method, path) {
		return "", false
	}
	name, ok := r.names[method+" "+rctx.RoutePattern()]
	return name, ok
}
