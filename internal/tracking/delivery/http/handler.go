package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-shortview/internal/tracking/domain"
	"go-shortview/internal/tracking/usecase"
	"go-shortview/pkg/problemdetails"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Pinger checks backing storage for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests for pixels, links and their owners
type Handler struct {
	service *usecase.TrackingService
	db      Pinger
	logger  *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(service *usecase.TrackingService, db Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		db:      db,
		logger:  logger,
	}
}

// handlers maps route names to handler funcs.
func (h *Handler) handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteRedirectLink:      h.RedirectLink,
		RouteDisplayPixel:      h.DisplayPixel,
		RouteHealthz:           h.Healthz,
		RouteReadyz:            h.Readyz,
		RouteCreateArtifact:    h.CreateArtifact,
		RouteListArtifacts:     h.ListArtifacts,
		RouteGetArtifact:       h.GetArtifact,
		RouteDeleteArtifact:    h.DeleteArtifact,
		RouteChangeNotify:      h.ChangeNotify,
		RouteGetEvent:          h.GetEvent,
		RouteGetPreferences:    h.GetPreferences,
		RouteUpdatePreferences: h.UpdatePreferences,
	}
}

// ArtifactResponse is the API representation of an artifact.
type ArtifactResponse struct {
	ID              string              `json:"id"`
	Kind            domain.Kind         `json:"kind"`
	Description     string              `json:"description"`
	URL             string              `json:"url"`
	Destination     string              `json:"destination,omitempty"`
	Notify          domain.NotifyPolicy `json:"notify"`
	CreatedAt       time.Time           `json:"created_at"`
	LifetimeSeconds int64               `json:"lifetime_seconds"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
	Active          bool                `json:"active"`
	EventCount      int64               `json:"event_count"`
}

// ArtifactDetailResponse adds the event history.
type ArtifactDetailResponse struct {
	ArtifactResponse
	Events []domain.Event `json:"events"`
}

// PreferencesResponse is the API representation of a profile.
type PreferencesResponse struct {
	Email              string                `json:"email"`
	NeverExpire        bool                  `json:"never_expire"`
	Lifetime           usecase.LifetimeInput `json:"lifetime"`
	HideExpired        bool                  `json:"hide_expired"`
	DeleteExpired      bool                  `json:"delete_expired"`
	DefaultNotify      domain.NotifyPolicy   `json:"default_notify"`
	ReceiveNewsletters bool                  `json:"receive_newsletters"`
}

// ChangeNotifyRequest is the body of PUT /api/v1/artifacts/{id}/notify
type ChangeNotifyRequest struct {
	Notify string `json:"notify"`
}

func toArtifactResponse(v usecase.ArtifactView) ArtifactResponse {
	resp := ArtifactResponse{
		ID:              v.ID,
		Kind:            v.Kind,
		Description:     v.Description,
		URL:             v.URL,
		Destination:     v.Destination,
		Notify:          v.Notify,
		CreatedAt:       v.CreatedAt,
		LifetimeSeconds: int64(v.Lifetime / time.Second),
		Active:          v.Active,
		EventCount:      v.EventCount,
	}
	if !v.NeverExpires() {
		expiresAt := v.ExpiresAt()
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

func toPreferencesResponse(p *domain.Profile) PreferencesResponse {
	return PreferencesResponse{
		Email:              p.Email,
		NeverExpire:        p.DefaultLifetime == 0,
		Lifetime:           usecase.LifetimeFromDuration(p.DefaultLifetime),
		HideExpired:        p.HideExpired,
		DeleteExpired:      p.DeleteExpired,
		DefaultNotify:      p.DefaultNotify,
		ReceiveNewsletters: p.ReceiveNewsletters,
	}
}

// requestContext captures what the tracking core needs from a hit.
func requestContext(r *http.Request) usecase.RequestContext {
	return usecase.RequestContext{
		Header:     r.Header.Clone(),
		Host:       r.Host,
		RemoteAddr: r.RemoteAddr,
		Caller:     OwnerFrom(r.Context()),
	}
}

// mustOwner returns the owner set by RequireOwner.
func mustOwner(r *http.Request) domain.Owner {
	return *OwnerFrom(r.Context())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeProblem(w, problemdetails.New(
			http.StatusBadRequest,
			problemdetails.TypeInvalidRequest,
			"Invalid Request",
			"Request body must be valid JSON",
		))
		return false
	}
	return true
}

// RedirectLink handles GET /l/{id}
func (h *Handler) RedirectLink(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ResolveAndRecord(r.Context(), domain.KindLink, chi.URLParam(r, "id"), requestContext(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, res.Destination, http.StatusFound)
}

// DisplayPixel handles GET /p/{id}/image.png
func (h *Handler) DisplayPixel(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.ResolveAndRecord(r.Context(), domain.KindPixel, chi.URLParam(r, "id"), requestContext(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(transparentPixel)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(transparentPixel)
}

// CreateArtifact handles POST /api/v1/artifacts
func (h *Handler) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateArtifactInput
	if !decodeBody(w, r, &in) {
		return
	}

	artifact, err := h.service.CreateArtifact(r.Context(), mustOwner(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.service.View(r.Context(), artifact)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toArtifactResponse(*view))
}

// ListArtifacts handles GET /api/v1/artifacts
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	includeHidden, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	views, err := h.service.ListArtifacts(r.Context(), mustOwner(r), usecase.ListOptions{IncludeHidden: includeHidden})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(views, func(v usecase.ArtifactView, _ int) ArtifactResponse {
		return toArtifactResponse(v)
	}))
}

// GetArtifact handles GET /api/v1/artifacts/{id}
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetArtifact(r.Context(), mustOwner(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ArtifactDetailResponse{
		ArtifactResponse: toArtifactResponse(detail.ArtifactView),
		Events:           detail.Events,
	})
}

// DeleteArtifact handles DELETE /api/v1/artifacts/{id}
func (h *Handler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteArtifact(r.Context(), mustOwner(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeNotify handles PUT /api/v1/artifacts/{id}/notify
func (h *Handler) ChangeNotify(w http.ResponseWriter, r *http.Request) {
	var req ChangeNotifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	artifact, err := h.service.ChangeNotify(r.Context(), mustOwner(r), chi.URLParam(r, "id"), req.Notify)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]domain.NotifyPolicy{"notify": artifact.Notify})
}

// GetEvent handles GET /api/v1/artifacts/{id}/events/{eventID}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), mustOwner(r), chi.URLParam(r, "id"), chi.URLParam(r, "eventID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// GetPreferences handles GET /api/v1/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetPreferences(r.Context(), mustOwner(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPreferencesResponse(profile))
}

// UpdatePreferences handles PUT /api/v1/preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var in usecase.PreferencesInput
	if !decodeBody(w, r, &in) {
		return
	}

	profile, err := h.service.UpdatePreferences(r.Context(), mustOwner(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPreferencesResponse(profile))
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Healthz handles GET /healthz (liveness probe)
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz handles GET /readyz (readiness probe)
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Reason: "database unavailable: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}
