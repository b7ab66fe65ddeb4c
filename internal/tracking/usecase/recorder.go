package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/textproto"
	"strings"

	"go-shortview/internal/tracking/domain"

	"github.com/google/uuid"
)

// RedactedValue replaces credential-bearing header values before an event is stored.
// Owners must never be able to recover visitor cookies from their records.
const RedactedValue = "[REDACTED]"

var redactedHeaders = []string{"Cookie", "Authorization"}

// EventRecorder turns an inbound hit into a stored Event.
type EventRecorder struct {
	store  Store
	agents *AgentFilter
	clock  domain.Clock
}

// NewEventRecorder creates a recorder writing to store.
func NewEventRecorder(store Store, agents *AgentFilter, clock domain.Clock) *EventRecorder {
	return &EventRecorder{store: store, agents: agents, clock: clock}
}

// Record appends one event for the artifact and returns it together with its
// ordinal, the number of events the artifact has once this one is stored.
//
// The count is read after the insert without serialization, so two concurrent
// first hits can both observe an ordinal above or equal to one.
func (r *EventRecorder) Record(ctx context.Context, a *domain.Artifact, req RequestContext) (*domain.Event, int64, error) {
	header, err := SerializeHeader(req.Header, req.Host)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to serialize request header: %w", err)
	}

	userAgent := req.Header.Get("User-Agent")
	event := &domain.Event{
		ID:         uuid.Must(uuid.NewV7()).String(),
		ArtifactID: a.ID,
		OccurredAt: r.clock.Now(),
		SourceIP:   ClientIP(req.Header, req.RemoteAddr),
		Header:     header,
		UserAgent:  userAgent,
		Device:     r.agents.DeviceClass(userAgent),
	}

	if err := r.store.CreateEvent(ctx, event); err != nil {
		return nil, 0, fmt.Errorf("failed to store event: %w", err)
	}

	ordinal, err := r.store.CountEvents(ctx, a.ID)
	if err != nil {
		return event, 0, fmt.Errorf("failed to count events: %w", err)
	}

	return event, ordinal, nil
}

// ClientIP prefers the first X-Forwarded-For entry and falls back to the host
// part of the connection address.
func ClientIP(header http.Header, remoteAddr string) string {
	if forwarded := header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// SerializeHeader renders request headers as a JSON object with canonical,
// sorted keys. Cookie and Authorization values are replaced by RedactedValue.
func SerializeHeader(header http.Header, host string) (string, error) {
	out := make(map[string][]string, len(header)+1)
	for name, values := range header {
		key := textproto.CanonicalMIMEHeaderKey(name)
		out[key] = append(out[key], values...)
	}
	if host != "" {
		out["Host"] = []string{host}
	}
	for _, name := range redactedHeaders {
		if _, ok := out[name]; ok {
			out[name] = []string{RedactedValue}
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
