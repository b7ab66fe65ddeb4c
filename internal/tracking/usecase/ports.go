package usecase

import (
	"net/http"

	"go-shortview/internal/tracking/domain"
)

// RouteResolver resolves a request path against the service's own routes and
// returns the name of the matched route.
type RouteResolver interface {
	Resolve(method, path string) (name string, ok bool)
}

// Dispatcher hands a notification off for delivery. It must not block on the
// mail transport and reports nothing back.
type Dispatcher interface {
	Dispatch(n domain.Notification)
}

// RequestContext is what the core needs to know about an inbound hit.
type RequestContext struct {
	Header     http.Header
	Host       string
	RemoteAddr string
	// Caller is the authenticated user, nil for anonymous visitors.
	Caller *domain.Owner
}

// Outcome tells the delivery layer how a resolved hit was treated.
type Outcome string

const (
	OutcomeRecorded     Outcome = "recorded"
	OutcomeOwnerExempt  Outcome = "owner_exempt"
	OutcomePreviewAgent Outcome = "preview_agent"
	OutcomeRecordFailed Outcome = "record_failed"
)

// Resolution is the answer to a redirect or pixel request.
type Resolution struct {
	Kind        domain.Kind
	Destination string
	Outcome     Outcome
	EventID     string
}
