package domain

import "time"

// Kind distinguishes tracking pixels from tracked links.
type Kind string

const (
	KindPixel Kind = "pixel"
	KindLink  Kind = "link"
)

func (k Kind) Valid() bool {
	return k == KindPixel || k == KindLink
}

// Artifact is a trackable object: a pixel or a link.
// A zero Lifetime means it never expires.
type Artifact struct {
	ID          string        `json:"id"`
	Kind        Kind          `json:"kind"`
	OwnerID     string        `json:"owner_id"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	Lifetime    time.Duration `json:"lifetime"`
	Destination string        `json:"destination,omitempty"`
	Notify      NotifyPolicy  `json:"notify"`
}

// NeverExpires reports whether the artifact has no lifetime limit.
func (a *Artifact) NeverExpires() bool {
	return a.Lifetime == 0
}

// ExpiresAt returns the instant after which the artifact is no longer active,
// or the zero time when it never expires.
func (a *Artifact) ExpiresAt() time.Time {
	if a.NeverExpires() {
		return time.Time{}
	}
	return a.CreatedAt.Add(a.Lifetime)
}

// IsActive reports whether the artifact is still served at now.
//
// The upper bound is inclusive. An artifact whose creation time lies after now
// is never active, whatever its lifetime.
func IsActive(a *Artifact, now time.Time) bool {
	if a.NeverExpires() {
		return true
	}
	age := now.Sub(a.CreatedAt)
	return a.Lifetime >= age && !a.CreatedAt.After(now)
}
