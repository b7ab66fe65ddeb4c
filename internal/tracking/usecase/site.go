package usecase

import (
	"net/url"

	"go-shortview/internal/tracking/domain"
)

// Site describes the public face of the service, used to build absolute links.
type Site struct {
	Scheme      string
	Domain      string
	MailFrom    string
	ProductName string
}

// BaseURL returns scheme://domain.
func (s Site) BaseURL() string {
	scheme := s.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + s.Domain
}

// ArtifactURL is the public URL third parties load: the redirect for links,
// the image for pixels.
func (s Site) ArtifactURL(a *domain.Artifact) string {
	if a.Kind == domain.KindPixel {
		return s.BaseURL() + "/p/" + url.PathEscape(a.ID) + "/image.png"
	}
	return s.BaseURL() + "/l/" + url.PathEscape(a.ID)
}

// DetailURL points at the owner's view of an artifact.
func (s Site) DetailURL(artifactID string) string {
	return s.BaseURL() + "/api/v1/artifacts/" + url.PathEscape(artifactID)
}

// EventURL points at the owner's view of a single event.
func (s Site) EventURL(artifactID, eventID string) string {
	return s.DetailURL(artifactID) + "/events/" + url.PathEscape(eventID)
}

// PreferencesURL points at the owner's preferences.
func (s Site) PreferencesURL() string {
	return s.BaseURL() + "/api/v1/preferences"
}
