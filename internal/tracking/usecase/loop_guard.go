package usecase

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go-shortview/internal/tracking/domain"
)

const maxURLLength = 2048

// LoopGuard rejects link destinations that point back at one of our own
// redirect endpoints. Chained tracked links would redirect (and notify) forever.
type LoopGuard struct {
	resolver       RouteResolver
	dispatchRoutes map[string]struct{}
}

// NewLoopGuard creates a guard that rejects paths resolving to any of dispatchRoutes.
func NewLoopGuard(resolver RouteResolver, dispatchRoutes ...string) *LoopGuard {
	routes := make(map[string]struct{}, len(dispatchRoutes))
	for _, r := range dispatchRoutes {
		routes[r] = struct{}{}
	}
	return &LoopGuard{resolver: resolver, dispatchRoutes: routes}
}

// ValidateDestination checks the destination format, then resolves its path
// against the route table. Only the path takes part in resolution.
func (g *LoopGuard) ValidateDestination(rawURL string) error {
	parsed, err := parseDestination(rawURL)
	if err != nil {
		return domain.NewValidationError("destination", err.Error())
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	name, ok := g.resolver.Resolve(http.MethodGet, path)
	if !ok {
		return nil
	}
	if _, loop := g.dispatchRoutes[name]; loop {
		return fmt.Errorf("%w: %s", domain.ErrRejectedAsLoop, rawURL)
	}
	return nil
}

// parseDestination validates the URL format and constraints.
func parseDestination(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if len(rawURL) > maxURLLength {
		return nil, fmt.Errorf("url exceeds maximum length of %d characters", maxURLLength)
	}

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url format: %w", err)
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("url scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return nil, fmt.Errorf("url must have a host")
	}

	return parsedURL, nil
}
