package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-shortview/internal/tracking/domain"
	"go-shortview/pkg/problemdetails"

	"github.com/golang-jwt/jwt/v5"
)

// AuthCookie carries the token for browser clients.
const AuthCookie = "auth_token"

type ownerKey struct{}

// Claims are the JWT claims the identity provider issues.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and resolves them to owners.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for tokens signed with secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Issue signs a token for owner valid for ttl.
func (a *Authenticator) Issue(owner domain.Owner, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: owner.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse verifies the token and returns its owner.
func (a *Authenticator) Parse(tokenString string) (*domain.Owner, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &domain.Owner{ID: claims.Subject, Email: claims.Email}, nil
}

// tokenFrom reads the bearer token, falling back to the auth cookie.
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(AuthCookie); err == nil {
		return c.Value
	}
	return ""
}

// OptionalOwner attaches the owner to the context when a valid token is
// present. Anonymous and invalid requests pass through unchanged.
func (a *Authenticator) OptionalOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := tokenFrom(r); token != "" {
			if owner, err := a.Parse(token); err == nil {
				r = r.WithContext(WithOwner(r.Context(), owner))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwner rejects requests without a valid token.
func (a *Authenticator) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFrom(r)
		if token == "" {
			writeProblem(w, problemdetails.New(http.StatusUnauthorized, problemdetails.TypeUnauthorized,
				"Unauthorized", "authentication required"))
			return
		}

		owner, err := a.Parse(token)
		if err != nil {
			writeProblem(w, problemdetails.New(http.StatusUnauthorized, problemdetails.TypeUnauthorized,
				"Unauthorized", fmt.Sprintf("invalid token: %v", err)))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

// WithOwner returns a context carrying owner.
func WithOwner(ctx context.Context, owner *domain.Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom returns the authenticated owner, or nil for anonymous requests.
func OwnerFrom(ctx context.Context) *domain.Owner {
	owner, _ := ctx.Value(ownerKey{}).(*domain.Owner)
	return owner
}
