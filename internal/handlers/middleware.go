package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"realvsai/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Identity is the authenticated caller attached to the request context
type Identity struct {
	UserID      int64
	DisplayName string
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.TokenManager
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenManager, limiter *security.RateLimiter) *Middleware {
	return &Middleware{tokens: tokens, limiter: limiter}
}

// CurrentUser attaches the caller's identity when a valid bearer token is
// present. Anonymous requests pass through untouched; play does not require
// an account.
func (m *Middleware) CurrentUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			userID, displayName, err := m.tokens.Verify(token)
			if err == nil {
				ctx := context.WithValue(r.Context(), IdentityContextKey, &Identity{
					UserID:      userID,
					DisplayName: displayName,
				})
				r = r.WithContext(ctx)
			}
		}
		next(w, r)
	}
}

// RequireUser rejects requests without a valid identity
func (m *Middleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return m.CurrentUser(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			writeFailure(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	})
}

// RateLimit rejects requests from clients exceeding the per-IP limit
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			writeFailure(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// IdentityFromContext retrieves the caller identity, nil when anonymous
func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// optionalUserID returns the caller's user id as a nullable pointer
func optionalUserID(ctx context.Context) *int64 {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return nil
	}
	id := identity.UserID
	return &id
}
