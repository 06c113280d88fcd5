// Package middleware holds HTTP middleware for the administrative API.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenHeader carries the admin token on API requests. A standard Bearer
// Authorization header is accepted as an alternative.
const TokenHeader = "X-Omnitron-Token"

// AdminTokenAuthenticator gates the admin API on a shared token.
type AdminTokenAuthenticator struct {
	token string
}

// NewAdminTokenAuthenticator creates the middleware. An empty token makes
// every request fail; the server refuses to start without one configured.
func NewAdminTokenAuthenticator(token string) *AdminTokenAuthenticator {
	return &AdminTokenAuthenticator{token: token}
}

func (a *AdminTokenAuthenticator) presented(r *http.Request) string {
	if t := r.Header.Get(TokenHeader); t != "" {
		return t
	}
	scheme, rest, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return ""
}

// Middleware rejects requests that don't carry the configured token.
func (a *AdminTokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := a.presented(r)
		if a.token == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid admin token"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
