package gateway

import (
	"net/http"
	"strings"
)

// Control surface of the gateway. Everything else on the request is opaque
// payload for the upstream.
const (
	// AuthScheme is the Authorization header scheme for ticket secrets.
	AuthScheme = "Omnitron"

	// TicketQueryParam carries a ticket secret when headers are
	// impractical, e.g. plain browser navigation.
	TicketQueryParam = "omnitron-ticket"

	// TargetQueryParam names the registered target the request should
	// reach.
	TargetQueryParam = "omnitron-target"
)

// SecretExtractor attempts to pull a candidate ticket secret out of a
// request. Extractors are tried in order; the first success wins.
type SecretExtractor interface {
	Extract(r *http.Request) (secret string, ok bool)
}

// HeaderExtractor reads `Authorization: Omnitron <secret>`.
// The scheme comparison is case-insensitive.
type HeaderExtractor struct{}

func (HeaderExtractor) Extract(r *http.Request) (string, bool) {
	for _, header := range r.Header.Values("Authorization") {
		scheme, rest, found := strings.Cut(header, " ")
		if !found {
			continue
		}
		if !strings.EqualFold(scheme, AuthScheme) {
			continue
		}
		secret := strings.TrimSpace(rest)
		if secret == "" {
			continue
		}
		return secret, true
	}
	return "", false
}

// QueryExtractor reads the omnitron-ticket query parameter.
type QueryExtractor struct{}

func (QueryExtractor) Extract(r *http.Request) (string, bool) {
	secret := r.URL.Query().Get(TicketQueryParam)
	return secret, secret != ""
}

// DefaultExtractors is the ordered list of ticket presentation channels.
// Header presentation takes precedence over the query parameter.
func DefaultExtractors() []SecretExtractor {
	return []SecretExtractor{
		HeaderExtractor{},
		QueryExtractor{},
	}
}
