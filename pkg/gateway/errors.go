package gateway

import (
	"errors"
	"net/http"
)

// Request-level error taxonomy. Everything except ErrUpstreamUnavailable is
// decided locally and never reaches an upstream.
var (
	// ErrUnauthenticated means no ticket was presented on either channel.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidTicket means a ticket was presented but is absent,
	// malformed, tampered, expired or revoked. All sub-cases share this
	// error.
	ErrInvalidTicket = errors.New("invalid ticket")

	// ErrInvalidCredential means password verification failed.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrMissingTarget means the request named no target. There is no
	// implicit default target.
	ErrMissingTarget = errors.New("no target selected")

	// ErrUnknownTarget means the selector matched no registered target.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrForbidden means the identity's roles do not intersect the
	// target's roles.
	ErrForbidden = errors.New("access to target denied")

	// ErrUpstreamUnavailable means the upstream could not be reached or
	// failed at the transport level.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// StatusFor maps a pipeline error to the HTTP status returned to the client.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidTicket),
		errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMissingTarget):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownTarget):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ReasonFor labels a pipeline error for metrics.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInvalidTicket):
		return "invalid_ticket"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, ErrMissingTarget):
		return "missing_target"
	case errors.Is(err, ErrUnknownTarget):
		return "unknown_target"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "internal"
	}
}
