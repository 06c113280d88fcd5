package gateway

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// Identity is the authenticated identity produced by the Resolver.
type Identity struct {
	Username string

	// TicketID identifies the ticket that proved the identity.
	TicketID uuid.UUID

	// OriginTarget is the target the ticket was minted against. It is
	// descriptive only; target access is enforced by the Gate.
	OriginTarget string
}

// Resolver turns an inbound request into an authenticated identity, or a
// rejection. It consults the ticket store through an ordered list of
// extraction strategies.
type Resolver struct {
	tickets    store.TicketsStore
	extractors []SecretExtractor
	log        zerolog.Logger
}

// NewResolver creates a Resolver using the default extraction order.
func NewResolver(tickets store.TicketsStore, log zerolog.Logger) *Resolver {
	return &Resolver{
		tickets:    tickets,
		extractors: DefaultExtractors(),
		log:        log,
	}
}

// Resolve authenticates a request. It returns ErrUnauthenticated when no
// secret is presented on any channel, and ErrInvalidTicket when a presented
// secret does not validate. A validated consumable ticket is consumed.
func (r *Resolver) Resolve(req *http.Request) (*Identity, error) {
	var secret string
	for _, extractor := range r.extractors {
		if s, ok := extractor.Extract(req); ok {
			secret = s
			break
		}
	}
	if secret == "" {
		return nil, ErrUnauthenticated
	}

	ticket, err := r.tickets.Validate(secret)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTicket) {
			r.log.Warn().Str("remote", req.RemoteAddr).Msg("ticket rejected")
			return nil, ErrInvalidTicket
		}
		return nil, err
	}

	// Consumption is the atomic claim on a limited-use ticket; losing the
	// race to another request invalidates this one.
	if err := r.tickets.Consume(ticket.ID); err != nil {
		if errors.Is(err, store.ErrInvalidTicket) {
			r.log.Warn().Str("remote", req.RemoteAddr).Msg("ticket exhausted")
			return nil, ErrInvalidTicket
		}
		return nil, err
	}

	return &Identity{
		Username:     ticket.Username,
		TicketID:     ticket.ID,
		OriginTarget: ticket.TargetName,
	}, nil
}
