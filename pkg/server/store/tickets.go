package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/omnitron/omnitron-in-go/pkg/model"
)

// TicketsStore abstracts ticket issuance and validation
type TicketsStore interface {
	// Issue creates a ticket bound to a username and target name. The
	// returned ticket carries the plaintext secret; only its digest is
	// stored. Expiry and usesLeft are optional.
	Issue(username, targetName string, expiry *time.Time, usesLeft *int) (*model.Ticket, error)

	// Validate looks up a ticket by its secret. It fails with
	// ErrInvalidTicket when the secret is unknown, the ticket has expired
	// or is used up, or the bound user no longer exists.
	Validate(secret string) (*model.Ticket, error)

	// Consume decrements a consumable ticket's remaining uses. It fails
	// with ErrInvalidTicket when the ticket's uses are already exhausted
	// or the ticket is gone; tickets without a counter are unaffected.
	Consume(id uuid.UUID) error

	// Revoke deletes a ticket
	Revoke(id uuid.UUID) error

	// ListTickets returns all tickets ordered by creation time
	ListTickets() ([]model.Ticket, error)
}
