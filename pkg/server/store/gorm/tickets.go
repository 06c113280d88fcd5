package gorm

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// Ensure TicketsStore implements store.TicketsStore
var _ store.TicketsStore = (*TicketsStore)(nil)

// TicketsStore implements store.TicketsStore using GORM
type TicketsStore struct {
	db *gorm.DB
}

// NewTicketsStore creates a new TicketsStore
func NewTicketsStore(db *gorm.DB) *TicketsStore {
	return &TicketsStore{db: db}
}

// Issue creates a ticket bound to a username and target name. Only the
// SHA-256 digest of the secret is stored; the plaintext is carried on the
// returned ticket and shown exactly once.
func (s *TicketsStore) Issue(username, targetName string, expiry *time.Time, usesLeft *int) (*model.Ticket, error) {
	secret := model.GenerateSecret()
	ticket := model.Ticket{
		ID:           uuid.New(),
		SecretSHA256: model.HashSecret(secret),
		Username:     username,
		TargetName:   targetName,
		Expiry:       expiry,
		UsesLeft:     usesLeft,
		PlainSecret:  secret,
	}

	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to issue ticket: %w", err)
	}
	return &ticket, nil
}

// Validate looks up a ticket by its secret. The lookup is by digest, so the
// cost is fixed regardless of how the presented secret differs from any
// stored one, and there are no prefix or partial-match semantics.
func (s *TicketsStore) Validate(secret string) (*model.Ticket, error) {
	digest := model.HashSecret(secret)

	var ticket model.Ticket
	if err := s.db.Where("secret_sha256 = ?", digest).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrInvalidTicket
		}
		return nil, fmt.Errorf("failed to look up ticket: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(ticket.SecretSHA256), []byte(digest)) != 1 {
		return nil, store.ErrInvalidTicket
	}

	if ticket.UsedUp() || ticket.Expired() {
		return nil, store.ErrInvalidTicket
	}

	// A ticket whose user has been deleted is invalid, not an error
	var userExists bool
	tx := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, ticket.Username).Scan(&userExists)
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to check ticket user: %w", tx.Error)
	}
	if !userExists {
		return nil, store.ErrInvalidTicket
	}

	return &ticket, nil
}

// Consume decrements a consumable ticket's remaining uses. The decrement is
// guarded in SQL so two requests racing on a one-use ticket cannot both win:
// whichever update matches no row loses and the ticket counts as invalid.
// Tickets without a counter always match (NULL - 1 stays NULL).
func (s *TicketsStore) Consume(id uuid.UUID) error {
	tx := s.db.Exec(`
		UPDATE tickets
		SET uses_left = uses_left - 1
		WHERE id = ? AND (uses_left IS NULL OR uses_left > 0)
	`, id)
	if tx.Error != nil {
		return fmt.Errorf("failed to consume ticket: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrInvalidTicket
	}
	return nil
}

// Revoke deletes a ticket
func (s *TicketsStore) Revoke(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&model.Ticket{})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListTickets returns all tickets ordered by creation time
func (s *TicketsStore) ListTickets() ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := s.db.Order("created_at").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}
