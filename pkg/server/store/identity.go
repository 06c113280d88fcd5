package store

import (
	"github.com/google/uuid"

	"github.com/omnitron/omnitron-in-go/pkg/model"
)

// IdentityStore abstracts user and credential storage
type IdentityStore interface {
	// CreateUser creates a user with a unique username
	CreateUser(username string) (*model.User, error)

	// DeleteUser removes a user along with its tickets, role assignments
	// and credentials
	DeleteUser(id uuid.UUID) error

	// ListUsers returns all users ordered by username
	ListUsers() ([]model.User, error)

	// FetchUser retrieves a user by username
	FetchUser(username string) (*model.User, error)

	// FetchUserByID retrieves a user by ID
	FetchUserByID(id uuid.UUID) (*model.User, error)

	// SetPassword stores a password credential for a user, replacing any
	// existing one
	SetPassword(userID uuid.UUID, password string) error

	// VerifyPassword checks a password against the stored credential and
	// returns the user ID on success. It fails with ErrInvalidCredential
	// uniformly for unknown users and wrong passwords.
	VerifyPassword(username, password string) (uuid.UUID, error)
}
