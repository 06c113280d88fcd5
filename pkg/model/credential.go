package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordCredential holds the bcrypt hash for a user's password.
// At most one per user; used only to mint tickets, never forwarded upstream.
type PasswordCredential struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Hash      string    `gorm:"column:hash;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PasswordCredential) TableName() string {
	return "password_credentials"
}
