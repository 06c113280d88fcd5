package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Ticket is a capability token: an opaque bearer secret bound to a username
// and the target it was minted against. Only the SHA-256 digest of the
// secret is stored; the plaintext is returned exactly once at issuance.
type Ticket struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	SecretSHA256 string     `gorm:"column:secret_sha256;uniqueIndex;not null"`
	Username     string     `gorm:"column:username;index;not null"`
	TargetName   string     `gorm:"column:target_name;not null"`
	UsesLeft     *int       `gorm:"column:uses_left"`
	Expiry       *time.Time `gorm:"column:expiry"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`

	// Transient field for the plaintext secret (not stored)
	PlainSecret string `gorm:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// GenerateSecret creates a new random ticket secret.
func GenerateSecret() string {
	// 32 random bytes encoded as hex (64 chars)
	randomBytes := make([]byte, 32)
	rand.Read(randomBytes)
	return hex.EncodeToString(randomBytes)
}

// HashSecret returns the SHA-256 digest of a secret.
func HashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// Expired reports whether the ticket's expiry has passed.
// Tickets without an expiry never expire.
func (t *Ticket) Expired() bool {
	return t.Expiry != nil && time.Now().After(*t.Expiry)
}

// UsedUp reports whether a consumable ticket has no uses left.
// Tickets without a counter are unlimited.
func (t *Ticket) UsedUp() bool {
	return t.UsesLeft != nil && *t.UsesLeft <= 0
}
