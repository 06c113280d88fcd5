package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecret(t *testing.T) {
	secret := GenerateSecret()
	assert.Len(t, secret, 64, "secret should be 32 bytes hex encoded")

	other := GenerateSecret()
	assert.NotEqual(t, secret, other, "secrets must be unique")
}

func TestHashSecret(t *testing.T) {
	secret := GenerateSecret()

	assert.Equal(t, HashSecret(secret), HashSecret(secret))
	assert.NotEqual(t, HashSecret(secret), HashSecret("bad"+secret))
	assert.NotEqual(t, HashSecret(secret), HashSecret(secret[:len(secret)-1]))
	assert.Len(t, HashSecret(secret), 64)
}

func TestTicketExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	assert.False(t, (&Ticket{}).Expired(), "no expiry means never expired")
	assert.True(t, (&Ticket{Expiry: &past}).Expired())
	assert.False(t, (&Ticket{Expiry: &future}).Expired())
}

func TestTicketUsedUp(t *testing.T) {
	zero := 0
	one := 1

	assert.False(t, (&Ticket{}).UsedUp(), "no counter means unlimited uses")
	assert.True(t, (&Ticket{UsesLeft: &zero}).UsedUp())
	assert.False(t, (&Ticket{UsesLeft: &one}).UsedUp())
}
