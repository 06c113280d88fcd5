package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

func ticketColumns() []string {
	return []string{"id", "secret_sha256", "username", "target_name", "uses_left", "expiry", "created_at"}
}

func TestValidateTicket(t *testing.T) {
	db, mock := setupTestDB(t)
	tickets := NewTicketsStore(db)

	secret := model.GenerateSecret()
	digest := model.HashSecret(secret)
	ticketID := uuid.New()

	t.Run("valid secret", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "tickets"`).
			WillReturnRows(sqlmock.NewRows(ticketColumns()).
				AddRow(ticketID, digest, "alice", "echo", nil, nil, time.Now()))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ticket, err := tickets.Validate(secret)
		require.NoError(t, err)
		assert.Equal(t, "alice", ticket.Username)
		assert.Equal(t, "echo", ticket.TargetName)
	})

	t.Run("unknown secret", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "tickets"`).
			WillReturnRows(sqlmock.NewRows(ticketColumns()))

		_, err := tickets.Validate("bad" + secret)
		assert.ErrorIs(t, err, store.ErrInvalidTicket)
	})

	t.Run("used up ticket", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "tickets"`).
			WillReturnRows(sqlmock.NewRows(ticketColumns()).
				AddRow(ticketID, digest, "alice", "echo", 0, nil, time.Now()))

		_, err := tickets.Validate(secret)
		assert.ErrorIs(t, err, store.ErrInvalidTicket)
	})

	t.Run("expired ticket", func(t *testing.T) {
		expired := time.Now().Add(-time.Hour)
		mock.ExpectQuery(`SELECT \* FROM "tickets"`).
			WillReturnRows(sqlmock.NewRows(ticketColumns()).
				AddRow(ticketID, digest, "alice", "echo", nil, expired, time.Now()))

		_, err := tickets.Validate(secret)
		assert.ErrorIs(t, err, store.ErrInvalidTicket)
	})

	t.Run("deleted user invalidates the ticket", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "tickets"`).
			WillReturnRows(sqlmock.NewRows(ticketColumns()).
				AddRow(ticketID, digest, "alice", "echo", nil, nil, time.Now()))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := tickets.Validate(secret)
		assert.ErrorIs(t, err, store.ErrInvalidTicket)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeTicket(t *testing.T) {
	db, mock := setupTestDB(t)
	tickets := NewTicketsStore(db)

	ticketID := uuid.New()

	t.Run("remaining uses", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tickets\s+SET uses_left = uses_left - 1\s+WHERE id = .+ AND \(uses_left IS NULL OR uses_left > 0\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, tickets.Consume(ticketID))
	})

	// A concurrent request already took the last use: the guarded update
	// matches no row and this request must not authenticate.
	t.Run("lost race on last use", func(t *testing.T) {
		mock.ExpectExec(`UPDATE tickets`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, tickets.Consume(ticketID), store.ErrInvalidTicket)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeTicket(t *testing.T) {
	db, mock := setupTestDB(t)
	tickets := NewTicketsStore(db)

	ticketID := uuid.New()

	mock.ExpectExec(`DELETE FROM "tickets"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, tickets.Revoke(ticketID))

	mock.ExpectExec(`DELETE FROM "tickets"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, tickets.Revoke(ticketID), store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
