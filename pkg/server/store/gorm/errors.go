package gorm

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres unique_violation
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation.
// Inserts race against each other, so uniqueness is settled by the database
// constraint rather than a lookup beforehand.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
