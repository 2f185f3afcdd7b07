package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// UniqueViolation reports whether err is a unique constraint violation and
// returns what it was raised on: the constraint name from postgres, or the
// offending columns from drivers that only report those (sqlite).
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != uniqueViolation {
			return "", false
		}
		return pgErr.ConstraintName, true
	}

	const sqliteUnique = "UNIQUE constraint failed: "
	msg := err.Error()
	if idx := strings.Index(msg, sqliteUnique); idx >= 0 {
		return msg[idx+len(sqliteUnique):], true
	}
	return "", false
}
