package database

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist. The
// repositories never fabricate default state for a missing row.
var ErrNotFound = errors.New("database: record not found")

func translateNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
