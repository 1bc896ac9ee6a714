package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("record not found")

	// returned when an insert or update trips the one-active-event indexes
	ErrActivePaddockConflict   = errors.New("paddock already has an active grazing event")
	ErrActiveHerdGroupConflict = errors.New("herd group already has an active grazing event")

	ErrDuplicateEmail = errors.New("email already registered")
)

const (
	uniqueViolation = "23505"

	activePaddockIndex   = "uq_grazing_events_active_paddock"
	activeHerdGroupIndex = "uq_grazing_events_active_herd_group"
	usersEmailIndex      = "users_email_key"
)

// translate maps driver errors onto repository sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case activePaddockIndex:
			return ErrActivePaddockConflict
		case activeHerdGroupIndex:
			return ErrActiveHerdGroupConflict
		case usersEmailIndex:
			return ErrDuplicateEmail
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
