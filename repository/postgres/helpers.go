package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Nate91117/teamnotes/pkg/dates"
)

// nullDueDate anchors an incoming due date at noon in the reference zone
// before it is stored, so the calendar day survives zone round-trips.
func nullDueDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return dates.AnchorNoon(*t)
}

func nullString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
