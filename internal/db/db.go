package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505). Used to translate write-time races on
// email/username/google_id into domain errors.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
