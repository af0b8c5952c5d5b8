package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/school-connect-api/internal/repository"
)

// isMissing reports whether a lookup found no row. A malformed id cannot match a row either.
func isMissing(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || repository.IsInvalidID(err)
}
