package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/umeloans/lead-capture/internal/entity"
)

const pgInvalidTextRepresentation = "22P02"

// mapError turns lookups that cannot match a lead into ErrLeadNotFound. A
// malformed uuid is reported by Postgres as 22P02.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrLeadNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return entity.ErrLeadNotFound
	}
	return err
}
