package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes that a retry may resolve.
var transientCodes = map[string]bool{
	"55P03": true, // lock_not_available (lock_timeout)
	"57014": true, // query_canceled (statement_timeout)
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// classify maps store errors onto domain errors. notFound replaces
// gorm.ErrRecordNotFound when non-nil.
func classify(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return domain.Transient(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if transientCodes[pgErr.Code] || strings.HasPrefix(pgErr.Code, "08") {
			return domain.Transient(err)
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return domain.Transient(err)
	}
	return err
}
