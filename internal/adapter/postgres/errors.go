package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors. Failures to reach
// the server become domain.ErrLookupUnavailable, and so do query errors
// that no row can fix: a missing relation or column, an unknown catalog or
// schema, or rejected credentials.
// context.DeadlineExceeded and context.Canceled pass through unmapped.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %q: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23514", strings.HasPrefix(pgErr.Code, "22"): // check_violation, data exceptions
			return fmt.Errorf("%s %q: %w", entity, key, domain.ErrValidation)
		case unavailableCode(pgErr.Code):
			return fmt.Errorf("%s %q: %w: %w", entity, key, domain.ErrLookupUnavailable, err)
		}
		return fmt.Errorf("%s %q: %w", entity, key, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%s %q: %w: %w", entity, key, domain.ErrLookupUnavailable, err)
	}

	return fmt.Errorf("%s %q: %w", entity, key, err)
}

// unavailableCode reports whether a SQLSTATE means the server cannot answer
// any lookup: connection loss, shutdown, or a schema or login that is wrong
// for every query.
func unavailableCode(code string) bool {
	switch code {
	case "53300", // too_many_connections
		"57P01", "57P02", "57P03": // shutdown, cannot_connect_now
		return true
	}
	switch code[:min(2, len(code))] {
	case "08", // connection exception
		"28", // invalid authorization
		"3D", // invalid catalog name
		"3F", // invalid schema name
		"42": // syntax error or access rule violation
		return true
	}
	return false
}
