package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mlevkov/faqpress-backend/internal/domain"
)

// Postgres error codes the repositories care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// MapError translates pgx/pgconn errors into domain errors at the adapter
// boundary. The key is whatever identifies the row in the caller's terms
// (a slug or a UUID string). context.DeadlineExceeded and context.Canceled
// are wrapped but not translated.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	wrap := func(target error) error {
		return fmt.Errorf("%s %s: %w", entity, key, target)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrap(err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return wrap(domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return wrap(domain.ErrAlreadyExists)
		case codeForeignKeyViolation:
			return wrap(domain.ErrNotFound)
		case codeCheckViolation:
			return wrap(domain.ErrValidation)
		}
	}

	return wrap(err)
}
