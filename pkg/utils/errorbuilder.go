package utils

import (
	"context"
	"errors"
	"fmt"
	"lightwatch/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// WrapStoreError tags a persistence failure with op so the caller can log it
// with enough context to find the backend at fault.
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}

	// Context errors
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.New(apperror.RequestTimeout, op, err).
			WithMessage("store cancelled or timed out")
	}

	// postgres errors
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperror.New(apperror.Dependency, op, err).
			WithMessage(fmt.Sprintf("postgres error %s on %s", pgErr.Code, pgErr.TableName))
	}

	return apperror.New(apperror.Dependency, op, err).WithMessage("store unavailable")
}
