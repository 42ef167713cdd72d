// Package database opens the backing stores a dataset snapshot can live in.
package database

import (
	"context"
	"fmt"
	"time"

	apperrors "dining-recommender/internal/common/errors"
)

// pingTimeout bounds every connectivity check.
const pingTimeout = 5 * time.Second

// verify runs ping under pingTimeout and reports failures as
// DATABASE_CONNECTION_FAILED.
func verify(ctx context.Context, store string, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := ping(ctx); err != nil {
		return apperrors.NewDatabaseConnectionFailedError(fmt.Errorf("%s ping failed: %w", store, err))
	}
	return nil
}
