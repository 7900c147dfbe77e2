package database

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
)

// IsDeadlock reports lock wait timeouts and deadlocks from either driver.
func IsDeadlock(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40P01" || pqErr.Code == "40001"
	}
	return false
}

var backoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// RetryOnDeadlock runs fn up to attempts times while it keeps failing with a
// deadlock. Any other error is returned immediately.
func RetryOnDeadlock(ctx context.Context, attempts int, logger *zap.Logger, fn func(ctx context.Context) error) error {
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsDeadlock(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		base := backoffs[min(attempt-1, len(backoffs)-1)]
		jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
		logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", attempts))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(base + jitter):
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}
