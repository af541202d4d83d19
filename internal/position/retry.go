package position

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/searchrail/searchrail/internal/model"
)

// DefaultMaxAttempts bounds the retry loop when callers pass 0.
const DefaultMaxAttempts = 5

// RunInTx runs fn inside a transaction opened with the dialect's options.
// The whole transaction is retried when the dialect reports an isolation
// conflict, with small jittered backoff between attempts; any other error
// rolls back and is returned as-is. When the budget is exhausted the last
// conflict is wrapped in model.ErrConflictRetryExhausted. Partial work is
// never left committed: the transaction boundary is the unit of atomicity.
func RunInTx(ctx context.Context, db *sql.DB, d Dialect, maxAttempts int, fn func(tx *sql.Tx) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return err
			}
		}
		tx, err := db.BeginTx(ctx, d.TxOptions())
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			if d.IsRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			// Serialization failures can surface at commit time.
			if d.IsRetryable(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w after %d attempts: %v", model.ErrConflictRetryExhausted, maxAttempts, lastErr)
}

func sleepBackoff(ctx context.Context, attempt int) error {
	base := time.Duration(attempt-1) * 20 * time.Millisecond
	jitter := time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	t := time.NewTimer(base + jitter)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
