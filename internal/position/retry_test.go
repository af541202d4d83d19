package position_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/position"
	"github.com/searchrail/searchrail/internal/store/sqlite"
)

// conflictDialect treats the given sentinel as a retryable isolation conflict.
type conflictDialect struct {
	position.Dialect
	sentinel error
}

func (d conflictDialect) IsRetryable(err error) bool { return errors.Is(err, d.sentinel) }

func newRetryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "retry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunInTx_RetriesThenSucceeds(t *testing.T) {
	db := newRetryDB(t)
	conflict := errors.New("simulated conflict")
	d := conflictDialect{Dialect: position.Sqlite(), sentinel: conflict}

	attempts := 0
	err := position.RunInTx(context.Background(), db, d, 5, func(tx *sql.Tx) error {
		attempts++
		if attempts < 3 {
			return conflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

// pgRetryDialect runs transactions on the sqlite test database but classifies
// errors the way the postgres dialect does, so the retry loop can be driven
// with real postgres error codes.
type pgRetryDialect struct{ position.Dialect }

func (pgRetryDialect) IsRetryable(err error) bool { return position.Postgres().IsRetryable(err) }

func TestRunInTx_RetriesDeferredUniqueViolation(t *testing.T) {
	db := newRetryDB(t)
	d := pgRetryDialect{Dialect: position.Sqlite()}

	// The losing side of a concurrent append fails its deferred
	// (owner_id, position) recheck at commit with a unique violation; a fresh
	// attempt sees the winner's row and must succeed.
	attempts := 0
	err := position.RunInTx(context.Background(), db, d, 5, func(tx *sql.Tx) error {
		attempts++
		if attempts == 1 {
			return &pgconn.PgError{Code: "23505", ConstraintName: "saved_searches_owner_id_position_key"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRunInTx_ExhaustionIsTyped(t *testing.T) {
	db := newRetryDB(t)
	conflict := errors.New("simulated conflict")
	d := conflictDialect{Dialect: position.Sqlite(), sentinel: conflict}

	attempts := 0
	err := position.RunInTx(context.Background(), db, d, 3, func(tx *sql.Tx) error {
		attempts++
		return conflict
	})
	require.ErrorIs(t, err, model.ErrConflictRetryExhausted)
	assert.Equal(t, 3, attempts)
}

func TestRunInTx_NonRetryableReturnsAsIs(t *testing.T) {
	db := newRetryDB(t)
	d := position.Sqlite()
	boom := errors.New("boom")

	attempts := 0
	err := position.RunInTx(context.Background(), db, d, 5, func(tx *sql.Tx) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}
