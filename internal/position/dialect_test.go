package position

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresRebind(t *testing.T) {
	d := Postgres()
	assert.Equal(t,
		"SELECT position FROM saved_searches WHERE owner_id = $1 AND search_id = $2",
		d.Rebind("SELECT position FROM saved_searches WHERE owner_id = ? AND search_id = ?"))
	assert.Equal(t, "SELECT 1", d.Rebind("SELECT 1"))
}

func TestPostgresTxOptionsSerializable(t *testing.T) {
	assert.Equal(t, sql.LevelSerializable, Postgres().TxOptions().Isolation)
}

func TestPostgresRetryableCodes(t *testing.T) {
	d := Postgres()

	// Serialization failure and deadlock, plus the commit-time unique
	// violation from the deferred (owner_id, position) constraint when two
	// appends race: the loser's recheck fires before the serialization check,
	// so the conflict arrives as 23505 and must be retried like the others.
	for _, code := range []string{"40001", "40P01", "23505"} {
		err := &pgconn.PgError{Code: code}
		assert.True(t, d.IsRetryable(err), "code %s must be retryable", code)
		assert.True(t, d.IsRetryable(fmt.Errorf("commit tx: %w", err)),
			"wrapped code %s must be retryable", code)
	}

	assert.False(t, d.IsRetryable(&pgconn.PgError{Code: "23503"}))
	assert.False(t, d.IsRetryable(errors.New("connection refused")))
}

func TestSqliteRebindIsIdentity(t *testing.T) {
	q := "UPDATE saved_searches SET position = position - 1 WHERE owner_id = ?"
	assert.Equal(t, q, Sqlite().Rebind(q))
}
