package position

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite "modernc.org/sqlite"
)

// Dialect abstracts the driver differences the engine cares about: placeholder
// style, the transaction isolation needed to keep per-owner orderings
// serializable, and which failures are worth retrying.
type Dialect interface {
	Name() string
	// Rebind translates '?' placeholders into the driver's native form.
	Rebind(query string) string
	// TxOptions returns the options every engine transaction must run under.
	TxOptions() *sql.TxOptions
	// IsRetryable reports whether err is an isolation conflict that a fresh
	// attempt of the whole transaction may resolve.
	IsRetryable(err error) bool
}

// Postgres returns the dialect for the pgx stdlib driver. Engine transactions
// run serializable; 40001 (serialization_failure) and 40P01 (deadlock_detected)
// are retried, as is 23505 (unique_violation): with the deferred
// (owner_id, position) constraint the losing side of a concurrent append
// fails its constraint recheck during commit, before the serialization check
// runs, so the conflict surfaces as a unique violation. Re-running the whole
// transaction from a fresh snapshot resolves it.
func Postgres() Dialect { return pgDialect{} }

type pgDialect struct{}

func (pgDialect) Name() string { return "postgres" }

func (pgDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (pgDialect) TxOptions() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

func (pgDialect) IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01" || pgErr.Code == "23505"
	}
	return false
}

// Sqlite returns the dialect for modernc.org/sqlite. SQLite serializes writers
// itself, so default isolation suffices; busy/locked errors are retried.
func Sqlite() Dialect { return sqliteDialect{} }

type sqliteDialect struct{}

const (
	sqliteBusy   = 5 // SQLITE_BUSY
	sqliteLocked = 6 // SQLITE_LOCKED
)

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) TxOptions() *sql.TxOptions { return nil }

func (sqliteDialect) IsRetryable(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqliteBusy || code == sqliteLocked
	}
	// The driver occasionally surfaces lock contention as a plain error.
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
