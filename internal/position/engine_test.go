package position_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/position"
	"github.com/searchrail/searchrail/internal/store/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.EnsureSchema(db))
	return db
}

func newOwner(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := "u-" + uuid.New().String()
	_, err := db.Exec(`INSERT INTO users (user_id, email, creation_time) VALUES (?,?,?)`,
		id, id+"@example.test", time.Now().UTC())
	require.NoError(t, err)
	return id
}

func appendN(t *testing.T, db *sql.DB, eng *position.Engine, d position.Dialect, owner string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s := &model.SavedSearch{SearchID: uuid.New().String(), OwnerID: owner, Name: "n", Query: "q"}
		err := position.RunInTx(context.Background(), db, d, 0, func(tx *sql.Tx) error {
			return eng.Append(context.Background(), tx, s)
		})
		require.NoError(t, err)
		require.Equal(t, i, s.Position)
		ids = append(ids, s.SearchID)
	}
	return ids
}

func positionsByID(t *testing.T, db *sql.DB, owner string) map[string]int {
	t.Helper()
	rows, err := db.Query(`SELECT search_id, position FROM saved_searches WHERE owner_id = ?`, owner)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	out := map[string]int{}
	for rows.Next() {
		var id string
		var p int
		require.NoError(t, rows.Scan(&id, &p))
		out[id] = p
	}
	require.NoError(t, rows.Err())
	return out
}

func TestEngine_AppendAssignsDensePositions(t *testing.T) {
	db := newTestDB(t)
	d := position.Sqlite()
	eng := position.NewEngine(d)
	owner := newOwner(t, db)

	ids := appendN(t, db, eng, d, owner, 4)
	got := positionsByID(t, db, owner)
	for i, id := range ids {
		assert.Equal(t, i, got[id])
	}
}

func TestEngine_MoveSamePositionSkipsShift(t *testing.T) {
	db := newTestDB(t)
	d := position.Sqlite()
	eng := position.NewEngine(d)
	owner := newOwner(t, db)
	ids := appendN(t, db, eng, d, owner, 3)

	before := positionsByID(t, db, owner)
	var out *model.SavedSearch
	err := position.RunInTx(context.Background(), db, d, 0, func(tx *sql.Tx) error {
		var err error
		name := "kept-in-place"
		out, err = eng.Move(context.Background(), tx, position.MoveRequest{
			OwnerID: owner, SearchID: ids[1], Position: intp(1), Name: &name,
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "kept-in-place", out.Name)
	assert.Equal(t, 1, out.Position)
	assert.Equal(t, before, positionsByID(t, db, owner))
}

func TestEngine_MoveOutOfRangeWritesNothing(t *testing.T) {
	db := newTestDB(t)
	d := position.Sqlite()
	eng := position.NewEngine(d)
	owner := newOwner(t, db)
	ids := appendN(t, db, eng, d, owner, 3)

	before := positionsByID(t, db, owner)
	err := position.RunInTx(context.Background(), db, d, 0, func(tx *sql.Tx) error {
		_, err := eng.Move(context.Background(), tx, position.MoveRequest{
			OwnerID: owner, SearchID: ids[0], Position: intp(3),
		})
		return err
	})
	require.ErrorIs(t, err, model.ErrInvalidPosition)
	assert.Equal(t, before, positionsByID(t, db, owner))
}

func TestEngine_RemoveMissingRecord(t *testing.T) {
	db := newTestDB(t)
	d := position.Sqlite()
	eng := position.NewEngine(d)
	owner := newOwner(t, db)

	err := position.RunInTx(context.Background(), db, d, 0, func(tx *sql.Tx) error {
		return eng.Remove(context.Background(), tx, owner, uuid.New().String())
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}

// A failure after the shift must roll the whole transaction back; the partial
// renumbering is never visible.
func TestEngine_RollbackHidesPartialShift(t *testing.T) {
	db := newTestDB(t)
	d := position.Sqlite()
	eng := position.NewEngine(d)
	owner := newOwner(t, db)
	ids := appendN(t, db, eng, d, owner, 4)

	before := positionsByID(t, db, owner)
	boom := errors.New("boom")
	err := position.RunInTx(context.Background(), db, d, 0, func(tx *sql.Tx) error {
		if err := eng.Remove(context.Background(), tx, owner, ids[1]); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, positionsByID(t, db, owner))
}

func intp(v int) *int { return &v }
