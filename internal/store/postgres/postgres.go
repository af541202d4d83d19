package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/searchrail/searchrail/internal/model"
	"github.com/searchrail/searchrail/internal/position"
	"github.com/searchrail/searchrail/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store. maxAttempts bounds the
// serialization-conflict retry loop (0 uses the engine default).
func NewWithDB(db *sql.DB, maxAttempts int) store.Store {
	d := position.Postgres()
	return &pgStore{db: db, d: d, eng: position.NewEngine(d), maxAttempts: maxAttempts}
}

type pgStore struct {
	db          *sql.DB
	d           position.Dialect
	eng         *position.Engine
	maxAttempts int
}

func (s *pgStore) Users() store.Users       { return &users{db: s.db} }
func (s *pgStore) Searches() store.Searches { return &searches{s} }

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// Schema setup is handled by deployment migrations.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, display_name)
        VALUES ($1,$2,$3)
        RETURNING creation_time
    `, m.UserID, m.Email, m.DisplayName)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.CreationTime = created
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, display_name, creation_time
        FROM users WHERE user_id=$1
    `, userID)
	if err := row.Scan(&out.UserID, &out.Email, &out.DisplayName, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// --- Searches ---
type searches struct{ s *pgStore }

func (r *searches) Create(ctx context.Context, m *model.SavedSearch) (*model.SavedSearch, error) {
	out := *m
	if out.SearchID == "" {
		out.SearchID = uuid.New().String()
	}
	err := position.RunInTx(ctx, r.s.db, r.s.d, r.s.maxAttempts, func(tx *sql.Tx) error {
		return r.s.eng.Append(ctx, tx, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *searches) ResolveOwner(ctx context.Context, searchID string) (string, error) {
	var owner string
	err := r.s.db.QueryRowContext(ctx, `
        SELECT owner_id FROM saved_searches WHERE search_id=$1
    `, searchID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}

func (r *searches) GetByID(ctx context.Context, ownerID, searchID string) (*model.SavedSearch, error) {
	out := model.SavedSearch{OwnerID: ownerID, SearchID: searchID}
	row := r.s.db.QueryRowContext(ctx, `
        SELECT name, query, position, creation_time
        FROM saved_searches WHERE owner_id=$1 AND search_id=$2
    `, ownerID, searchID)
	if err := row.Scan(&out.Name, &out.Query, &out.Position, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *searches) ListByOwner(ctx context.Context, ownerID string) ([]*model.SavedSearch, error) {
	rows, err := r.s.db.QueryContext(ctx, `
        SELECT search_id, name, query, position, creation_time
        FROM saved_searches WHERE owner_id=$1 ORDER BY position
    `, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.SavedSearch
	for rows.Next() {
		m := model.SavedSearch{OwnerID: ownerID}
		if err := rows.Scan(&m.SearchID, &m.Name, &m.Query, &m.Position, &m.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (r *searches) ListByOwners(ctx context.Context, ownerIDs []string) (map[string][]*model.SavedSearch, error) {
	out := make(map[string][]*model.SavedSearch, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	ph := make([]string, len(ownerIDs))
	args := make([]interface{}, len(ownerIDs))
	for i, id := range ownerIDs {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := r.s.db.QueryContext(ctx, `
        SELECT owner_id, search_id, name, query, position, creation_time
        FROM saved_searches WHERE owner_id IN (`+strings.Join(ph, ",")+`)
        ORDER BY owner_id, position
    `, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var m model.SavedSearch
		if err := rows.Scan(&m.OwnerID, &m.SearchID, &m.Name, &m.Query, &m.Position, &m.CreationTime); err != nil {
			return nil, err
		}
		out[m.OwnerID] = append(out[m.OwnerID], &m)
	}
	return out, rows.Err()
}

func (r *searches) Update(ctx context.Context, req model.UpdateSearchRequest) (*model.SavedSearch, error) {
	var out *model.SavedSearch
	err := position.RunInTx(ctx, r.s.db, r.s.d, r.s.maxAttempts, func(tx *sql.Tx) error {
		var err error
		out, err = r.s.eng.Move(ctx, tx, position.MoveRequest{
			OwnerID:  req.OwnerID,
			SearchID: req.SearchID,
			Name:     req.Name,
			Query:    req.Query,
			Position: req.Position,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *searches) Delete(ctx context.Context, ownerID, searchID string) error {
	return position.RunInTx(ctx, r.s.db, r.s.d, r.s.maxAttempts, func(tx *sql.Tx) error {
		return r.s.eng.Remove(ctx, tx, ownerID, searchID)
	})
}
