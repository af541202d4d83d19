package sqlite

import "database/sql"

// EnsureSchema creates the tables if they do not exist. The postgres schema is
// managed by deployment migrations; SQLite is the local/dev driver and owns
// its own bootstrap.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            user_id TEXT PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            display_name TEXT,
            creation_time TIMESTAMP NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS saved_searches (
            search_id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL REFERENCES users(user_id),
            name TEXT NOT NULL,
            query TEXT NOT NULL,
            position INTEGER NOT NULL CHECK (position >= 0),
            creation_time TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS saved_searches_owner_position_idx
            ON saved_searches(owner_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
