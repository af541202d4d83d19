package postgres

import (
	"database/sql"
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema applies the table definitions. Production deployments run this
// through migrations; tests and local setups call it directly.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
