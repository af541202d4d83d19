package postgres

import (
	"os"
	"testing"

	"github.com/searchrail/searchrail/internal/store"
	"github.com/searchrail/searchrail/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("SEARCH_SERVICE_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SEARCH_SERVICE_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return NewWithDB(db, 0)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
