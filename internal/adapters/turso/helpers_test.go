package turso

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/enrollwatch/internal/migrate"
)

var testDBSeq atomic.Int64

// testDB creates an in-memory SQLite database with all migrations applied.
// Each call gets its own named database so tests do not share state through
// the shared cache.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:turso_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := migrate.RunAll(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}
