package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"comptoir/internal/infrastructure/mysql"
)

// SetupTestDB opens the integration test database. Tests skip when no
// MySQL instance is reachable, so the suite stays runnable offline.
// Override the DSN with COMPTOIR_TEST_DSN; the database must exist.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("COMPTOIR_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/comptoir_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to prepare test schema: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}

	tables := []string{
		"document_items", "documents", "customer_attachments", "customers",
		"products", "services", "suppliers", "personnel", "expenses",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
