package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hadir-app/hadir-backend/internal/pkg/database"
)

// TestDatabaseSetup holds a connection to the integration database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. ok is
// false when the variable is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, true, err
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateAllTables removes all data between tests
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"notifications",
		"logbooks",
		"leaves",
		"attendances",
		"app_settings",
		"office_networks",
		"refresh_tokens",
		"users",
		"divisions",
	}

	_, err := t.DB.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
