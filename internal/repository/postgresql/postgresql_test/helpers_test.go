package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/hadir-app/hadir-backend/internal/repository/postgresql"
)

// openDB skips the test when no integration database is configured.
func openDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)

	return setup.DB
}

func createUser(t *testing.T, db *database.DB, name string, role user.Role, supervisorID *string) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		Name:         name,
		Email:        name + "@example.com",
		Role:         role,
		SupervisorID: supervisorID,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
