// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movies-api/internal/database"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the
// test ends.
func NewDB(t testing.TB) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, database.Options{Dialect: database.SQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := database.NewMigrator(db)
	require.NoError(t, err)
	_, err = m.Up(ctx)
	require.NoError(t, err)
	return db
}
