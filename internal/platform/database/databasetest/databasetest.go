// Package databasetest opens throwaway SQLite databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsirionantsoa/taskhub/internal/platform/database"
)

// Open returns a migrated SQLite database in t.TempDir, closed on cleanup.
func Open(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "taskhub.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })
	return db
}
