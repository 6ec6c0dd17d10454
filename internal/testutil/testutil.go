// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/adapters/database/sqlite"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// SQLiteURL returns a shared-cache in-memory database URL unique to t.
func SQLiteURL(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

// OpenSQLite connects an in-memory SQLite adapter that is closed when the
// test ends.
func OpenSQLite(t *testing.T) database.Adapter {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewSQLiteAdapter(database.DefaultConfig(domain.SQLite, SQLiteURL(t)))
	require.NoError(t, err)
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { _ = db.Disconnect(ctx) })
	return db
}

// Exec runs statements on db, failing the test on the first error.
func Exec(t *testing.T, db database.Execer, statements ...string) {
	t.Helper()
	for _, s := range statements {
		_, err := db.Execute(context.Background(), s)
		require.NoError(t, err, s)
	}
}

// TableNames lists the tables of a SQLite database, including internal ones
// such as the ledger.
func TableNames(t *testing.T, db database.Adapter) []string {
	t.Helper()
	rows, err := db.Query(context.Background(), "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}
