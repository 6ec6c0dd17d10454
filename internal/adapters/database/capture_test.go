package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/adapters/database/sqlite"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/testutil"
)

func TestSQLAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	assert.Equal(t, domain.SQLite, db.GetDialect())
	require.NoError(t, db.Ping(ctx))

	_, err := db.Execute(ctx, "CREATE TABLE t (id integer)")
	require.NoError(t, err)

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Execute(ctx, "INSERT INTO t (id) VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.QueryRow(ctx, "SELECT count(*) FROM t").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSQLAdapterNotConnected(t *testing.T) {
	db, err := sqlite.NewSQLiteAdapter(database.DefaultConfig(domain.SQLite, ":memory:"))
	require.NoError(t, err)

	_, err = db.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, database.ErrNotConnected)
	_, err = db.Begin(context.Background())
	assert.ErrorIs(t, err, database.ErrNotConnected)
}

func TestCaptureAdapterRecordsWritesOnly(t *testing.T) {
	ctx := context.Background()
	live := testutil.OpenSQLite(t)
	before := len(testutil.TableNames(t, live))

	capture := database.NewCaptureAdapter(live, func(q string) bool {
		return strings.Contains(q, "ledger")
	})

	_, err := capture.Execute(ctx, "CREATE TABLE a (id integer)")
	require.NoError(t, err)

	tx, err := capture.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Execute(ctx, "CREATE TABLE b (id integer)")
	require.NoError(t, err)
	_, err = tx.Execute(ctx, "INSERT INTO ledger (id) VALUES ($1)", "1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, []string{"CREATE TABLE a (id integer)", "CREATE TABLE b (id integer)"}, capture.Statements())
	assert.Equal(t, before, len(testutil.TableNames(t, capture)), "reads go to the live database")
	assert.Equal(t, before, len(testutil.TableNames(t, live)), "nothing was executed")
	assert.Equal(t, domain.SQLite, capture.GetDialect())
}

func TestCaptureAdapterResultIsEmpty(t *testing.T) {
	capture := database.NewCaptureAdapter(testutil.OpenSQLite(t), nil)

	res, err := capture.Execute(context.Background(), "DROP TABLE anything")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Zero(t, n)
}
