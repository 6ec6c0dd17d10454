package executor

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/core/migration/history"
	"github.com/satishbabariya/kiln/internal/core/migration/sqlgen"
	"github.com/satishbabariya/kiln/internal/testutil"
)

var discard = slog.New(slog.DiscardHandler)

func newExecutor(db database.Adapter) (*MigrationExecutor, *history.Ledger) {
	ledger := history.NewLedger(db)
	return NewMigrationExecutor(db, sqlgen.NewSQLiteCompiler(), ledger, discard), ledger
}

func createMembers() *domain.Migration {
	diff := domain.NewSchemaDiff()
	diff.AddedTables = []domain.AddedTable{{
		Table: "members",
		Columns: domain.Columns{
			{Name: "id", ColumnAttributes: domain.ColumnAttributes{Type: "uuid", NotNull: true, PrimaryKey: true}},
			{Name: "name", ColumnAttributes: domain.ColumnAttributes{Type: "text"}},
		},
	}}
	return domain.NewMigration("1700000000001", diff)
}

func TestExecuteAppliesAndRecords(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	exec, ledger := newExecutor(db)
	require.NoError(t, ledger.Ensure(ctx))

	require.NoError(t, exec.Execute(ctx, createMembers()))

	assert.Contains(t, testutil.TableNames(t, db), "members")
	applied, err := ledger.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1700000000001"}, applied)
}

func TestExecuteRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	exec, ledger := newExecutor(db)
	require.NoError(t, ledger.Ensure(ctx))

	m := createMembers()
	m.Diff.RemovedTables = []string{"does_not_exist"}

	err := exec.Execute(ctx, m)
	require.Error(t, err)

	var migErr *domain.MigrationError
	require.True(t, errors.As(err, &migErr))
	assert.Equal(t, m.ID, migErr.ID)
	assert.Equal(t, `DROP TABLE "does_not_exist"`, migErr.Statement)

	assert.NotContains(t, testutil.TableNames(t, db), "members", "create table was rolled back")
	applied, err := ledger.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestExecuteRejectsUnsupportedTypeBeforeAnyDDL(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	capture := database.NewCaptureAdapter(db, nil)
	exec, _ := newExecutor(capture)

	m := createMembers()
	m.Diff.AddedTables = append(m.Diff.AddedTables, domain.AddedTable{
		Table:   "broken",
		Columns: domain.Columns{{Name: "doc", ColumnAttributes: domain.ColumnAttributes{Type: "jsonb"}}},
	})

	err := exec.Execute(ctx, m)
	assert.ErrorIs(t, err, domain.ErrUnsupportedDataType)
	assert.Empty(t, capture.Statements())
}

func TestExecuteInPlanModeCapturesWithoutMutation(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	capture := database.NewCaptureAdapter(db, history.IsLedgerStatement)
	exec, ledger := newExecutor(capture)
	require.NoError(t, ledger.Ensure(ctx))

	require.NoError(t, exec.Execute(ctx, createMembers()))

	assert.Equal(t, []string{
		"CREATE TABLE \"members\" (\n  \"id\" uuid NOT NULL PRIMARY KEY,\n  \"name\" text\n)",
	}, capture.Statements())
	assert.Empty(t, testutil.TableNames(t, db), "neither DDL nor ledger tables reached the database")
}

// autocommitCompiler renders SQLite DDL but reports that DDL commits
// implicitly, as MySQL does.
type autocommitCompiler struct {
	*sqlgen.SQLiteCompiler
}

func (autocommitCompiler) TransactionalDDL() bool { return false }

func newSequentialExecutor(db database.Adapter) (*MigrationExecutor, *history.Ledger) {
	ledger := history.NewLedger(db)
	return NewMigrationExecutor(db, autocommitCompiler{sqlgen.NewSQLiteCompiler()}, ledger, discard), ledger
}

func TestExecuteSequentiallyRecords(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	exec, ledger := newSequentialExecutor(db)
	require.NoError(t, ledger.Ensure(ctx))

	require.NoError(t, exec.Execute(ctx, createMembers()))

	assert.Contains(t, testutil.TableNames(t, db), "members")
	applied, err := ledger.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1700000000001"}, applied)
}

func TestExecuteSequentiallyKeepsEarlierStatements(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenSQLite(t)
	exec, ledger := newSequentialExecutor(db)
	require.NoError(t, ledger.Ensure(ctx))

	m := createMembers()
	m.Diff.AddedTables = append(m.Diff.AddedTables, domain.AddedTable{
		Table:   "teams",
		Columns: domain.Columns{{Name: "id", ColumnAttributes: domain.ColumnAttributes{Type: "integer"}}},
	})
	m.Diff.RemovedTables = []string{"does_not_exist"}

	err := exec.Execute(ctx, m)
	var migErr *domain.MigrationError
	require.True(t, errors.As(err, &migErr))
	assert.Equal(t, `DROP TABLE "does_not_exist"`, migErr.Statement)

	tables := testutil.TableNames(t, db)
	assert.Contains(t, tables, "members")
	assert.Contains(t, tables, "teams")
	applied, err := ledger.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
