package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/kiln/internal/adapters/storage"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func sampleDiff() domain.SchemaDiff {
	diff := domain.NewSchemaDiff()
	diff.AddedTables = []domain.AddedTable{{
		Table: "members",
		Columns: domain.Columns{
			{Name: "id", ColumnAttributes: domain.ColumnAttributes{Type: "uuid", NotNull: true, PrimaryKey: true}},
			{Name: "name", ColumnAttributes: domain.ColumnAttributes{Type: "text"}},
		},
	}}
	return diff
}

func TestFindAllMissingDirectory(t *testing.T) {
	repo := NewMigrationRepository(storage.NewMemoryStorage(), "migrations")

	migrations, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestSaveAndFindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewMigrationRepository(storage.NewMemoryStorage(), "migrations")

	path, err := repo.Save(ctx, domain.NewMigration("1700000000002", domain.NewSchemaDiff()))
	require.NoError(t, err)
	assert.Equal(t, "migrations/1700000000002.json", path)

	_, err = repo.Save(ctx, domain.NewMigration("1700000000001", sampleDiff()))
	require.NoError(t, err)

	migrations, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "1700000000001", migrations[0].ID)
	assert.Equal(t, "1700000000002", migrations[1].ID)
	assert.Equal(t, domain.RecordVersion, migrations[0].Version)
	assert.Equal(t, []string{"id", "name"}, migrations[0].Diff.AddedTables[0].Columns.Names())
}

func TestSaveNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMigrationRepository(storage.NewMemoryStorage(), "migrations")

	_, err := repo.Save(ctx, domain.NewMigration("1", sampleDiff()))
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.NewMigration("1", domain.NewSchemaDiff()))
	assert.ErrorIs(t, err, domain.ErrMigrationExists)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMigrationRepository(storage.NewMemoryStorage(), "migrations")
	_, err := repo.Save(ctx, domain.NewMigration("42", sampleDiff()))
	require.NoError(t, err)

	m, err := repo.FindByID(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "members", m.Diff.AddedTables[0].Table)

	_, err = repo.FindByID(ctx, "43")
	assert.ErrorIs(t, err, domain.ErrMigrationNotFound)
}

func TestNextIDUsesClock(t *testing.T) {
	repo := NewMigrationRepository(storage.NewMemoryStorage(), "migrations", WithClock(fixedClock(1700000000000)))

	id, err := repo.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", id)
}

func TestNextIDIsMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := NewMigrationRepository(storage.NewMemoryStorage(), "migrations", WithClock(fixedClock(1700000000000)))

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := repo.NextID(ctx)
		require.NoError(t, err)
		_, err = repo.Save(ctx, domain.NewMigration(id, domain.NewSchemaDiff()))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"1700000000000", "1700000000001", "1700000000002"}, ids)
}

func TestFindAllRejectsMalformedAndForeignRecords(t *testing.T) {
	tests := map[string]string{
		"garbage":       `not json`,
		"future format": `{"version":"2","id":"1","diff":{"addedTables":[],"removedTables":[],"changedTables":[]}}`,
		"bad version":   `{"version":"v-one","id":"1","diff":{}}`,
		"id mismatch":   `{"version":"1","id":"2","diff":{}}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStorage()
			require.NoError(t, store.Create(ctx, "migrations/1.json", []byte(content)))

			_, err := NewMigrationRepository(store, "migrations").FindAll(ctx)
			assert.Error(t, err)
		})
	}
}

func TestFindAllIgnoresOtherFiles(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Create(ctx, "migrations/README.md", []byte("notes")))

	migrations, err := NewMigrationRepository(store, "migrations").FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
