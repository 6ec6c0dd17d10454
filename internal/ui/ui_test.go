package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

func sampleDiff() domain.SchemaDiff {
	diff := domain.NewSchemaDiff()
	diff.AddedTables = []domain.AddedTable{{
		Table: "members",
		Columns: domain.Columns{
			{Name: "id", ColumnAttributes: domain.ColumnAttributes{Type: "uuid", NotNull: true, PrimaryKey: true}},
		},
	}}
	diff.RemovedTables = []string{"legacy"}
	diff.ChangedTables = []domain.ChangedTable{{
		Table:          "posts",
		AddedColumns:   []domain.ColumnChange{{Column: "title", Attributes: domain.ColumnAttributes{Type: "text"}}},
		RemovedColumns: []domain.ColumnChange{{Column: "draft", Attributes: domain.ColumnAttributes{Type: "boolean"}}},
		ChangedColumns: []domain.ColumnDelta{{
			Column: "body",
			Before: domain.ColumnAttributes{Type: "text"},
			After:  domain.ColumnAttributes{Type: "text", NotNull: true},
		}},
	}}
	return diff
}

func TestRenderDiff(t *testing.T) {
	want := `-- create_table: members
   -> column: id ({"type":"uuid","notNull":true,"primaryKey":true,"unique":false})
-- remove_table: legacy
-- add_column: posts.title
   -> to: {"type":"text","notNull":false,"primaryKey":false,"unique":false}
-- remove_column: posts.draft
-- change_column: posts.body
   -> from: {"type":"text","notNull":false,"primaryKey":false,"unique":false}
   -> to:   {"type":"text","notNull":true,"primaryKey":false,"unique":false}
`
	assert.Equal(t, want, RenderDiff(sampleDiff()))
	assert.Empty(t, RenderDiff(domain.NewSchemaDiff()))
}

func TestPrintDiffWritesToOutput(t *testing.T) {
	prevNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prevNoColor })

	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	PrintDiff(sampleDiff())
	assert.Equal(t, RenderDiff(sampleDiff()), buf.String())
}

func TestMigrationMarkdown(t *testing.T) {
	m := domain.NewMigration("1700000000000", sampleDiff())

	md := MigrationMarkdown(m, []string{`DROP TABLE "legacy"`})
	assert.Contains(t, md, "# Migration 1700000000000")
	assert.Contains(t, md, "-- remove_table: legacy")
	assert.Contains(t, md, "```sql\nDROP TABLE \"legacy\";\n```")

	empty := MigrationMarkdown(domain.NewMigration("1", domain.NewSchemaDiff()), nil)
	assert.Contains(t, empty, "_No changes._")
	assert.NotContains(t, empty, "## SQL")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	err := PrintTable([]string{"Migration", "State"}, [][]string{{"1700000000000", "pending"}})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "1700000000000")
	assert.Contains(t, buf.String(), "pending")
}
