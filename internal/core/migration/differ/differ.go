// Package differ computes the difference between a current and an ideal schema.
package differ

import (
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// SchemaDiffer compares schema snapshots.
type SchemaDiffer struct{}

// NewSchemaDiffer creates a new schema differ.
func NewSchemaDiffer() *SchemaDiffer {
	return &SchemaDiffer{}
}

// Diff is shorthand for NewSchemaDiffer().Diff.
func Diff(current, ideal domain.Schema) domain.SchemaDiff {
	return NewSchemaDiffer().Diff(current, ideal)
}

// Diff returns the changes that turn current into ideal.
//
// Tables and columns are matched by name. A column counts as changed only when
// its type or not-null flag differs; primary key and unique changes are not
// detected. Added entries follow the order of ideal, removed and changed
// entries follow the order of current.
func (d *SchemaDiffer) Diff(current, ideal domain.Schema) domain.SchemaDiff {
	diff := domain.NewSchemaDiff()

	currentTables := indexTables(current)
	idealTables := indexTables(ideal)

	for _, table := range ideal.Tables {
		if _, exists := currentTables[table.Name]; !exists {
			diff.AddedTables = append(diff.AddedTables, domain.AddedTable{
				Table:   table.Name,
				Columns: append(domain.Columns{}, table.Columns...),
			})
		}
	}

	for _, table := range current.Tables {
		if _, exists := idealTables[table.Name]; !exists {
			diff.RemovedTables = append(diff.RemovedTables, table.Name)
		}
	}

	for _, from := range current.Tables {
		to, exists := idealTables[from.Name]
		if !exists {
			continue
		}
		if changed := d.diffColumns(from, to); !changed.IsEmpty() {
			diff.ChangedTables = append(diff.ChangedTables, changed)
		}
	}

	return diff
}

// diffColumns compares the columns of a table present on both sides.
func (d *SchemaDiffer) diffColumns(from, to domain.Table) domain.ChangedTable {
	changed := domain.ChangedTable{
		Table:          from.Name,
		AddedColumns:   []domain.ColumnChange{},
		RemovedColumns: []domain.ColumnChange{},
		ChangedColumns: []domain.ColumnDelta{},
	}

	fromColumns := indexColumns(from.Columns)
	toColumns := indexColumns(to.Columns)

	for _, col := range to.Columns {
		if _, exists := fromColumns[col.Name]; !exists {
			changed.AddedColumns = append(changed.AddedColumns, domain.ColumnChange{
				Column:     col.Name,
				Attributes: col.ColumnAttributes,
			})
		}
	}

	for _, col := range from.Columns {
		after, exists := toColumns[col.Name]
		if !exists {
			changed.RemovedColumns = append(changed.RemovedColumns, domain.ColumnChange{
				Column:     col.Name,
				Attributes: col.ColumnAttributes,
			})
			continue
		}
		if col.Type != after.Type || col.NotNull != after.NotNull {
			changed.ChangedColumns = append(changed.ChangedColumns, domain.ColumnDelta{
				Column: col.Name,
				Before: col.ColumnAttributes,
				After:  after.ColumnAttributes,
			})
		}
	}

	return changed
}

func indexTables(s domain.Schema) map[string]domain.Table {
	m := make(map[string]domain.Table, len(s.Tables))
	for _, t := range s.Tables {
		m[t.Name] = t
	}
	return m
}

func indexColumns(cols domain.Columns) map[string]domain.Column {
	m := make(map[string]domain.Column, len(cols))
	for _, c := range cols {
		m[c.Name] = c
	}
	return m
}
