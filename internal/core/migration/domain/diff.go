package domain

// SchemaDiff is the set of changes that turn a current schema into an ideal one.
type SchemaDiff struct {
	AddedTables   []AddedTable   `json:"addedTables"`
	RemovedTables []string       `json:"removedTables"`
	ChangedTables []ChangedTable `json:"changedTables"`
}

// AddedTable is a table present only in the ideal schema.
type AddedTable struct {
	Table   string  `json:"table"`
	Columns Columns `json:"columns"`
}

// ChangedTable holds the column level changes of a table present on both sides.
type ChangedTable struct {
	Table          string         `json:"table"`
	AddedColumns   []ColumnChange `json:"addedColumns"`
	RemovedColumns []ColumnChange `json:"removedColumns"`
	ChangedColumns []ColumnDelta  `json:"changedColumns"`
}

// IsEmpty reports whether the table has no column changes.
func (c ChangedTable) IsEmpty() bool {
	return len(c.AddedColumns) == 0 && len(c.RemovedColumns) == 0 && len(c.ChangedColumns) == 0
}

// ColumnChange is an added or removed column.
type ColumnChange struct {
	Column     string           `json:"column"`
	Attributes ColumnAttributes `json:"attributes"`
}

// ColumnDelta is a column whose type or nullability differs.
type ColumnDelta struct {
	Column string           `json:"column"`
	Before ColumnAttributes `json:"before"`
	After  ColumnAttributes `json:"after"`
}

// TypeChanged reports whether the datatype differs.
func (d ColumnDelta) TypeChanged() bool { return d.Before.Type != d.After.Type }

// NullabilityChanged reports whether the not-null flag differs.
func (d ColumnDelta) NullabilityChanged() bool { return d.Before.NotNull != d.After.NotNull }

// NewSchemaDiff returns a diff with empty, non-nil buckets.
func NewSchemaDiff() SchemaDiff {
	return SchemaDiff{
		AddedTables:   []AddedTable{},
		RemovedTables: []string{},
		ChangedTables: []ChangedTable{},
	}
}

// IsEmpty reports whether the diff contains no changes.
func (d SchemaDiff) IsEmpty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 && len(d.ChangedTables) == 0
}
