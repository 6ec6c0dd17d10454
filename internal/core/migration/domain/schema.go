// Package domain contains the core entities and ports of the migration engine.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/datatype"
)

// ColumnAttributes describes a single column.
type ColumnAttributes struct {
	Type       string `json:"type"`
	NotNull    bool   `json:"notNull"`
	PrimaryKey bool   `json:"primaryKey"`
	Unique     bool   `json:"unique"`
	DefaultSQL string `json:"defaultSql,omitempty"`
	CheckSQL   string `json:"checkSql,omitempty"`
}

// Column is a named column.
type Column struct {
	Name string
	ColumnAttributes
}

// Columns is an ordered set of columns. It is encoded as a JSON object keyed
// by column name, keeping declaration order in both directions.
type Columns []Column

// Get returns the column with the given name.
func (c Columns) Get(name string) (Column, bool) {
	for _, col := range c {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// MarshalJSON implements json.Marshaler.
func (c Columns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Name)
		if err != nil {
			return nil, err
		}
		attrs, err := json.Marshal(col.ColumnAttributes)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(attrs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Columns) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("columns: expected object, got %v", tok)
	}

	out := Columns{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		if seen[name] {
			return fmt.Errorf("columns: duplicate column %q", name)
		}
		seen[name] = true

		var attrs ColumnAttributes
		if err := dec.Decode(&attrs); err != nil {
			return fmt.Errorf("columns: column %q: %w", name, err)
		}
		out = append(out, Column{Name: name, ColumnAttributes: attrs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

// Table is a named table with its columns.
type Table struct {
	Name    string
	Columns Columns
}

// Schema is a snapshot of a set of tables, either declared or introspected.
type Schema struct {
	Tables []Table
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns the table names in order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// NormalizeSchema returns a copy of s with datatypes in the canonical form
// dialect reports them in and primary key columns marked not null, so a
// declared schema compares equal to its introspected counterpart.
func NormalizeSchema(dialect Dialect, s Schema) Schema {
	out := Schema{Tables: make([]Table, 0, len(s.Tables))}
	for _, t := range s.Tables {
		cols := make(Columns, 0, len(t.Columns))
		for _, col := range t.Columns {
			col.Type = CanonicalType(dialect, col.Type)
			if col.PrimaryKey {
				col.NotNull = true
			}
			cols = append(cols, col)
		}
		out.Tables = append(out.Tables, Table{Name: t.Name, Columns: cols})
	}
	return out
}

// CanonicalType spells raw the way dialect stores it. Implicit defaults are
// made explicit (char length 1, MySQL decimal(10,0)) or dropped when the
// database reports them anyway (fractional second precision).
func CanonicalType(dialect Dialect, raw string) string {
	dt, err := datatype.Parse(raw)
	if err != nil {
		return datatype.Normalize(raw)
	}

	switch dialect {
	case Postgres, CockroachDB:
		switch dt.Name {
		case "char":
			dt.Args = defaultArgs(dt.Args, 1)
		case "numeric":
			if len(dt.Args) == 1 {
				dt.Args = []int{dt.Args[0], 0}
			}
		case "time", "timetz", "timestamp", "timestamptz":
			dt.Args = dropDefault(dt.Args, 6)
		}
		// INT is INT8 and JSON is JSONB on CockroachDB.
		if dialect == CockroachDB {
			switch dt.Name {
			case "integer":
				dt.Name = "bigint"
			case "json":
				dt.Name = "jsonb"
			}
		}
	case MySQL:
		switch dt.Name {
		case "char":
			dt.Args = defaultArgs(dt.Args, 1)
		case "numeric":
			switch len(dt.Args) {
			case 0:
				dt.Args = []int{10, 0}
			case 1:
				dt.Args = []int{dt.Args[0], 0}
			}
		case "time", "datetime", "timestamp":
			dt.Args = dropDefault(dt.Args, 0)
		}
	}
	return dt.String()
}

func defaultArgs(args []int, def ...int) []int {
	if len(args) == 0 {
		return def
	}
	return args
}

func dropDefault(args []int, def int) []int {
	if len(args) == 1 && args[0] == def {
		return nil
	}
	return args
}
