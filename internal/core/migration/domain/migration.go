package domain

import (
	"context"
	"slices"
	"strings"
)

// RecordVersion is the format version written into new migration records.
const RecordVersion = "1"

// Migration is a persisted, immutable migration record.
type Migration struct {
	Version string     `json:"version"`
	ID      string     `json:"id"`
	Diff    SchemaDiff `json:"diff"`
}

// NewMigration creates a record for diff.
func NewMigration(id string, diff SchemaDiff) *Migration {
	return &Migration{Version: RecordVersion, ID: id, Diff: diff}
}

// CompareIDs orders migration ids: shorter ids first, then lexically. For the
// decimal ids kiln generates this is numeric order.
func CompareIDs(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortIDs sorts ids in apply order.
func SortIDs(ids []string) {
	slices.SortFunc(ids, CompareIDs)
}

// StepKind is the kind of a DDL step.
type StepKind string

const (
	// CreateTable creates a table.
	CreateTable StepKind = "create_table"
	// DropTable drops a table.
	DropTable StepKind = "drop_table"
	// AddColumn adds a column.
	AddColumn StepKind = "add_column"
	// DropColumn drops a column.
	DropColumn StepKind = "drop_column"
	// AlterColumnType changes a column's datatype.
	AlterColumnType StepKind = "alter_column_type"
	// SetNotNull adds a not-null constraint.
	SetNotNull StepKind = "set_not_null"
	// DropNotNull removes a not-null constraint.
	DropNotNull StepKind = "drop_not_null"
)

// Step is one compiled DDL statement.
type Step struct {
	Kind   StepKind
	Table  string
	Column string
	SQL    string
}

// MigrationPlan is the ordered list of statements for one migration.
type MigrationPlan struct {
	MigrationID string
	Steps       []Step
}

// Add appends a step. A step repeating the previous statement is dropped,
// which happens when one statement already covers both a type and a
// nullability change.
func (p *MigrationPlan) Add(step Step) {
	if n := len(p.Steps); n > 0 && p.Steps[n-1].SQL == step.SQL {
		return
	}
	p.Steps = append(p.Steps, step)
}

// SQL returns the statements of the plan in order.
func (p *MigrationPlan) SQL() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.SQL
	}
	return out
}

// IsEmpty reports whether the plan has no steps.
func (p *MigrationPlan) IsEmpty() bool { return len(p.Steps) == 0 }

// Introspector reads the live schema of a database.
type Introspector interface {
	// Introspect returns every user table with its columns.
	Introspect(ctx context.Context) (*Schema, error)
	// Dialect is the dialect the introspected types are spelled in.
	Dialect() Dialect
}

// Ledger tracks which migrations have been applied.
type Ledger interface {
	// Ensure creates the ledger tables if they do not exist.
	Ensure(ctx context.Context) error
	// Applied returns the applied migration ids in apply order.
	Applied(ctx context.Context) ([]string, error)
}

// Executor applies migrations.
type Executor interface {
	// Execute applies a single migration and records it in the ledger.
	Execute(ctx context.Context, migration *Migration) error
}
