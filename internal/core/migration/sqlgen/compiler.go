// Package sqlgen compiles schema changes into dialect specific DDL.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// Compiler builds DDL statements for one dialect. Every method validates the
// datatypes it renders, so a failing call never yields a statement.
type Compiler interface {
	// Dialect returns the dialect the compiler targets.
	Dialect() domain.Dialect
	// TransactionalDDL reports whether DDL can run inside a transaction.
	TransactionalDDL() bool
	// QuoteIdent quotes a table or column name.
	QuoteIdent(name string) string

	CreateTable(table string, columns domain.Columns) (string, error)
	DropTable(table string) string
	AddColumn(table string, column domain.Column) (string, error)
	DropColumn(table, column string) string
	AlterColumnType(table, column string, after domain.ColumnAttributes) (string, error)
	SetNotNull(table, column string, after domain.ColumnAttributes) (string, error)
	DropNotNull(table, column string, after domain.ColumnAttributes) (string, error)
}

// NewCompiler returns the compiler for dialect.
func NewCompiler(dialect domain.Dialect) (Compiler, error) {
	switch dialect {
	case domain.Postgres:
		return NewPostgresCompiler(), nil
	case domain.CockroachDB:
		return NewCockroachDBCompiler(), nil
	case domain.MySQL:
		return NewMySQLCompiler(), nil
	case domain.SQLite:
		return NewSQLiteCompiler(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedDialect, dialect)
	}
}

// UnsupportedTypeError reports a datatype outside a dialect's vocabulary.
type UnsupportedTypeError struct {
	Dialect domain.Dialect
	Table   string
	Column  string
	Type    string
	Reason  string
}

func (e *UnsupportedTypeError) Error() string {
	msg := fmt.Sprintf("unsupported data type %q for column %s.%s on %s", e.Type, e.Table, e.Column, e.Dialect)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is makes errors.Is(err, domain.ErrUnsupportedDataType) match.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == domain.ErrUnsupportedDataType
}

// columnDefinition renders "name type [constraints...]" using quote for names
// and typ as the already validated datatype.
func columnDefinition(quote func(string) string, name, typ string, attrs domain.ColumnAttributes) string {
	parts := []string{quote(name), typ}
	if attrs.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if attrs.DefaultSQL != "" {
		parts = append(parts, "DEFAULT "+attrs.DefaultSQL)
	}
	if attrs.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if attrs.Unique {
		parts = append(parts, "UNIQUE")
	}
	if attrs.CheckSQL != "" {
		parts = append(parts, "CHECK ("+attrs.CheckSQL+")")
	}
	return strings.Join(parts, " ")
}

// createTable renders a CREATE TABLE statement with columns in order.
func createTable(quote func(string) string, vocab vocabulary, dialect domain.Dialect, table string, columns domain.Columns) (string, error) {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		typ, err := vocab.resolve(dialect, table, col.Name, col.Type)
		if err != nil {
			return "", err
		}
		defs = append(defs, "  "+columnDefinition(quote, col.Name, typ, col.ColumnAttributes))
	}
	if len(defs) == 0 {
		return fmt.Sprintf("CREATE TABLE %s ()", quote(table)), nil
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", quote(table), strings.Join(defs, ",\n")), nil
}

func quoteWith(q string) func(string) string {
	return func(name string) string {
		return q + strings.ReplaceAll(name, q, q+q) + q
	}
}
