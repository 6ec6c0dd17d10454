package sqlgen

import (
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// SQLiteCompiler generates SQLite DDL. SQLite cannot change the type or
// nullability of an existing column, and cannot add key columns.
type SQLiteCompiler struct {
	vocab vocabulary
	quote func(string) string
}

// NewSQLiteCompiler creates a new SQLite compiler.
func NewSQLiteCompiler() *SQLiteCompiler {
	return &SQLiteCompiler{vocab: sqliteTypes, quote: quoteWith(`"`)}
}

func (c *SQLiteCompiler) Dialect() domain.Dialect    { return domain.SQLite }
func (c *SQLiteCompiler) TransactionalDDL() bool     { return true }
func (c *SQLiteCompiler) QuoteIdent(n string) string { return c.quote(n) }

func (c *SQLiteCompiler) CreateTable(table string, columns domain.Columns) (string, error) {
	return createTable(c.quote, c.vocab, domain.SQLite, table, columns)
}

func (c *SQLiteCompiler) DropTable(table string) string {
	return fmt.Sprintf("DROP TABLE %s", c.quote(table))
}

func (c *SQLiteCompiler) AddColumn(table string, column domain.Column) (string, error) {
	typ, err := c.vocab.resolve(domain.SQLite, table, column.Name, column.Type)
	if err != nil {
		return "", err
	}
	if column.PrimaryKey || column.Unique {
		return "", fmt.Errorf("%w: sqlite cannot add primary key or unique column %s.%s",
			domain.ErrUnsupportedOperation, table, column.Name)
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", c.quote(table),
		columnDefinition(c.quote, column.Name, typ, column.ColumnAttributes)), nil
}

func (c *SQLiteCompiler) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", c.quote(table), c.quote(column))
}

func (c *SQLiteCompiler) AlterColumnType(table, column string, after domain.ColumnAttributes) (string, error) {
	if _, err := c.vocab.resolve(domain.SQLite, table, column, after.Type); err != nil {
		return "", err
	}
	return "", c.unsupportedAlter(table, column, "change the type of")
}

func (c *SQLiteCompiler) SetNotNull(table, column string, _ domain.ColumnAttributes) (string, error) {
	return "", c.unsupportedAlter(table, column, "add NOT NULL to")
}

func (c *SQLiteCompiler) DropNotNull(table, column string, _ domain.ColumnAttributes) (string, error) {
	return "", c.unsupportedAlter(table, column, "drop NOT NULL from")
}

func (c *SQLiteCompiler) unsupportedAlter(table, column, action string) error {
	return fmt.Errorf("%w: sqlite cannot %s existing column %s.%s",
		domain.ErrUnsupportedOperation, action, table, column)
}

var _ Compiler = (*SQLiteCompiler)(nil)
