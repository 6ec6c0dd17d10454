package sqlgen

import (
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// MySQLCompiler generates MySQL DDL. MySQL commits implicitly around DDL, so
// statements cannot be grouped into a transaction.
type MySQLCompiler struct {
	vocab vocabulary
	quote func(string) string
}

// NewMySQLCompiler creates a new MySQL compiler.
func NewMySQLCompiler() *MySQLCompiler {
	return &MySQLCompiler{vocab: mysqlTypes, quote: quoteWith("`")}
}

func (c *MySQLCompiler) Dialect() domain.Dialect    { return domain.MySQL }
func (c *MySQLCompiler) TransactionalDDL() bool     { return false }
func (c *MySQLCompiler) QuoteIdent(n string) string { return c.quote(n) }

func (c *MySQLCompiler) CreateTable(table string, columns domain.Columns) (string, error) {
	return createTable(c.quote, c.vocab, domain.MySQL, table, columns)
}

func (c *MySQLCompiler) DropTable(table string) string {
	return fmt.Sprintf("DROP TABLE %s", c.quote(table))
}

func (c *MySQLCompiler) AddColumn(table string, column domain.Column) (string, error) {
	typ, err := c.vocab.resolve(domain.MySQL, table, column.Name, column.Type)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", c.quote(table),
		columnDefinition(c.quote, column.Name, typ, column.ColumnAttributes)), nil
}

func (c *MySQLCompiler) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", c.quote(table), c.quote(column))
}

// modify restates the column with its new type, nullability and default.
// Keys and checks are left alone; MODIFY COLUMN keeps existing indexes.
func (c *MySQLCompiler) modify(table, column string, after domain.ColumnAttributes) (string, error) {
	typ, err := c.vocab.resolve(domain.MySQL, table, column, after.Type)
	if err != nil {
		return "", err
	}
	attrs := domain.ColumnAttributes{NotNull: after.NotNull, DefaultSQL: after.DefaultSQL}
	return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", c.quote(table),
		columnDefinition(c.quote, column, typ, attrs)), nil
}

func (c *MySQLCompiler) AlterColumnType(table, column string, after domain.ColumnAttributes) (string, error) {
	return c.modify(table, column, after)
}

func (c *MySQLCompiler) SetNotNull(table, column string, after domain.ColumnAttributes) (string, error) {
	after.NotNull = true
	return c.modify(table, column, after)
}

func (c *MySQLCompiler) DropNotNull(table, column string, after domain.ColumnAttributes) (string, error) {
	after.NotNull = false
	return c.modify(table, column, after)
}

var _ Compiler = (*MySQLCompiler)(nil)
