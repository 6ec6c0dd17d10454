package sqlgen

import (
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// PostgresCompiler generates PostgreSQL DDL.
type PostgresCompiler struct {
	dialect domain.Dialect
	vocab   vocabulary
	quote   func(string) string
}

// NewPostgresCompiler creates a new PostgreSQL compiler.
func NewPostgresCompiler() *PostgresCompiler {
	return &PostgresCompiler{dialect: domain.Postgres, vocab: postgresTypes, quote: quoteWith(`"`)}
}

func (c *PostgresCompiler) Dialect() domain.Dialect    { return c.dialect }
func (c *PostgresCompiler) TransactionalDDL() bool     { return true }
func (c *PostgresCompiler) QuoteIdent(n string) string { return c.quote(n) }

func (c *PostgresCompiler) CreateTable(table string, columns domain.Columns) (string, error) {
	return createTable(c.quote, c.vocab, c.dialect, table, columns)
}

func (c *PostgresCompiler) DropTable(table string) string {
	return fmt.Sprintf("DROP TABLE %s", c.quote(table))
}

func (c *PostgresCompiler) AddColumn(table string, column domain.Column) (string, error) {
	typ, err := c.vocab.resolve(c.dialect, table, column.Name, column.Type)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", c.quote(table),
		columnDefinition(c.quote, column.Name, typ, column.ColumnAttributes)), nil
}

func (c *PostgresCompiler) DropColumn(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", c.quote(table), c.quote(column))
}

func (c *PostgresCompiler) AlterColumnType(table, column string, after domain.ColumnAttributes) (string, error) {
	typ, err := c.vocab.resolve(c.dialect, table, column, after.Type)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", c.quote(table), c.quote(column), typ), nil
}

func (c *PostgresCompiler) SetNotNull(table, column string, _ domain.ColumnAttributes) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", c.quote(table), c.quote(column)), nil
}

func (c *PostgresCompiler) DropNotNull(table, column string, _ domain.ColumnAttributes) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", c.quote(table), c.quote(column)), nil
}

var _ Compiler = (*PostgresCompiler)(nil)
