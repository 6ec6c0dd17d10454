// Package introspector reads the live schema of a database.
package introspector

import (
	"context"
	"fmt"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/core/migration/history"
)

// DatabaseIntrospector implements domain.Introspector over a database adapter.
// Ledger tables are never reported.
type DatabaseIntrospector struct {
	db database.Adapter
}

// NewDatabaseIntrospector creates a new database introspector.
func NewDatabaseIntrospector(db database.Adapter) *DatabaseIntrospector {
	return &DatabaseIntrospector{db: db}
}

// Introspect returns every user table with its columns in ordinal order.
func (i *DatabaseIntrospector) Introspect(ctx context.Context) (*domain.Schema, error) {
	if i.db == nil {
		return nil, fmt.Errorf("database adapter not initialized")
	}

	names, err := i.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	schema := &domain.Schema{Tables: make([]domain.Table, 0, len(names))}
	for _, name := range names {
		table, err := i.IntrospectTable(ctx, name)
		if err != nil {
			return nil, err
		}
		schema.Tables = append(schema.Tables, *table)
	}
	return schema, nil
}

// IntrospectTable introspects a single table.
func (i *DatabaseIntrospector) IntrospectTable(ctx context.Context, name string) (*domain.Table, error) {
	var (
		cols domain.Columns
		err  error
	)
	switch i.db.GetDialect() {
	case domain.Postgres, domain.CockroachDB:
		cols, err = i.postgresColumns(ctx, name)
	case domain.MySQL:
		cols, err = i.mysqlColumns(ctx, name)
	case domain.SQLite:
		cols, err = i.sqliteColumns(ctx, name)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDialect, i.db.GetDialect())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", name, err)
	}

	for idx := range cols {
		cols[idx].Type = domain.CanonicalType(i.Dialect(), cols[idx].Type)
		if cols[idx].PrimaryKey {
			cols[idx].NotNull = true
		}
	}
	return &domain.Table{Name: name, Columns: cols}, nil
}

// Dialect returns the dialect of the underlying database.
func (i *DatabaseIntrospector) Dialect() domain.Dialect {
	return i.db.GetDialect()
}

// ListTables lists user tables ordered by name.
func (i *DatabaseIntrospector) ListTables(ctx context.Context) ([]string, error) {
	var query string
	switch i.db.GetDialect() {
	case domain.Postgres, domain.CockroachDB:
		query = `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`
	case domain.MySQL:
		query = `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`
	case domain.SQLite:
		query = `
			SELECT name
			FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDialect, i.db.GetDialect())
	}

	rows, err := i.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if history.IsLedgerTable(name) {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

var _ domain.Introspector = (*DatabaseIntrospector)(nil)
