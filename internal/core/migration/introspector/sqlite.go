package introspector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/datatype"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/core/migration/sqlgen"
)

// sqliteColumns reads PRAGMA table_info. Rows are drained before the next
// PRAGMA because a single-connection pool cannot serve two open cursors.
func (i *DatabaseIntrospector) sqliteColumns(ctx context.Context, table string) (domain.Columns, error) {
	quoted := sqlgen.NewSQLiteCompiler().QuoteIdent(table)
	rows, err := i.db.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoted))
	if err != nil {
		return nil, err
	}

	cols := domain.Columns{}
	for rows.Next() {
		var (
			col         domain.Column
			cid         int
			typ         string
			notNull, pk int
			def         sql.NullString
		)
		if err := rows.Scan(&cid, &col.Name, &typ, &notNull, &def, &pk); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Type = datatype.Normalize(typ)
		col.NotNull = notNull != 0
		col.PrimaryKey = pk > 0
		col.DefaultSQL = def.String
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	unique, err := i.sqliteUniqueColumns(ctx, quoted)
	if err != nil {
		return nil, err
	}
	for idx := range cols {
		if unique[cols[idx].Name] {
			cols[idx].Unique = true
		}
	}
	return cols, nil
}

// sqliteUniqueColumns returns columns covered by a single column UNIQUE
// constraint.
func (i *DatabaseIntrospector) sqliteUniqueColumns(ctx context.Context, quoted string) (map[string]bool, error) {
	rows, err := i.db.Query(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoted))
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}

	var indexes []string
	for rows.Next() {
		var (
			seq, uniq, partial int
			name, origin       string
		)
		if err := rows.Scan(&seq, &name, &uniq, &origin, &partial); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		if uniq == 1 && origin == "u" {
			indexes = append(indexes, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	unique := map[string]bool{}
	for _, index := range indexes {
		columns, err := i.sqliteIndexColumns(ctx, index)
		if err != nil {
			return nil, err
		}
		if len(columns) == 1 {
			unique[columns[0]] = true
		}
	}
	return unique, nil
}

func (i *DatabaseIntrospector) sqliteIndexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := i.db.Query(ctx, fmt.Sprintf("PRAGMA index_info(%s)", sqlgen.NewSQLiteCompiler().QuoteIdent(index)))
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", index, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			seqno, cid int
			name       sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("failed to scan index column: %w", err)
		}
		columns = append(columns, name.String)
	}
	return columns, rows.Err()
}
