package introspector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/satishbabariya/kiln/internal/core/migration/datatype"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

func (i *DatabaseIntrospector) mysqlColumns(ctx context.Context, table string) (domain.Columns, error) {
	rows, err := i.db.Query(ctx, `
		SELECT column_name, column_type, is_nullable, column_key, column_default
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := domain.Columns{}
	for rows.Next() {
		var (
			col                       domain.Column
			columnType, isNul, keyCol string
			def                       sql.NullString
		)
		if err := rows.Scan(&col.Name, &columnType, &isNul, &keyCol, &def); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Type = mysqlType(columnType)
		col.NotNull = isNul == "NO"
		col.PrimaryKey = keyCol == "PRI"
		col.Unique = keyCol == "UNI"
		col.DefaultSQL = def.String
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// mysqlType maps a MySQL column_type onto the declared vocabulary. Integer
// display widths are dropped and tinyint(1) is MySQL's boolean.
func mysqlType(columnType string) string {
	columnType = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(columnType)), " unsigned")
	if columnType == "tinyint(1)" {
		return "boolean"
	}

	dt, err := datatype.Parse(columnType)
	if err != nil {
		return columnType
	}
	switch dt.Name {
	case "integer", "bigint", "smallint", "mediumint", "tinyint":
		dt.Args = nil
	}
	return dt.String()
}
