package introspector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/datatype"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

func (i *DatabaseIntrospector) postgresColumns(ctx context.Context, table string) (domain.Columns, error) {
	hidden := ""
	if i.db.GetDialect() == domain.CockroachDB {
		hidden = "AND is_hidden = 'NO'"
	}
	query := fmt.Sprintf(`
		SELECT column_name, data_type, udt_name, is_nullable,
		       character_maximum_length, numeric_precision, numeric_scale,
		       datetime_precision, column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 %s
		ORDER BY ordinal_position
	`, hidden)

	rows, err := i.db.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}

	cols := domain.Columns{}
	for rows.Next() {
		var (
			col                  domain.Column
			dataType, udt, isNul string
			charLen, prec, scale sql.NullInt64
			dtPrec               sql.NullInt64
			def                  sql.NullString
		)
		if err := rows.Scan(&col.Name, &dataType, &udt, &isNul, &charLen, &prec, &scale, &dtPrec, &def); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Type = postgresType(dataType, udt, charLen, prec, scale, dtPrec)
		col.NotNull = isNul == "NO"
		col.DefaultSQL = def.String
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	keys, err := i.postgresKeys(ctx, table)
	if err != nil {
		return nil, err
	}
	for idx := range cols {
		switch keys[cols[idx].Name] {
		case "PRIMARY KEY":
			cols[idx].PrimaryKey = true
		case "UNIQUE":
			cols[idx].Unique = true
		}
	}
	return cols, nil
}

// postgresKeys maps single column primary key and unique constraints.
// Columns of composite keys are not reported.
func (i *DatabaseIntrospector) postgresKeys(ctx context.Context, table string) (map[string]string, error) {
	rows, err := i.db.Query(ctx, postgresKeysQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query key constraints: %w", err)
	}
	defer rows.Close()

	keys := map[string]string{}
	for rows.Next() {
		var column, kind string
		if err := rows.Scan(&column, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan key constraint: %w", err)
		}
		if keys[column] != "PRIMARY KEY" {
			keys[column] = kind
		}
	}
	return keys, rows.Err()
}

const postgresKeysQuery = `
	SELECT min(kcu.column_name), tc.constraint_type
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON kcu.constraint_name = tc.constraint_name
	 AND kcu.table_schema = tc.table_schema
	 AND kcu.table_name = tc.table_name
	WHERE tc.table_schema = current_schema() AND tc.table_name = $1
	  AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
	GROUP BY tc.constraint_name, tc.constraint_type
	HAVING count(*) = 1
`

// postgresType rebuilds a declared type from information_schema fields.
func postgresType(dataType, udt string, charLen, prec, scale, dtPrec sql.NullInt64) string {
	switch dataType {
	case "character varying", "character":
		base := datatype.Normalize(dataType)
		if charLen.Valid {
			return fmt.Sprintf("%s(%d)", base, charLen.Int64)
		}
		return base
	case "numeric":
		if prec.Valid && scale.Valid {
			return fmt.Sprintf("numeric(%d,%d)", prec.Int64, scale.Int64)
		}
		return "numeric"
	case "time without time zone", "time with time zone",
		"timestamp without time zone", "timestamp with time zone":
		base := datatype.Normalize(dataType)
		if dtPrec.Valid {
			return fmt.Sprintf("%s(%d)", base, dtPrec.Int64)
		}
		return base
	case "USER-DEFINED", "ARRAY":
		return udt
	default:
		return datatype.Normalize(dataType)
	}
}
