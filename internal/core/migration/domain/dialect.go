package domain

import (
	"fmt"
	"strings"
)

// Dialect identifies a supported SQL backend.
type Dialect string

const (
	// Postgres is PostgreSQL.
	Postgres Dialect = "postgres"
	// CockroachDB is CockroachDB, spoken over the Postgres wire protocol.
	CockroachDB Dialect = "cockroachdb"
	// MySQL is MySQL.
	MySQL Dialect = "mysql"
	// SQLite is SQLite.
	SQLite Dialect = "sqlite"
)

// Dialects lists every supported dialect.
func Dialects() []Dialect {
	return []Dialect{Postgres, CockroachDB, MySQL, SQLite}
}

// ParseDialect resolves a configured dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "cockroachdb", "cockroach":
		return CockroachDB, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, s)
	}
}

// Placeholder returns the bind parameter marker for position n (1-based).
func (d Dialect) Placeholder(n int) string {
	switch d {
	case Postgres, CockroachDB:
		return fmt.Sprintf("$%d", n)
	default:
		return "?"
	}
}
