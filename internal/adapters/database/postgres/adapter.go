// Package postgres implements the PostgreSQL database adapter.
package postgres

import (
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// PostgresAdapter implements database.Adapter for PostgreSQL.
type PostgresAdapter struct {
	*database.SQLAdapter
}

// NewPostgresAdapter creates a new PostgreSQL adapter. The URL is passed to
// lib/pq unchanged, so both URL and key=value forms work.
func NewPostgresAdapter(config database.Config) (*PostgresAdapter, error) {
	config.Dialect = domain.Postgres
	return &PostgresAdapter{
		SQLAdapter: database.NewSQLAdapter("postgres", config.URL, config, nil),
	}, nil
}

var _ database.Adapter = (*PostgresAdapter)(nil)
