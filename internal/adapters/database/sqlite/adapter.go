// Package sqlite implements the SQLite database adapter.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// SQLiteAdapter implements database.Adapter for SQLite.
type SQLiteAdapter struct {
	*database.SQLAdapter
}

// NewSQLiteAdapter creates a new SQLite adapter. The URL is a file path, a
// file: URI, or a sqlite:// URL.
func NewSQLiteAdapter(config database.Config) (*SQLiteAdapter, error) {
	config.Dialect = domain.SQLite
	dsn := strings.TrimPrefix(config.URL, "sqlite://")
	return &SQLiteAdapter{
		SQLAdapter: database.NewSQLAdapter("sqlite3", dsn, config, configure),
	}, nil
}

// configure pins the pool to one connection. SQLite serializes writers, and
// in-memory databases live only as long as their connection.
func configure(ctx context.Context, db *sql.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

var _ database.Adapter = (*SQLiteAdapter)(nil)
