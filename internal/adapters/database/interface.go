// Package database defines database adapter interfaces.
package database

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// Execer executes statements. Both adapters and transactions satisfy it.
type Execer interface {
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Adapter defines the database adapter interface.
type Adapter interface {
	Execer

	// Connect establishes a database connection.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// QueryRow executes a query that returns a single row.
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row

	// Begin starts a transaction.
	Begin(ctx context.Context) (Transaction, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() domain.Dialect
}

// Transaction defines the transaction interface.
type Transaction interface {
	Execer

	// Commit commits the transaction.
	Commit() error

	// Rollback rolls back the transaction.
	Rollback() error

	// Query executes a query within the transaction.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Config holds database connection configuration.
type Config struct {
	Dialect        domain.Dialect
	URL            string
	MaxConnections int
	MaxIdleTime    int // seconds
	ConnectTimeout int // seconds
}

// DefaultConfig returns connection settings suited to a short lived CLI run.
func DefaultConfig(dialect domain.Dialect, url string) Config {
	return Config{
		Dialect:        dialect,
		URL:            url,
		MaxConnections: 4,
		MaxIdleTime:    60,
		ConnectTimeout: 10,
	}
}
