package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// ErrNotConnected is returned when the adapter is used before Connect.
var ErrNotConnected = errors.New("database not connected")

// ConnectHook runs once after the pool is opened and pinged.
type ConnectHook func(ctx context.Context, db *sql.DB) error

// SQLAdapter implements Adapter on top of database/sql. The dialect packages
// configure it with their driver.
type SQLAdapter struct {
	driver string
	dsn    string
	config Config
	onOpen ConnectHook
	db     *sql.DB
}

// NewSQLAdapter creates an adapter that opens dsn with the named driver.
func NewSQLAdapter(driver, dsn string, config Config, onOpen ConnectHook) *SQLAdapter {
	return &SQLAdapter{driver: driver, dsn: dsn, config: config, onOpen: onOpen}
}

// Connect establishes the connection pool.
func (a *SQLAdapter) Connect(ctx context.Context) error {
	db, err := sql.Open(a.driver, a.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if a.config.MaxConnections > 0 {
		db.SetMaxOpenConns(a.config.MaxConnections)
		db.SetMaxIdleConns(max(1, a.config.MaxConnections/2))
	}
	db.SetConnMaxIdleTime(time.Duration(a.config.MaxIdleTime) * time.Second)

	timeout := time.Duration(a.config.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if a.onOpen != nil {
		if err := a.onOpen(pingCtx, db); err != nil {
			db.Close()
			return err
		}
	}

	a.db = db
	return nil
}

// Disconnect closes the connection pool.
func (a *SQLAdapter) Disconnect(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// Execute executes a statement without returning rows.
func (a *SQLAdapter) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}
	return a.db.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns a single row. It returns nil when
// the adapter is not connected.
func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	if a.db == nil {
		return nil
	}
	return a.db.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (a *SQLAdapter) Begin(ctx context.Context) (Transaction, error) {
	if a.db == nil {
		return nil, ErrNotConnected
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &SQLTransaction{tx: tx}, nil
}

// Ping checks if the database connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// GetDialect returns the SQL dialect.
func (a *SQLAdapter) GetDialect() domain.Dialect {
	return a.config.Dialect
}

// SQLTransaction implements Transaction on a *sql.Tx.
type SQLTransaction struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *SQLTransaction) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *SQLTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Execute executes a statement within the transaction.
func (t *SQLTransaction) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// Query executes a query within the transaction.
func (t *SQLTransaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

var (
	_ Adapter     = (*SQLAdapter)(nil)
	_ Transaction = (*SQLTransaction)(nil)
)
