package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sync"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// CaptureAdapter records statements instead of executing them. Reads are
// served by the wrapped adapter; every write, including writes inside a
// transaction, is appended to an ordered buffer and reported as affecting no
// rows. Statements matched by skip are swallowed without being recorded.
type CaptureAdapter struct {
	inner Adapter
	skip  func(query string) bool

	mu         sync.Mutex
	statements []string
}

// NewCaptureAdapter wraps inner. skip may be nil.
func NewCaptureAdapter(inner Adapter, skip func(query string) bool) *CaptureAdapter {
	return &CaptureAdapter{inner: inner, skip: skip}
}

// Statements returns the captured statements in execution order.
func (a *CaptureAdapter) Statements() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.statements...)
}

func (a *CaptureAdapter) capture(query string) {
	if a.skip != nil && a.skip(query) {
		return
	}
	a.mu.Lock()
	a.statements = append(a.statements, query)
	a.mu.Unlock()
}

// Connect connects the wrapped adapter so reads see the live database.
func (a *CaptureAdapter) Connect(ctx context.Context) error { return a.inner.Connect(ctx) }

// Disconnect disconnects the wrapped adapter.
func (a *CaptureAdapter) Disconnect(ctx context.Context) error { return a.inner.Disconnect(ctx) }

// Execute records query and returns an empty result.
func (a *CaptureAdapter) Execute(_ context.Context, query string, _ ...any) (sql.Result, error) {
	a.capture(query)
	return driver.RowsAffected(0), nil
}

// Query reads from the live database.
func (a *CaptureAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return a.inner.Query(ctx, query, args...)
}

// QueryRow reads from the live database.
func (a *CaptureAdapter) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return a.inner.QueryRow(ctx, query, args...)
}

// Begin returns a transaction that records its writes on the adapter.
func (a *CaptureAdapter) Begin(_ context.Context) (Transaction, error) {
	return &captureTransaction{adapter: a}, nil
}

// Ping pings the live database.
func (a *CaptureAdapter) Ping(ctx context.Context) error { return a.inner.Ping(ctx) }

// GetDialect returns the dialect of the wrapped adapter.
func (a *CaptureAdapter) GetDialect() domain.Dialect { return a.inner.GetDialect() }

type captureTransaction struct {
	adapter *CaptureAdapter
}

func (t *captureTransaction) Commit() error   { return nil }
func (t *captureTransaction) Rollback() error { return nil }

func (t *captureTransaction) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.adapter.Execute(ctx, query, args...)
}

func (t *captureTransaction) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.adapter.inner.Query(ctx, query, args...)
}

var (
	_ Adapter     = (*CaptureAdapter)(nil)
	_ Transaction = (*captureTransaction)(nil)
)
