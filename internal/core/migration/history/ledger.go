// Package history tracks applied migrations in the target database.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

const (
	// TableName is the ledger table.
	TableName = "kiln_migrations"
	// LockTableName holds the row locked while applying on CockroachDB.
	LockTableName = "kiln_migrations_lock"

	lockRowID = "migration_lock"
)

var ledgerPattern = regexp.MustCompile(`\b` + TableName + `(_lock)?\b`)

// IsLedgerStatement reports whether query touches the ledger tables.
func IsLedgerStatement(query string) bool {
	return ledgerPattern.MatchString(query)
}

// IsLedgerTable reports whether name is one of the ledger tables.
func IsLedgerTable(name string) bool {
	return name == TableName || name == LockTableName
}

// Record is one applied migration.
type Record struct {
	ID              string
	Checksum        string
	ExecutionTimeMs int64
	AppliedAt       time.Time
}

// Ledger manages the applied-migration table.
type Ledger struct {
	db      database.Adapter
	dialect domain.Dialect
}

// NewLedger creates a ledger on db.
func NewLedger(db database.Adapter) *Ledger {
	return &Ledger{db: db, dialect: db.GetDialect()}
}

// Ensure creates the ledger tables if they don't exist.
func (l *Ledger) Ensure(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id VARCHAR(255) NOT NULL PRIMARY KEY,
  checksum VARCHAR(64) NOT NULL,
  execution_time_ms BIGINT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, TableName)
	if _, err := l.db.Execute(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", TableName, err)
	}

	if l.dialect != domain.CockroachDB {
		return nil
	}

	lockTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id VARCHAR(255) NOT NULL PRIMARY KEY,
  is_locked INTEGER NOT NULL DEFAULT 0
)`, LockTableName)
	if _, err := l.db.Execute(ctx, lockTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", LockTableName, err)
	}

	seed := fmt.Sprintf("INSERT INTO %s (id, is_locked) VALUES ($1, 0) ON CONFLICT (id) DO NOTHING", LockTableName)
	if _, err := l.db.Execute(ctx, seed, lockRowID); err != nil {
		return fmt.Errorf("failed to seed %s: %w", LockTableName, err)
	}
	return nil
}

// Applied returns the applied migration ids in apply order. It fails when the
// ledger table does not exist.
func (l *Ledger) Applied(ctx context.Context) ([]string, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}

// Records returns every applied migration ordered by id.
func (l *Ledger) Records(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf("SELECT id, checksum, execution_time_ms, applied_at FROM %s", TableName)
	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TableName, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Checksum, &r.ExecutionTimeMs, &r.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", TableName, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b Record) int { return domain.CompareIDs(a.ID, b.ID) })
	return records, nil
}

// Lock serializes concurrent appliers for the rest of the transaction ex
// belongs to. SQLite locks the whole database on write and MySQL cannot hold a
// lock across its implicit DDL commits, so both are no-ops.
func (l *Ledger) Lock(ctx context.Context, ex database.Execer) error {
	var query string
	var args []any

	switch l.dialect {
	case domain.Postgres:
		query = fmt.Sprintf("SELECT pg_advisory_xact_lock(hashtext('%s'))", LockTableName)
	case domain.CockroachDB:
		query = fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", LockTableName)
		args = []any{lockRowID}
	default:
		return nil
	}

	if _, err := ex.Execute(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	return nil
}

// Record marks a migration as applied.
func (l *Ledger) Record(ctx context.Context, ex database.Execer, id, checksum string, elapsed time.Duration) error {
	query := fmt.Sprintf("INSERT INTO %s (id, checksum, execution_time_ms) VALUES (%s, %s, %s)",
		TableName, l.dialect.Placeholder(1), l.dialect.Placeholder(2), l.dialect.Placeholder(3))
	if _, err := ex.Execute(ctx, query, id, checksum, elapsed.Milliseconds()); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", id, err)
	}
	return nil
}

// Checksum fingerprints the statements of a migration.
func Checksum(statements []string) string {
	sum := sha256.Sum256([]byte(strings.Join(statements, ";\n")))
	return hex.EncodeToString(sum[:])
}

var _ domain.Ledger = (*Ledger)(nil)
