package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedDialect is returned for an unknown dialect name.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrUnsupportedDataType is returned when a datatype is outside the
	// dialect's vocabulary.
	ErrUnsupportedDataType = errors.New("unsupported data type")
	// ErrUnsupportedOperation is returned when a dialect cannot express a change.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrMigrationNotFound is returned when a migration record does not exist.
	ErrMigrationNotFound = errors.New("migration not found")
	// ErrMigrationExists is returned when saving over an existing record.
	ErrMigrationExists = errors.New("migration already exists")
	// ErrUnsupportedVersion is returned for records written by an incompatible format.
	ErrUnsupportedVersion = errors.New("unsupported migration version")
)

// PendingMigrationsError is returned by generate when migrations are written
// but not yet applied.
type PendingMigrationsError struct {
	IDs []string
}

func (e *PendingMigrationsError) Error() string {
	return fmt.Sprintf("%d pending migration(s) must be applied first: %s", len(e.IDs), strings.Join(e.IDs, ", "))
}

// MigrationError reports the migration and statement that failed to apply.
type MigrationError struct {
	ID        string
	Statement string
	Err       error
}

func (e *MigrationError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("migration %s failed: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("migration %s failed at %q: %v", e.ID, e.Statement, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
