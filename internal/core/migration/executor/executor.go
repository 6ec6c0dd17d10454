// Package executor applies migrations to a database.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/core/migration/history"
	"github.com/satishbabariya/kiln/internal/core/migration/planner"
	"github.com/satishbabariya/kiln/internal/core/migration/sqlgen"
)

// MigrationExecutor applies migrations one at a time.
type MigrationExecutor struct {
	db            database.Adapter
	planner       *planner.MigrationPlanner
	ledger        *history.Ledger
	transactional bool
	logger        *slog.Logger
}

// NewMigrationExecutor creates a new migration executor. db may be a capture
// adapter, in which case nothing reaches the database.
func NewMigrationExecutor(db database.Adapter, compiler sqlgen.Compiler, ledger *history.Ledger, logger *slog.Logger) *MigrationExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationExecutor{
		db:            db,
		planner:       planner.NewMigrationPlanner(compiler),
		ledger:        ledger,
		transactional: compiler.TransactionalDDL(),
		logger:        logger,
	}
}

// Execute compiles the migration, runs its statements and records it in the
// ledger. The plan is compiled in full first, so a compile error leaves the
// database untouched. On transactional dialects the statements and the ledger
// insert commit together.
func (e *MigrationExecutor) Execute(ctx context.Context, migration *domain.Migration) error {
	plan, err := e.planner.Plan(migration)
	if err != nil {
		return &domain.MigrationError{ID: migration.ID, Err: err}
	}

	if e.transactional {
		return e.executeInTransaction(ctx, plan)
	}
	return e.executeSequentially(ctx, plan)
}

func (e *MigrationExecutor) executeInTransaction(ctx context.Context, plan *domain.MigrationPlan) error {
	start := time.Now()

	tx, err := e.db.Begin(ctx)
	if err != nil {
		return &domain.MigrationError{ID: plan.MigrationID, Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := e.ledger.Lock(ctx, tx); err != nil {
		_ = tx.Rollback()
		return &domain.MigrationError{ID: plan.MigrationID, Err: err}
	}

	if err := e.run(ctx, tx, plan); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := e.ledger.Record(ctx, tx, plan.MigrationID, history.Checksum(plan.SQL()), time.Since(start)); err != nil {
		_ = tx.Rollback()
		return &domain.MigrationError{ID: plan.MigrationID, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.MigrationError{ID: plan.MigrationID, Err: fmt.Errorf("failed to commit migration: %w", err)}
	}
	return nil
}

// executeSequentially is used where DDL commits implicitly. A failure part way
// leaves earlier statements applied and the migration unrecorded.
func (e *MigrationExecutor) executeSequentially(ctx context.Context, plan *domain.MigrationPlan) error {
	start := time.Now()

	if err := e.run(ctx, e.db, plan); err != nil {
		return err
	}

	if err := e.ledger.Record(ctx, e.db, plan.MigrationID, history.Checksum(plan.SQL()), time.Since(start)); err != nil {
		return &domain.MigrationError{ID: plan.MigrationID, Err: err}
	}
	return nil
}

func (e *MigrationExecutor) run(ctx context.Context, ex database.Execer, plan *domain.MigrationPlan) error {
	for i, step := range plan.Steps {
		e.logger.Debug("executing statement",
			"migration", plan.MigrationID,
			"step", i+1,
			"kind", string(step.Kind),
			"sql", step.SQL,
		)
		if _, err := ex.Execute(ctx, step.SQL); err != nil {
			return &domain.MigrationError{
				ID:        plan.MigrationID,
				Statement: step.SQL,
				Err:       fmt.Errorf("failed to execute statement %d: %w", i+1, err),
			}
		}
	}
	return nil
}

var _ domain.Executor = (*MigrationExecutor)(nil)
