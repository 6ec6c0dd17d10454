// Package service implements application services (use cases).
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/satishbabariya/kiln/internal/core/migration/differ"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/repository"
)

// MigrationService orchestrates migration operations.
type MigrationService struct {
	migrationRepo repository.MigrationRepository
	ledger        domain.Ledger
	introspector  domain.Introspector
	executor      domain.Executor
	logger        *slog.Logger
}

// NewMigrationService creates a new migration service.
func NewMigrationService(
	migrationRepo repository.MigrationRepository,
	ledger domain.Ledger,
	introspector domain.Introspector,
	executor domain.Executor,
	logger *slog.Logger,
) *MigrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationService{
		migrationRepo: migrationRepo,
		ledger:        ledger,
		introspector:  introspector,
		executor:      executor,
		logger:        logger,
	}
}

// GenerateInput represents input for generating a migration.
type GenerateInput struct {
	// Ideal is the declared schema.
	Ideal domain.Schema
	// IgnorePending skips the pending-migration guard.
	IgnorePending bool
}

// GenerateResult describes a generated migration. Migration is nil when the
// database already matches the declared schema.
type GenerateResult struct {
	Migration *domain.Migration
	Path      string
}

// ApplyResult lists the migrations applied by a single Apply call.
type ApplyResult struct {
	Applied []string
}

// MigrationStatus is the state of one migration record.
type MigrationStatus struct {
	ID      string
	Applied bool
	Changes int
}

// Generate diffs the declared schema against the database and writes a new
// migration record for the difference.
func (s *MigrationService) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if !input.IgnorePending {
		pending, err := s.Pending(ctx)
		if err != nil {
			return nil, err
		}
		if len(pending) > 0 {
			return nil, &domain.PendingMigrationsError{IDs: pending}
		}
	}

	current, err := s.introspector.Introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect database: %w", err)
	}

	diff := differ.Diff(*current, domain.NormalizeSchema(s.introspector.Dialect(), input.Ideal))
	if diff.IsEmpty() {
		s.logger.Debug("database matches declared schema")
		return &GenerateResult{}, nil
	}

	id, err := s.migrationRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate migration id: %w", err)
	}

	migration := domain.NewMigration(id, diff)
	path, err := s.migrationRepo.Save(ctx, migration)
	if err != nil {
		return nil, fmt.Errorf("failed to save migration: %w", err)
	}

	s.logger.Debug("migration generated",
		"id", id,
		"path", path,
		"addedTables", len(diff.AddedTables),
		"removedTables", len(diff.RemovedTables),
		"changedTables", len(diff.ChangedTables),
	)
	return &GenerateResult{Migration: migration, Path: path}, nil
}

// Apply executes every unapplied migration in id order and stops at the first
// failure. The ids applied before a failure are returned with the error.
func (s *MigrationService) Apply(ctx context.Context) (*ApplyResult, error) {
	result := &ApplyResult{Applied: []string{}}

	if err := s.ledger.Ensure(ctx); err != nil {
		return result, fmt.Errorf("failed to prepare migration ledger: %w", err)
	}

	migrations, err := s.migrationRepo.FindAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read migrations: %w", err)
	}
	applied := s.applied(ctx)

	for _, migration := range migrations {
		if applied[migration.ID] {
			continue
		}
		s.logger.Info("applying migration", "id", migration.ID)
		if err := s.executor.Execute(ctx, migration); err != nil {
			return result, err
		}
		result.Applied = append(result.Applied, migration.ID)
	}
	return result, nil
}

// Pending returns the ids of migration records not yet recorded in the
// ledger, in id order.
func (s *MigrationService) Pending(ctx context.Context) ([]string, error) {
	migrations, err := s.migrationRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	applied := s.applied(ctx)

	pending := []string{}
	for _, migration := range migrations {
		if !applied[migration.ID] {
			pending = append(pending, migration.ID)
		}
	}
	return pending, nil
}

// Status reports every migration record with its applied state.
func (s *MigrationService) Status(ctx context.Context) ([]MigrationStatus, error) {
	migrations, err := s.migrationRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	applied := s.applied(ctx)

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, migration := range migrations {
		statuses = append(statuses, MigrationStatus{
			ID:      migration.ID,
			Applied: applied[migration.ID],
			Changes: countChanges(migration.Diff),
		})
	}
	return statuses, nil
}

// Show returns a single migration record.
func (s *MigrationService) Show(ctx context.Context, id string) (*domain.Migration, error) {
	return s.migrationRepo.FindByID(ctx, id)
}

// applied reads the ledger. A database that has never been migrated has no
// ledger table, so a failed read counts as nothing applied.
func (s *MigrationService) applied(ctx context.Context) map[string]bool {
	ids, err := s.ledger.Applied(ctx)
	if err != nil {
		s.logger.Debug("migration ledger unavailable, assuming no applied migrations", "error", err)
		return map[string]bool{}
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func countChanges(diff domain.SchemaDiff) int {
	n := len(diff.AddedTables) + len(diff.RemovedTables)
	for _, t := range diff.ChangedTables {
		n += len(t.AddedColumns) + len(t.RemovedColumns) + len(t.ChangedColumns)
	}
	return n
}
