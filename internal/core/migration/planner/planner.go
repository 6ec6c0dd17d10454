// Package planner turns a schema diff into an ordered list of DDL steps.
package planner

import (
	"fmt"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/core/migration/sqlgen"
)

// MigrationPlanner builds migration plans for one dialect.
type MigrationPlanner struct {
	compiler sqlgen.Compiler
}

// NewMigrationPlanner creates a new migration planner.
func NewMigrationPlanner(compiler sqlgen.Compiler) *MigrationPlanner {
	return &MigrationPlanner{compiler: compiler}
}

// Plan compiles every change of the migration. Steps are ordered as: created
// tables, dropped tables, then per changed table its added, dropped and
// altered columns. Any compile error aborts the whole plan.
func (p *MigrationPlanner) Plan(migration *domain.Migration) (*domain.MigrationPlan, error) {
	plan := &domain.MigrationPlan{MigrationID: migration.ID}
	diff := migration.Diff

	for _, added := range diff.AddedTables {
		sql, err := p.compiler.CreateTable(added.Table, added.Columns)
		if err != nil {
			return nil, fmt.Errorf("failed to plan create table %s: %w", added.Table, err)
		}
		plan.Add(domain.Step{Kind: domain.CreateTable, Table: added.Table, SQL: sql})
	}

	for _, table := range diff.RemovedTables {
		plan.Add(domain.Step{Kind: domain.DropTable, Table: table, SQL: p.compiler.DropTable(table)})
	}

	for _, changed := range diff.ChangedTables {
		if err := p.planChangedTable(plan, changed); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

func (p *MigrationPlanner) planChangedTable(plan *domain.MigrationPlan, changed domain.ChangedTable) error {
	table := changed.Table

	for _, col := range changed.AddedColumns {
		sql, err := p.compiler.AddColumn(table, domain.Column{Name: col.Column, ColumnAttributes: col.Attributes})
		if err != nil {
			return fmt.Errorf("failed to plan add column %s.%s: %w", table, col.Column, err)
		}
		plan.Add(domain.Step{Kind: domain.AddColumn, Table: table, Column: col.Column, SQL: sql})
	}

	for _, col := range changed.RemovedColumns {
		plan.Add(domain.Step{Kind: domain.DropColumn, Table: table, Column: col.Column, SQL: p.compiler.DropColumn(table, col.Column)})
	}

	for _, delta := range changed.ChangedColumns {
		if delta.TypeChanged() {
			sql, err := p.compiler.AlterColumnType(table, delta.Column, delta.After)
			if err != nil {
				return fmt.Errorf("failed to plan type change of %s.%s: %w", table, delta.Column, err)
			}
			plan.Add(domain.Step{Kind: domain.AlterColumnType, Table: table, Column: delta.Column, SQL: sql})
		}

		if delta.NullabilityChanged() {
			kind, build := domain.DropNotNull, p.compiler.DropNotNull
			if delta.After.NotNull {
				kind, build = domain.SetNotNull, p.compiler.SetNotNull
			}
			sql, err := build(table, delta.Column, delta.After)
			if err != nil {
				return fmt.Errorf("failed to plan nullability change of %s.%s: %w", table, delta.Column, err)
			}
			plan.Add(domain.Step{Kind: kind, Table: table, Column: delta.Column, SQL: sql})
		}
	}

	return nil
}
