// Package container provides dependency injection.
package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/satishbabariya/kiln/internal/adapters/database"
	"github.com/satishbabariya/kiln/internal/adapters/database/cockroachdb"
	"github.com/satishbabariya/kiln/internal/adapters/database/mysql"
	"github.com/satishbabariya/kiln/internal/adapters/database/postgres"
	"github.com/satishbabariya/kiln/internal/adapters/database/sqlite"
	"github.com/satishbabariya/kiln/internal/adapters/storage"
	"github.com/satishbabariya/kiln/internal/config"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/core/migration/executor"
	"github.com/satishbabariya/kiln/internal/core/migration/history"
	"github.com/satishbabariya/kiln/internal/core/migration/introspector"
	"github.com/satishbabariya/kiln/internal/core/migration/planner"
	"github.com/satishbabariya/kiln/internal/core/migration/sqlgen"
	"github.com/satishbabariya/kiln/internal/repository"
	"github.com/satishbabariya/kiln/internal/service"
)

// Options tunes how the container is wired.
type Options struct {
	// PlanMode routes every write through a capture adapter so nothing
	// reaches the database.
	PlanMode bool
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Storage holds migration records. Defaults to the working directory.
	Storage storage.Storage
}

// Container holds all application dependencies.
type Container struct {
	// Configuration
	config *config.Config
	logger *slog.Logger

	// Adapters
	dbAdapter database.Adapter
	capture   *database.CaptureAdapter
	storage   storage.Storage

	// Migration components
	compiler      sqlgen.Compiler
	ledger        *history.Ledger
	migrationRepo *repository.FileMigrationRepository

	// Services
	migrationService *service.MigrationService
}

// NewContainer creates a new dependency injection container. No connection
// is made until Open.
func NewContainer(cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config:  cfg,
		logger:  opts.Logger,
		storage: opts.Storage,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	var err error
	c.dbAdapter, err = createDatabaseAdapter(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create database adapter: %w", err)
	}

	c.compiler, err = sqlgen.NewCompiler(cfg.Database.Dialect)
	if err != nil {
		return nil, err
	}

	if c.storage == nil {
		c.storage = storage.NewFilesystemStorage(".")
	}

	// Everything that writes goes through db; reads still hit the database.
	db := c.dbAdapter
	if opts.PlanMode {
		c.capture = database.NewCaptureAdapter(c.dbAdapter, history.IsLedgerStatement)
		db = c.capture
	}

	c.migrationRepo = repository.NewMigrationRepository(c.storage, cfg.MigrationsDir)
	c.ledger = history.NewLedger(db)
	c.migrationService = service.NewMigrationService(
		c.migrationRepo,
		c.ledger,
		introspector.NewDatabaseIntrospector(db),
		executor.NewMigrationExecutor(db, c.compiler, c.ledger, c.logger),
		c.logger,
	)

	return c, nil
}

// Open connects to the database.
func (c *Container) Open(ctx context.Context) error {
	if err := c.dbAdapter.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", c.config.Database.Dialect, err)
	}
	c.logger.Debug("connected", "dialect", string(c.config.Database.Dialect))
	return nil
}

// Close cleans up resources.
func (c *Container) Close(ctx context.Context) error {
	if c.dbAdapter != nil {
		return c.dbAdapter.Disconnect(ctx)
	}
	return nil
}

// Config returns the loaded configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// MigrationService returns the migration service.
func (c *Container) MigrationService() *service.MigrationService {
	return c.migrationService
}

// MigrationRepository returns the migration record store.
func (c *Container) MigrationRepository() *repository.FileMigrationRepository {
	return c.migrationRepo
}

// Planner returns a planner for the configured dialect.
func (c *Container) Planner() *planner.MigrationPlanner {
	return planner.NewMigrationPlanner(c.compiler)
}

// PlanMode reports whether writes are being captured.
func (c *Container) PlanMode() bool {
	return c.capture != nil
}

// PlannedStatements returns the statements captured in plan mode.
func (c *Container) PlannedStatements() []string {
	if c.capture == nil {
		return nil
	}
	return c.capture.Statements()
}

// createDatabaseAdapter creates the appropriate database adapter based on dialect.
func createDatabaseAdapter(cfg config.DatabaseConfig) (database.Adapter, error) {
	dbConfig := database.Config{
		Dialect:        cfg.Dialect,
		URL:            cfg.ConnectionString,
		MaxConnections: cfg.MaxConnections,
		MaxIdleTime:    cfg.MaxIdleTime,
		ConnectTimeout: cfg.ConnectTimeout,
	}

	var adapter database.Adapter
	var err error

	switch cfg.Dialect {
	case domain.Postgres:
		adapter, err = postgres.NewPostgresAdapter(dbConfig)
	case domain.CockroachDB:
		adapter, err = cockroachdb.NewCockroachDBAdapter(dbConfig)
	case domain.MySQL:
		adapter, err = mysql.NewMySQLAdapter(dbConfig)
	case domain.SQLite:
		adapter, err = sqlite.NewSQLiteAdapter(dbConfig)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedDialect, cfg.Dialect)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}

	return adapter, nil
}
