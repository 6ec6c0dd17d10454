package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/config"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/service"
	"github.com/satishbabariya/kiln/internal/ui"
	"github.com/satishbabariya/kiln/internal/watch"
)

type generateOptions struct {
	apply         bool
	plan          bool
	ignorePending bool
	watch         bool
}

func newGenerateCommand(app *App) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a migration from the declared schema",
		Long: `Introspect the database, diff it against the tables declared in the config
file and write the difference to a new migration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.plan && !opts.apply {
				return fmt.Errorf("--plan requires --apply")
			}
			if opts.watch {
				return app.watchGenerate(cmd.Context(), opts)
			}
			return app.generate(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply pending migrations after generating")
	cmd.Flags().BoolVar(&opts.plan, "plan", false, "With --apply, print the SQL instead of running it")
	cmd.Flags().BoolVar(&opts.ignorePending, "ignore-pending", false, "Generate even if earlier migrations are unapplied")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever the config file changes")

	return cmd
}

func (a *App) generate(ctx context.Context, opts generateOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	generated, err := a.generateMigration(ctx, cfg, opts)
	if err != nil || !generated || !opts.apply {
		return err
	}
	return a.apply(ctx, cfg, opts.plan)
}

// generateMigration reports whether a migration file was written.
func (a *App) generateMigration(ctx context.Context, cfg *config.Config, opts generateOptions) (bool, error) {
	c, err := a.open(ctx, cfg, false)
	if err != nil {
		return false, err
	}
	defer c.Close(ctx)

	result, err := c.MigrationService().Generate(ctx, service.GenerateInput{
		Ideal:         cfg.Ideal(),
		IgnorePending: opts.ignorePending,
	})

	var pending *domain.PendingMigrationsError
	if errors.As(err, &pending) {
		ui.PrintWarning("There are pending migrations: %s", strings.Join(pending.IDs, ", "))
		ui.PrintInfo("Apply them first before generating a new migration, or use --ignore-pending to skip this check.")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if result.Migration == nil {
		ui.PrintInfo("No changes detected, no migration needed.")
		return false, nil
	}

	ui.PrintDiff(result.Migration.Diff)
	ui.PrintSuccess("Migration file generated: %s", result.Path)
	return true, nil
}

func (a *App) watchGenerate(ctx context.Context, opts generateOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.NewWatcher(cfg.File, watch.DefaultDebounce, func(ctx context.Context) error {
		return a.generate(ctx, opts)
	}, a.logger)
	if err != nil {
		return err
	}

	ui.PrintInfo("Watching %s for changes (Ctrl+C to stop)", cfg.File)
	return w.Run(ctx)
}
