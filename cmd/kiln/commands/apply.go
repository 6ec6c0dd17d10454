package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/config"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/ui"
)

func newApplyCommand(app *App) *cobra.Command {
	var plan bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending migrations",
		Long: `Apply every migration file not yet recorded in the database, in order.
With --plan the SQL is printed to stdout and the database is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			return app.apply(cmd.Context(), cfg, plan)
		},
	}

	cmd.Flags().BoolVar(&plan, "plan", false, "Print the SQL instead of running it")

	return cmd
}

func (a *App) apply(ctx context.Context, cfg *config.Config, plan bool) error {
	c, err := a.open(ctx, cfg, plan)
	if err != nil {
		return err
	}
	defer c.Close(ctx)

	result, err := c.MigrationService().Apply(ctx)

	if plan {
		for _, stmt := range c.PlannedStatements() {
			fmt.Fprintf(a.stdout, "%s;\n", stmt)
		}
	}

	if err != nil {
		var migErr *domain.MigrationError
		if errors.As(err, &migErr) {
			ui.PrintError("Migration failed: %s", migErr.ID)
		}
		return err
	}

	if len(result.Applied) == 0 {
		ui.PrintInfo("No migrations to run")
		return nil
	}
	for _, id := range result.Applied {
		if plan {
			ui.PrintInfo("Migration planned: %s", id)
		} else {
			ui.PrintSuccess("Migration applied: %s", id)
		}
	}
	return nil
}
