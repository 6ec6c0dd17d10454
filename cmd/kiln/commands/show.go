package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/ui"
)

func newShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a migration and the SQL it runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			// Reading records and compiling SQL needs no connection.
			c, err := app.container(cfg, false)
			if err != nil {
				return err
			}
			defer c.Close(cmd.Context())

			migration, err := c.MigrationRepository().FindByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var statements []string
			if plan, err := c.Planner().Plan(migration); err != nil {
				ui.PrintWarning("Cannot compile migration for %s: %v", cfg.Database.Dialect, err)
			} else {
				statements = plan.SQL()
			}

			return ui.PrintMarkdown(ui.MigrationMarkdown(migration, statements))
		},
	}
}
