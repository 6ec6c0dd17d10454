package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/ui"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check migration status",
		Long:  "List every migration file and whether it has been applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			c, err := app.open(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer c.Close(ctx)

			statuses, err := c.MigrationService().Status(ctx)
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				ui.PrintInfo("No migrations found in %s", cfg.MigrationsDir)
				return nil
			}

			pending := 0
			rows := make([][]string, 0, len(statuses))
			for _, st := range statuses {
				state := "applied"
				if !st.Applied {
					state = "pending"
					pending++
				}
				rows = append(rows, []string{st.ID, state, strconv.Itoa(st.Changes)})
			}

			if err := ui.PrintTable([]string{"Migration", "State", "Changes"}, rows); err != nil {
				return err
			}
			ui.PrintKeyValue("Total", strconv.Itoa(len(statuses)))
			ui.PrintKeyValue("Applied", strconv.Itoa(len(statuses)-pending))
			ui.PrintKeyValue("Pending", strconv.Itoa(pending))
			return nil
		},
	}
}
