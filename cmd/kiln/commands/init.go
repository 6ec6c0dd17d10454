package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/config"
	"github.com/satishbabariya/kiln/internal/core/migration/domain"
	"github.com/satishbabariya/kiln/internal/ui"
)

type initOptions struct {
	dialect          string
	connectionString string
	force            bool
}

func newInitCommand(app *App) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a kiln.yaml config file",
		Long:  "Create a config file with a database section and an example table. Missing values are prompted for.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initProject(opts)
		},
	}

	cmd.Flags().StringVar(&opts.dialect, "dialect", "", "Database dialect (postgres, cockroachdb, mysql, sqlite)")
	cmd.Flags().StringVar(&opts.connectionString, "connection-string", "", "Database connection string, ${VAR} references allowed")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func (a *App) initProject(opts initOptions) error {
	path := a.configFile
	if path == "" {
		path = config.FileName + ".yaml"
	}

	exists, err := afero.Exists(a.fs, path)
	if err != nil {
		return err
	}
	if exists && !opts.force {
		overwrite := false
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite it?", path),
		}, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	if opts.dialect == "" {
		options := make([]string, 0, len(domain.Dialects()))
		for _, d := range domain.Dialects() {
			options = append(options, string(d))
		}
		if err := survey.AskOne(&survey.Select{
			Message: "Database dialect:",
			Options: options,
			Default: string(domain.Postgres),
		}, &opts.dialect); err != nil {
			return err
		}
	}
	dialect, err := domain.ParseDialect(opts.dialect)
	if err != nil {
		return err
	}

	if opts.connectionString == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Connection string:",
			Default: "${DATABASE_URL}",
		}, &opts.connectionString, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	data, err := config.Marshal(scaffold(dialect, opts.connectionString))
	if err != nil {
		return err
	}
	if err := afero.WriteFile(a.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.PrintSuccess("Created %s", path)
	ui.PrintSection("Next steps")
	ui.PrintList([]string{
		"Declare your tables in " + path,
		"Run `kiln generate` to create a migration",
		"Run `kiln apply` to apply it",
	})
	return nil
}

func scaffold(dialect domain.Dialect, connectionString string) *config.Config {
	idType := "uuid"
	if dialect == domain.MySQL {
		idType = "char(36)"
	}

	return &config.Config{
		Database: config.DatabaseConfig{
			Dialect:          dialect,
			ConnectionString: connectionString,
		},
		MigrationsDir: config.DefaultMigrationsDir,
		Tables: []config.TableConfig{{
			TableName: "members",
			Columns: config.ColumnsConfig{
				{Name: "id", ColumnConfig: config.ColumnConfig{Type: idType, PrimaryKey: true}},
				{Name: "email", ColumnConfig: config.ColumnConfig{Type: "varchar(255)", NotNull: true, Unique: true}},
			},
		}},
	}
}
