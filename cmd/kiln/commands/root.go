// Package commands implements CLI commands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/adapters/storage"
	"github.com/satishbabariya/kiln/internal/config"
	"github.com/satishbabariya/kiln/internal/container"
	"github.com/satishbabariya/kiln/internal/logging"
)

// App carries state shared by every command of one invocation.
type App struct {
	fs         afero.Fs
	stdout     io.Writer
	configFile string
	verbose    bool
	logger     *slog.Logger
}

// Option configures the App behind the root command.
type Option func(*App)

// WithFs sets the filesystem config files and migration records live on.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithStdout sets where planned SQL is written.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// NewRootCommand builds the kiln command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(app)
	}

	cmd := &cobra.Command{
		Use:   "kiln",
		Short: "Declarative, diff-based schema migrations",
		Long: `kiln compares the tables declared in kiln.yaml with the live database,
records the difference as a migration file and applies it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.logger = logging.New(logging.Options{Verbose: app.verbose}).
				With("run", uuid.NewString())
		},
	}

	cmd.PersistentFlags().StringVarP(&app.configFile, "config", "c", "", "Path to config file (default: kiln.yaml in . or ~/.config/kiln)")
	cmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newGenerateCommand(app))
	cmd.AddCommand(newApplyCommand(app))
	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newInitCommand(app))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (a *App) loadConfig() (*config.Config, error) {
	return config.NewLoader(a.fs).Load(config.Options{File: a.configFile})
}

// container wires dependencies for cfg. The caller must Close it.
func (a *App) container(cfg *config.Config, plan bool) (*container.Container, error) {
	return container.NewContainer(cfg, container.Options{
		PlanMode: plan,
		Logger:   a.logger,
		Storage:  storage.NewAferoStorage(a.fs, ""),
	})
}

// open wires dependencies for cfg and connects to the database.
func (a *App) open(ctx context.Context, cfg *config.Config, plan bool) (*container.Container, error) {
	c, err := a.container(cfg, plan)
	if err != nil {
		return nil, err
	}
	if err := c.Open(ctx); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return c, nil
}
