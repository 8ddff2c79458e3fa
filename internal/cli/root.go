package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/config"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/spf13/cobra"
)

// App holds what CLI commands and TUI views work against. Main sets Home and
// IsInteractive; the backend is opened lazily on the first command that
// needs it. Tests set Gateway and Projects directly.
type App struct {
	Home string

	// Set from --config and --backend before the backend is opened.
	ConfigPath      string
	BackendOverride string

	Config   config.Config
	Gateway  gateway.Gateway
	Projects service.ProjectService
	Intents  app.IntentObserver
	Logger   *slog.Logger

	IsInteractive func() bool

	closers []func() error
}

// Controller builds the controller for one request.
func (a *App) Controller() *app.DashboardController {
	return app.NewDashboardController(a.Projects, a.Gateway, a.Intents)
}

// ControllerWithTemplate is Controller with a different template worksheet.
func (a *App) ControllerWithTemplate(template string) *app.DashboardController {
	projects := service.NewProjectService(a.Gateway, template, service.NewLogUseCaseObserver(a.Logger))
	return app.NewDashboardController(projects, a.Gateway, a.Intents)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Close releases the backend, the metrics listener and the log file in
// reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewRootCmd creates the top-level "sitetrack" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitetrack",
		Short: "Construction process status dashboard over a spreadsheet",
		Long: "sitetrack keeps one worksheet per construction project and lets you\n" +
			"update the weekly note and task status from a terminal dashboard.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), a)
		},
	}

	root.PersistentFlags().StringVar(&a.ConfigPath, "config", "", "config file (default ~/.sitetrack/config.yaml)")
	root.PersistentFlags().StringVar(&a.BackendOverride, "backend", "", "backend: sqlite, xlsx or sheets")

	root.AddCommand(
		newTUICmd(a),
		newProjectsCmd(a),
		newShowCmd(a),
		newNoteCmd(a),
		newTaskCmd(a),
		newProjectCmd(a),
	)

	return root
}

func newTUICmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
