package cli

import (
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects in document order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := a.ready(ctx); err != nil {
				return err
			}
			projects, err := a.Controller().Projects(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project's weekly note and task table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := a.ready(ctx); err != nil {
				return err
			}
			ws, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			view, err := a.Controller().Open(ctx, ws)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectView(view))
			return nil
		},
	}
}
