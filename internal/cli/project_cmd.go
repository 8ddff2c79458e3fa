package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Rename, delete or create projects",
	}
	cmd.AddCommand(
		newProjectRenameCmd(a),
		newProjectDeleteCmd(a),
		newProjectCreateCmd(a),
	)
	return cmd
}

func newProjectRenameCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PROJECT NEW",
		Short: "Rename a project worksheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := a.ready(ctx); err != nil {
				return err
			}
			ws, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			msg, err := outcomeResult(a.Controller().RenameProject(ctx, ws, args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newProjectDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete PROJECT",
		Short: "Delete a project worksheet",
		Long:  "Delete a project worksheet by its exact title. The last worksheet of a document cannot be deleted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := a.ready(ctx); err != nil {
				return err
			}
			ws, err := resolveProjectExact(ctx, a, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !a.interactive() {
					return fmt.Errorf("refusing to delete %q without --yes", ws.Title)
				}
				var confirmed bool
				err := huh.NewConfirm().
					Title(fmt.Sprintf("%q 프로젝트를 삭제할까요?", ws.Title)).
					Affirmative("삭제").
					Negative("취소").
					Value(&confirmed).
					WithTheme(sitetrackHuhTheme()).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "삭제를 취소했습니다.")
					return nil
				}
			}

			msg, err := outcomeResult(a.Controller().DeleteProject(ctx, ws))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newProjectCreateCmd(a *App) *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project by copying the template worksheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if err := a.ready(ctx); err != nil {
				return err
			}
			ctrl := a.Controller()
			if template != "" {
				ctrl = a.ControllerWithTemplate(template)
			}
			msg, err := outcomeResult(ctrl.CreateProject(ctx, args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "worksheet to copy (default: template_sheet from config)")
	return cmd
}
