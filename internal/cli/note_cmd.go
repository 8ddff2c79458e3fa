package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newNoteCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read or replace a project's weekly note",
	}
	cmd.AddCommand(newNoteShowCmd(a), newNoteSetCmd(a))
	return cmd
}

func newNoteShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Print the weekly note",
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
			fmt.Fprintln(cmd.OutOrStdout(), view.WeeklyNote)
			return nil
		},
	}
}

func newNoteSetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set PROJECT TEXT",
		Short: "Replace the weekly note; TEXT \"-\" reads it from stdin",
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
			text := args[1]
			if text == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading note from stdin: %w", err)
				}
				text = string(raw)
			}
			msg, err := outcomeResult(a.Controller().SaveWeeklyNote(ctx, ws, text))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
