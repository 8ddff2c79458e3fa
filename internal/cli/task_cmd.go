package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Edit task rows of a project",
	}
	cmd.AddCommand(newTaskUpdateCmd(a))
	return cmd
}

func newTaskUpdateCmd(a *App) *cobra.Command {
	var (
		row      int
		taskKey  string
		status   string
		note     string
		progress int
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT (--row N | --key KEY)",
		Short: "Set the status, note and progress of one task",
		Long: "Select the task by its sheet row number as printed by 'show', or by its\n" +
			"key \"NAME (START)\". When two tasks share a key the upper row is used.\n" +
			"Fields that are not given keep their current value.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("row") == flags.Changed("key") {
				return fmt.Errorf("exactly one of --row or --key is required")
			}
			if !flags.Changed("status") && !flags.Changed("note") && !flags.Changed("progress") {
				return fmt.Errorf("nothing to update: pass --status, --note or --progress")
			}

			ctx := commandContext(cmd)
			if err := a.ready(ctx); err != nil {
				return err
			}
			ws, err := resolveProject(ctx, a, args[0])
			if err != nil {
				return err
			}
			ctrl := a.Controller()
			view, err := ctrl.Open(ctx, ws)
			if err != nil {
				return err
			}

			var (
				task domain.Task
				ok   bool
			)
			if flags.Changed("row") {
				task, ok = view.TaskAt(row - domain.TaskSheetRow(0))
				if !ok {
					return fmt.Errorf("no task on sheet row %d of %q", row, ws.Title)
				}
			} else {
				task, ok = view.FindByKey(taskKey)
				if !ok {
					return fmt.Errorf("no task with key %q in %q", taskKey, ws.Title)
				}
			}

			edit := app.TaskEdit{
				Row:      task.Row,
				Status:   task.Status,
				Note:     task.Note,
				Progress: task.Progress,
			}
			if flags.Changed("status") {
				edit.Status = domain.TaskStatus(strings.TrimSpace(status))
			}
			if flags.Changed("note") {
				edit.Note = note
			}
			if flags.Changed("progress") {
				edit.Progress = progress
			}

			msg, err := outcomeResult(ctrl.SaveTaskEdit(ctx, ws, edit))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().IntVar(&row, "row", 0, "sheet row number of the task (2 is the first task)")
	cmd.Flags().StringVar(&taskKey, "key", "", `task key, "NAME (YYYY-MM-DD)"`)
	cmd.Flags().StringVar(&status, "status", "", "예정, 진행중, 완료 or 지연")
	cmd.Flags().StringVar(&note, "note", "", "비고 text")
	cmd.Flags().IntVar(&progress, "progress", 0, "진행률, 0 to 100")
	return cmd
}
