package cli

import (
	"context"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	tea "github.com/charmbracelet/bubbletea"
)

// projectsLoadedMsg carries the project list. The appModel broadcasts it.
type projectsLoadedMsg struct {
	projects []gateway.Worksheet
	err      error
}

// projectLoadedMsg carries one loaded project. The appModel stores it in the
// shared state when ws is still active, then broadcasts it.
type projectLoadedMsg struct {
	ws   gateway.Worksheet
	view *domain.ProjectView
	err  error
}

func loadProjectsCmd(a *App) tea.Cmd {
	return func() tea.Msg {
		projects, err := a.Controller().Projects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func loadProjectCmd(a *App, ws gateway.Worksheet) tea.Cmd {
	return func() tea.Msg {
		view, err := a.Controller().Open(context.Background(), ws)
		return projectLoadedMsg{ws: ws, view: view, err: err}
	}
}

func saveWeeklyNoteCmd(a *App, ws gateway.Worksheet, text string) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: a.Controller().SaveWeeklyNote(context.Background(), ws, text)}
	}
}

func saveTaskEditCmd(a *App, ws gateway.Worksheet, edit app.TaskEdit) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: a.Controller().SaveTaskEdit(context.Background(), ws, edit)}
	}
}

// renameProjectCmd reopens the rename form with the message when the new
// title is rejected.
func renameProjectCmd(state *SharedState, ws gateway.Worksheet, title string) tea.Cmd {
	a := state.App
	return func() tea.Msg {
		out := a.Controller().RenameProject(context.Background(), ws, title)
		if !out.OK && out.Placement == app.PlaceRenameForm {
			return pushViewMsg{view: newRenameForm(state, ws, title, out.Message)}
		}
		return outcomeMsg{outcome: out}
	}
}

func deleteProjectCmd(a *App, ws gateway.Worksheet) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{
			outcome: a.Controller().DeleteProject(context.Background(), ws),
			after:   afterDelete,
		}
	}
}

func createProjectCmd(a *App, title string) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{
			outcome: a.Controller().CreateProject(context.Background(), title),
			after:   afterCreate,
		}
	}
}
