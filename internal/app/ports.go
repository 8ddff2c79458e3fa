package app

import (
	"context"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// ProjectReader serves the dashboard's read side.
type ProjectReader interface {
	Projects(ctx context.Context) ([]gateway.Worksheet, error)
	Open(ctx context.Context, ws gateway.Worksheet) (*domain.ProjectView, error)
}

// ProjectEditor serves the edit intents of the dashboard.
type ProjectEditor interface {
	SaveWeeklyNote(ctx context.Context, ws gateway.Worksheet, text string) Outcome
	SaveTaskEdit(ctx context.Context, ws gateway.Worksheet, edit TaskEdit) Outcome
}

// ProjectAdmin serves the project settings intents.
type ProjectAdmin interface {
	RenameProject(ctx context.Context, ws gateway.Worksheet, newTitle string) Outcome
	DeleteProject(ctx context.Context, ws gateway.Worksheet) Outcome
	CreateProject(ctx context.Context, title string) Outcome
}

// TaskEdit is the task edit form as submitted.
type TaskEdit struct {
	Row      int
	Status   domain.TaskStatus
	Note     string
	Progress int
}

var (
	_ ProjectReader = (*DashboardController)(nil)
	_ ProjectEditor = (*DashboardController)(nil)
	_ ProjectAdmin  = (*DashboardController)(nil)
)
