package service

import (
	"context"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// ProjectService interprets worksheets as projects. Every write is exactly
// one gateway call, made only after validation passes.
type ProjectService interface {
	// Projects lists worksheets in document order, template excluded.
	Projects(ctx context.Context) ([]gateway.Worksheet, error)
	// Worksheets lists every worksheet, template included.
	Worksheets(ctx context.Context) ([]gateway.Worksheet, error)
	// Template returns the template worksheet, if the document has one.
	Template(ctx context.Context) (gateway.Worksheet, bool, error)
	// Find returns the project worksheet with the given title.
	Find(ctx context.Context, title string) (gateway.Worksheet, error)

	Load(ctx context.Context, ws gateway.Worksheet) (*domain.ProjectView, error)
	SetWeeklyNote(ctx context.Context, ws gateway.Worksheet, text string) error
	UpdateTask(ctx context.Context, ws gateway.Worksheet, rowIndex int, status domain.TaskStatus, note string, progress int) error
}
