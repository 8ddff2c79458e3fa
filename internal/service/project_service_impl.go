package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
)

type projectService struct {
	gw            gateway.Gateway
	templateTitle string
	observer      UseCaseObserver
	now           func() time.Time
}

// NewProjectService builds a ProjectService over gw. templateTitle names the
// worksheet hidden from the project list; empty means none.
func NewProjectService(gw gateway.Gateway, templateTitle string, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		gw:            gw,
		templateTitle: templateTitle,
		observer:      useCaseObserverOrNoop(observers),
		now:           time.Now,
	}
}

func (s *projectService) observe(ctx context.Context, name string, ws gateway.Worksheet, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Worksheet: ws.Title,
		Duration:  s.now().Sub(start),
		Err:       err,
		Fields:    fields,
	})
}

func (s *projectService) Worksheets(ctx context.Context) ([]gateway.Worksheet, error) {
	return s.gw.ListWorksheets(ctx)
}

func (s *projectService) Projects(ctx context.Context) ([]gateway.Worksheet, error) {
	all, err := s.gw.ListWorksheets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]gateway.Worksheet, 0, len(all))
	for _, ws := range all {
		if s.templateTitle != "" && ws.Title == s.templateTitle {
			continue
		}
		out = append(out, ws)
	}
	return out, nil
}

func (s *projectService) Template(ctx context.Context) (gateway.Worksheet, bool, error) {
	if s.templateTitle == "" {
		return gateway.Worksheet{}, false, nil
	}
	all, err := s.gw.ListWorksheets(ctx)
	if err != nil {
		return gateway.Worksheet{}, false, err
	}
	ws, ok := gateway.FindByTitle(all, s.templateTitle)
	return ws, ok, nil
}

func (s *projectService) Find(ctx context.Context, title string) (gateway.Worksheet, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return gateway.Worksheet{}, err
	}
	ws, ok := gateway.FindByTitle(projects, title)
	if !ok {
		return gateway.Worksheet{}, fmt.Errorf("%w: %q", gateway.ErrWorksheetNotFound, title)
	}
	return ws, nil
}

func (s *projectService) Load(ctx context.Context, ws gateway.Worksheet) (*domain.ProjectView, error) {
	start := s.now()
	view, err := s.load(ctx, ws)
	var fields map[string]any
	if view != nil {
		sum := view.Summary()
		fields = map[string]any{"tasks": sum.Total, "degraded": sum.Degraded}
	}
	s.observe(ctx, "load_project", ws, start, err, fields)
	return view, err
}

func (s *projectService) load(ctx context.Context, ws gateway.Worksheet) (*domain.ProjectView, error) {
	table, err := s.gw.ReadTable(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", ws.Title, err)
	}
	note, err := s.gw.GetCell(ctx, ws, domain.WeeklyNoteCell)
	if err != nil {
		return nil, fmt.Errorf("loading weekly note of %q: %w", ws.Title, err)
	}

	view := &domain.ProjectView{
		Title:          ws.Title,
		WeeklyNote:     note,
		Header:         table.Header,
		HeaderMismatch: !domain.HeaderMatches(table.Header),
		Tasks:          make([]domain.Task, 0, len(table.Rows)),
	}
	for i, row := range table.Rows {
		view.Tasks = append(view.Tasks, domain.ParseTask(i, row.Cells))
	}
	return view, nil
}

func (s *projectService) SetWeeklyNote(ctx context.Context, ws gateway.Worksheet, text string) (err error) {
	start := s.now()
	note := domain.NormalizeWeeklyNote(text)
	defer func() {
		s.observe(ctx, "set_weekly_note", ws, start, err, map[string]any{"length": len([]rune(note))})
	}()

	if err := s.gw.SetCell(ctx, ws, domain.WeeklyNoteCell, note); err != nil {
		return fmt.Errorf("saving weekly note of %q: %w", ws.Title, err)
	}
	return nil
}

func (s *projectService) UpdateTask(ctx context.Context, ws gateway.Worksheet, rowIndex int, status domain.TaskStatus, note string, progress int) (err error) {
	start := s.now()
	defer func() {
		s.observe(ctx, "update_task", ws, start, err, map[string]any{
			"row":      rowIndex,
			"status":   string(status),
			"progress": progress,
		})
	}()

	if rowIndex < 0 {
		return &domain.ValidationError{Field: "row", Message: fmt.Sprintf("%d is negative", rowIndex)}
	}
	if !status.Valid() {
		return &domain.ValidationError{Field: "status", Message: fmt.Sprintf("%q is not one of 예정, 진행중, 완료, 지연", string(status))}
	}
	if err := domain.ValidateProgress(progress); err != nil {
		return err
	}

	rng := domain.TaskEditRange(rowIndex)
	if err := s.gw.SetRange(ctx, ws, rng, [][]any{{string(status), note, progress}}); err != nil {
		return fmt.Errorf("saving %s of %q: %w", rng, ws.Title, err)
	}
	return nil
}
