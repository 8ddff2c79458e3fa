package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	"github.com/alexanderramin/sitetrack/internal/service"
)

// DashboardController turns UI intents into at most one backend mutation
// each and reports the result as an Outcome. It holds no state between
// requests; build one per request.
type DashboardController struct {
	projects service.ProjectService
	gw       gateway.Gateway
	observer IntentObserver
	now      func() time.Time
}

func NewDashboardController(projects service.ProjectService, gw gateway.Gateway, observers ...IntentObserver) *DashboardController {
	return &DashboardController{
		projects: projects,
		gw:       gw,
		observer: intentObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (c *DashboardController) observe(ctx context.Context, name, project string, start time.Time, out Outcome, fields map[string]any) {
	c.observer.ObserveIntent(ctx, IntentEvent{
		Name:      name,
		Project:   project,
		Duration:  c.now().Sub(start),
		Success:   out.OK,
		Err:       out.Err,
		Fields:    fields,
		StartedAt: start,
	})
}

func (c *DashboardController) Projects(ctx context.Context) ([]gateway.Worksheet, error) {
	return c.projects.Projects(ctx)
}

func (c *DashboardController) Open(ctx context.Context, ws gateway.Worksheet) (*domain.ProjectView, error) {
	return c.projects.Load(ctx, ws)
}

func (c *DashboardController) SaveWeeklyNote(ctx context.Context, ws gateway.Worksheet, text string) Outcome {
	start := c.now()
	out := success("주간 특이사항을 저장했습니다.")
	if err := c.projects.SetWeeklyNote(ctx, ws, text); err != nil {
		out = failure(err)
	}
	out.Worksheet = ws
	c.observe(ctx, "save_weekly_note", ws.Title, start, out, nil)
	return out
}

func (c *DashboardController) SaveTaskEdit(ctx context.Context, ws gateway.Worksheet, edit TaskEdit) Outcome {
	start := c.now()
	out := success(fmt.Sprintf("%d행 작업을 저장했습니다.", domain.TaskSheetRow(edit.Row)))
	err := c.projects.UpdateTask(ctx, ws, edit.Row, edit.Status, edit.Note, edit.Progress)
	switch {
	case err == nil:
		out.Hint = domain.StatusAdvice(edit.Status, edit.Progress)
	case errors.Is(err, domain.ErrValidation):
		out = failure(err)
	default:
		// The range write may have partly landed; show what the sheet holds.
		out = failure(err)
		out.Refresh = true
	}
	out.Worksheet = ws
	c.observe(ctx, "save_task_edit", ws.Title, start, out, map[string]any{
		"row":      edit.Row,
		"status":   string(edit.Status),
		"progress": edit.Progress,
	})
	return out
}

func (c *DashboardController) RenameProject(ctx context.Context, ws gateway.Worksheet, newTitle string) Outcome {
	start := c.now()
	out := c.rename(ctx, ws, newTitle)
	c.observe(ctx, "rename_project", ws.Title, start, out, map[string]any{"new_title": newTitle})
	return out
}

func (c *DashboardController) rename(ctx context.Context, ws gateway.Worksheet, newTitle string) Outcome {
	// Checked before validation: a title another backend allowed, e.g. one
	// containing '/', must still be accepted as unchanged.
	if strings.TrimSpace(newTitle) == ws.Title {
		return Outcome{OK: true, Message: "이름이 바뀌지 않았습니다.", Worksheet: ws}
	}
	title, err := domain.NormalizeTitle(newTitle)
	if err != nil {
		return failure(err)
	}
	if err := c.gw.Rename(ctx, ws, title); err != nil {
		out := failure(fmt.Errorf("renaming %q: %w", ws.Title, err))
		if errors.Is(err, gateway.ErrDuplicateTitle) {
			out.Message = fmt.Sprintf("%q 이름의 프로젝트가 이미 있습니다.", title)
		}
		return out
	}
	ws.Title = title
	out := success(fmt.Sprintf("프로젝트 이름을 %q(으)로 바꿨습니다.", title))
	out.Worksheet = ws
	return out
}

func (c *DashboardController) DeleteProject(ctx context.Context, ws gateway.Worksheet) Outcome {
	start := c.now()
	out := c.delete(ctx, ws)
	c.observe(ctx, "delete_project", ws.Title, start, out, nil)
	return out
}

func (c *DashboardController) delete(ctx context.Context, ws gateway.Worksheet) Outcome {
	all, err := c.projects.Worksheets(ctx)
	if err != nil {
		return failure(err)
	}
	if len(all) <= 1 {
		return failure(gateway.ErrLastWorksheet)
	}
	if err := c.gw.Delete(ctx, ws); err != nil {
		return failure(fmt.Errorf("deleting %q: %w", ws.Title, err))
	}
	return success(fmt.Sprintf("프로젝트 %q을(를) 삭제했습니다.", ws.Title))
}

// CreateProject duplicates the template worksheet under a new title.
func (c *DashboardController) CreateProject(ctx context.Context, title string) Outcome {
	start := c.now()
	out := c.create(ctx, title)
	c.observe(ctx, "create_project", title, start, out, nil)
	return out
}

func (c *DashboardController) create(ctx context.Context, title string) Outcome {
	name, err := domain.NormalizeTitle(title)
	if err != nil {
		return failure(err)
	}
	tpl, ok, err := c.projects.Template(ctx)
	if err != nil {
		return failure(err)
	}
	if !ok {
		return Outcome{Message: "템플릿 시트가 없어 프로젝트를 만들 수 없습니다.", Placement: PlaceBanner, Err: gateway.ErrWorksheetNotFound}
	}
	ws, err := c.gw.Duplicate(ctx, tpl, name)
	if err != nil {
		return failure(fmt.Errorf("creating %q: %w", name, err))
	}
	out := success(fmt.Sprintf("프로젝트 %q을(를) 만들었습니다.", name))
	out.Worksheet = ws
	return out
}
