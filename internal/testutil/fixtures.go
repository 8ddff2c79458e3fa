package testutil

import (
	"context"
	"strconv"
	"testing"

	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// TaskRow is one task row as written into a fixture worksheet, columns B..G.
type TaskRow struct {
	Name     string
	Start    string
	End      string
	Status   string
	Note     string
	Progress string
}

// Cells returns the row as spreadsheet values for B..G.
func (r TaskRow) Cells() []any {
	return []any{r.Name, r.Start, r.End, r.Status, r.Note, r.Progress}
}

type projectFixture struct {
	note    *string
	tasks   []TaskRow
	skipped map[int]bool
}

// ProjectOption customizes SeedProject.
type ProjectOption func(*projectFixture)

// WithWeeklyNote writes F2 after the task rows.
func WithWeeklyNote(text string) ProjectOption {
	return func(p *projectFixture) {
		p.note = &text
	}
}

// WithTask appends a task row.
func WithTask(name, start, end, status, note string, progress int) ProjectOption {
	return func(p *projectFixture) {
		p.tasks = append(p.tasks, TaskRow{name, start, end, status, note, strconv.Itoa(progress)})
	}
}

// WithRawTask appends a task row whose cells are written verbatim.
func WithRawTask(row TaskRow) ProjectOption {
	return func(p *projectFixture) {
		p.tasks = append(p.tasks, row)
	}
}

// WithBlankRow appends an empty row between tasks.
func WithBlankRow() ProjectOption {
	return func(p *projectFixture) {
		p.skipped[len(p.tasks)] = true
		p.tasks = append(p.tasks, TaskRow{})
	}
}

// SeedProject duplicates the template worksheet into a new project titled
// title and fills it according to opts.
func SeedProject(t *testing.T, gw gateway.Gateway, title string, opts ...ProjectOption) gateway.Worksheet {
	t.Helper()
	ctx := context.Background()

	fx := &projectFixture{skipped: map[int]bool{}}
	for _, opt := range opts {
		opt(fx)
	}

	all, err := gw.ListWorksheets(ctx)
	if err != nil {
		t.Fatalf("listing worksheets: %v", err)
	}
	tpl, ok := gateway.FindByTitle(all, TemplateTitle)
	if !ok {
		t.Fatalf("template worksheet %q missing", TemplateTitle)
	}
	ws, err := gw.Duplicate(ctx, tpl, title)
	if err != nil {
		t.Fatalf("creating project %q: %v", title, err)
	}

	for i, row := range fx.tasks {
		if fx.skipped[i] {
			continue
		}
		r := strconv.Itoa(i + 2)
		if err := gw.SetRange(ctx, ws, "A"+r+":G"+r, [][]any{append([]any{strconv.Itoa(i + 1)}, row.Cells()...)}); err != nil {
			t.Fatalf("writing task row %d: %v", i, err)
		}
	}
	if fx.note != nil {
		if err := gw.SetCell(ctx, ws, "F2", *fx.note); err != nil {
			t.Fatalf("writing weekly note: %v", err)
		}
	}
	return ws
}
