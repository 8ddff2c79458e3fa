package cli

import (
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// taskListView lists the active project's tasks for editing. The cursor
// follows the task's row index, so it stays on the same row across reloads.
type taskListView struct {
	state  *SharedState
	tasks  []domain.Task
	cursor int
	// row index under the cursor, restored after a reload
	row int
}

func newTaskListView(state *SharedState) *taskListView {
	v := &taskListView{state: state, row: -1}
	v.sync()
	return v
}

func (v *taskListView) ID() ViewID    { return ViewTaskList }
func (v *taskListView) Title() string { return "작업" }

func (v *taskListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "수정")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "새로고침")),
	}
}

func (v *taskListView) Init() tea.Cmd { return nil }

// sync rebuilds the rows from the shared state.
func (v *taskListView) sync() {
	if v.state.View == nil {
		v.tasks = nil
		v.cursor = 0
		return
	}
	v.tasks = v.state.View.VisibleTasks()
	v.cursor = 0
	for i, t := range v.tasks {
		if t.Row == v.row {
			v.cursor = i
			break
		}
	}
	if t, ok := v.current(); ok {
		v.row = t.Row
	}
}

func (v *taskListView) current() (domain.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return domain.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *taskListView) move(delta int) {
	next := v.cursor + delta
	if next < 0 || next >= len(v.tasks) {
		return
	}
	v.cursor = next
	v.row = v.tasks[next].Row
}

func (v *taskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectLoadedMsg:
		v.sync()
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.move(-1)
		case "down", "j":
			v.move(1)
		case "r":
			return v, refreshViews()
		case "enter":
			if t, ok := v.current(); ok {
				return v, pushView(newTaskEditForm(v.state, v.state.Active, t))
			}
		}
	}
	return v, nil
}

func (v *taskListView) View() string {
	if v.state.View == nil {
		if v.state.LoadErr != nil {
			msg, _ := app.Describe(v.state.LoadErr)
			return "\n  " + formatter.StyleRed.Render(msg)
		}
		return "\n  " + formatter.Dim("불러오는 중...")
	}
	if len(v.tasks) == 0 {
		return "\n  " + formatter.Dim("등록된 작업이 없습니다.")
	}

	rows := make([][]string, len(v.tasks))
	for i, t := range v.tasks {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		rows[i] = append([]string{cursor}, formatter.TaskCells(t)...)
	}
	table := formatter.RenderTable(append([]string{""}, formatter.TaskHeaders...), rows)

	// header and rule stay; the body scrolls to keep the cursor visible
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	head, body := lines[:2], lines[2:]
	height := max(v.state.ContentHeight()-3, 1)
	if v.state.Height == 0 {
		height = len(body)
	}
	start := 0
	if v.cursor >= height {
		start = v.cursor - height + 1
	}
	end := min(start+height, len(body))

	out := "\n" + strings.Join(head, "\n") + "\n" + strings.Join(body[start:end], "\n")
	if v.state.Width > 0 {
		out = lipgloss.NewStyle().MaxWidth(v.state.Width).Render(out)
	}
	return out
}
