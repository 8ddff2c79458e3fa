package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// menuAction represents a single option in the project menu.
type menuAction struct {
	label string
	key   string // single-key shortcut
	fn    func() tea.Cmd
	// edits are disabled while the sheet is malformed.
	edits bool
}

// projectMenuView lists what can be done with the active project.
type projectMenuView struct {
	state   *SharedState
	cursor  int
	actions []menuAction
}

func newProjectMenuView(state *SharedState) *projectMenuView {
	v := &projectMenuView{state: state}
	v.actions = []menuAction{
		{label: "주간 특이사항 수정", key: "w", fn: v.actionWeeklyNote, edits: true},
		{label: "작업 수정", key: "t", fn: v.actionTasks, edits: true},
		{label: "이름 변경", key: "e", fn: v.actionRename},
		{label: "삭제", key: "x", fn: v.actionDelete},
	}
	return v
}

func (v *projectMenuView) ID() ViewID    { return ViewProjectMenu }
func (v *projectMenuView) Title() string { return "관리" }

func (v *projectMenuView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "선택")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "새로고침")),
	}
}

func (v *projectMenuView) Init() tea.Cmd {
	if v.state.View == nil && v.state.LoadErr == nil {
		return loadProjectCmd(v.state.App, v.state.Active)
	}
	return nil
}

func (v *projectMenuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.actions)-1 {
				v.cursor++
			}
		case "enter":
			return v, v.run(v.cursor)
		case "r":
			return v, refreshViews()
		default:
			for i, a := range v.actions {
				if msg.String() == a.key {
					v.cursor = i
					return v, v.run(i)
				}
			}
		}
	}
	return v, nil
}

func (v *projectMenuView) run(i int) tea.Cmd {
	if i < 0 || i >= len(v.actions) {
		return nil
	}
	a := v.actions[i]
	if a.edits && v.state.View == nil {
		if v.state.LoadErr != nil {
			msg, _ := app.Describe(v.state.LoadErr)
			return showNotice(msg)
		}
		return showNotice("프로젝트를 불러오는 중입니다.")
	}
	return a.fn()
}

func (v *projectMenuView) View() string {
	var b strings.Builder

	b.WriteString("\n  " + formatter.StyleHeader.Render("프로젝트 관리") + "\n")
	b.WriteString("  " + formatter.Bold(v.state.Active.Title) + "\n")
	switch {
	case v.state.View != nil:
		b.WriteString("  " + formatter.FormatSummary(v.state.View.Summary()) + "\n")
	case v.state.LoadErr != nil:
		msg, _ := app.Describe(v.state.LoadErr)
		b.WriteString("  " + formatter.StyleRed.Render(msg) + "\n")
	}
	b.WriteString("\n")

	for i, a := range v.actions {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		if a.edits && v.state.Blocked() {
			style = formatter.StyleDim
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", cursor, style.Render(a.label), formatter.Dim("["+a.key+"]")))
	}
	return b.String()
}

func (v *projectMenuView) actionWeeklyNote() tea.Cmd {
	return pushView(newWeeklyNoteForm(v.state, v.state.Active, v.state.View.WeeklyNote))
}

func (v *projectMenuView) actionTasks() tea.Cmd {
	return pushView(newTaskListView(v.state))
}

func (v *projectMenuView) actionRename() tea.Cmd {
	return pushView(newRenameForm(v.state, v.state.Active, v.state.Active.Title, ""))
}

func (v *projectMenuView) actionDelete() tea.Cmd {
	return pushView(newDeleteConfirmForm(v.state, v.state.Active))
}
