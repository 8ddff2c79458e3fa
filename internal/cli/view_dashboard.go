package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dashboardView is the home screen: a selectable project list on the left
// and the selected project's weekly note, summary and task table on the
// right. Moving the cursor makes that project the active one.
type dashboardView struct {
	state    *SharedState
	projects []gateway.Worksheet
	loading  bool
	err      error
	cursor   int

	// Scrolls the detail pane with pgup/pgdown.
	detail viewport.Model
}

func newDashboardView(state *SharedState) *dashboardView {
	vp := viewport.New(0, 0)
	vp.KeyMap = detailViewportKeyMap()
	return &dashboardView{
		state:   state,
		loading: true,
		detail:  vp,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "대시보드" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "관리")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "새 프로젝트")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "새로고침")),
		key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "스크롤")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "종료")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return loadProjectsCmd(v.state.App)
}

func (v *dashboardView) selected() (gateway.Worksheet, bool) {
	if v.cursor < 0 || v.cursor >= len(v.projects) {
		return gateway.Worksheet{}, false
	}
	return v.projects[v.cursor], true
}

// selectCursor makes the project under the cursor active and loads it
// unless it already is.
func (v *dashboardView) selectCursor() tea.Cmd {
	ws, ok := v.selected()
	if !ok {
		v.state.ClearActive()
		return nil
	}
	if ws.ID == v.state.Active.ID {
		v.state.SetActive(ws)
		return nil
	}
	v.state.SetActive(ws)
	v.detail.GotoTop()
	v.syncDetail()
	return loadProjectCmd(v.state.App, ws)
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.syncDetail()
		return v, nil

	case projectsLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.projects = msg.projects
		v.cursor = min(v.cursor, max(len(v.projects)-1, 0))
		for i, ws := range v.projects {
			if ws.ID == v.state.Active.ID {
				v.cursor = i
				break
			}
		}
		return v, v.selectCursor()

	case projectLoadedMsg:
		v.syncDetail()
		return v, nil

	case refreshViewMsg:
		v.loading = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
				return v, v.selectCursor()
			}
		case "down", "j":
			if v.cursor < len(v.projects)-1 {
				v.cursor++
				return v, v.selectCursor()
			}
		case "enter":
			if _, ok := v.selected(); ok {
				return v, pushView(newProjectMenuView(v.state))
			}
		case "n":
			return v, pushView(newCreateProjectForm(v.state))
		case "r":
			return v, refreshViews()
		default:
			var cmd tea.Cmd
			v.detail, cmd = v.detail.Update(msg)
			return v, cmd
		}
	}
	return v, nil
}

const dashLeftPaneWidth = 36

func (v *dashboardView) splitLayout() bool {
	return v.state.Width >= 80
}

func (v *dashboardView) rightWidth() int {
	if !v.splitLayout() {
		return max(v.state.Width, 20)
	}
	return max(v.state.Width-dashLeftPaneWidth-3, 20)
}

// syncDetail re-renders the detail pane from the shared state.
func (v *dashboardView) syncDetail() {
	v.detail.Width = v.rightWidth()
	v.detail.Height = max(v.state.ContentHeight(), 1)
	v.detail.SetContent(renderProjectDetail(v.state))
}

func (v *dashboardView) View() string {
	if v.loading && v.projects == nil {
		return "\n  " + formatter.Dim("불러오는 중...")
	}
	if v.err != nil && v.projects == nil {
		msg, _ := app.Describe(v.err)
		return "\n  " + formatter.StyleRed.Render(msg)
	}
	if len(v.projects) == 0 {
		return "\n  " + formatter.Dim("프로젝트가 없습니다. 'n'을 눌러 새 프로젝트를 만드세요.") + "\n"
	}

	left := v.renderLeftPane()
	if !v.splitLayout() {
		return left + "\n" + v.detail.View()
	}

	leftCol := lipgloss.NewStyle().Width(dashLeftPaneWidth).Render(left)
	divider := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " "+divider+" ", v.detail.View())
}

func (v *dashboardView) renderLeftPane() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("프로젝트") + formatter.Dim(fmt.Sprintf(" (%d)", len(v.projects))) + "\n\n")

	for i, ws := range v.projects {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		b.WriteString(cursor + style.Render(formatter.Truncate(ws.Title, dashLeftPaneWidth-4)) + "\n")
	}
	return b.String()
}

// renderProjectDetail renders the active project for the right pane. A
// malformed sheet blocks only this project.
func renderProjectDetail(state *SharedState) string {
	switch {
	case !state.HasActive():
		return formatter.Dim("프로젝트를 선택하세요.")
	case state.LoadErr != nil:
		msg, _ := app.Describe(state.LoadErr)
		return formatter.Header(state.Active.Title) + "\n\n" + formatter.StyleRed.Render(msg)
	case state.View == nil:
		return formatter.Dim("불러오는 중...")
	}
	return formatter.FormatProjectView(state.View)
}

// detailViewportKeyMap leaves arrow and letter keys to the project list.
func detailViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}
}
