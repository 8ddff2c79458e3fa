package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI. It owns the view stack
// and the lines every view shares: header, banner, notice and key hints.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool
}

func newAppModel(a *App) appModel {
	state := &SharedState{App: a}
	return appModel{
		state:     state,
		viewStack: []View{newDashboardView(state)},
	}
}

// runTUI opens the backend and runs the dashboard until the user quits.
func runTUI(ctx context.Context, a *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.ready(ctx); err != nil {
		return err
	}
	_, err := tea.NewProgram(newAppModel(a), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) pop() {
	if len(m.viewStack) > 1 {
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
}

// broadcast sends msg to every view on the stack so views underneath the
// active one reload too.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// refresh tells every view to drop its data, then reloads the project list
// and the active project once for all of them.
func (m *appModel) refresh() tea.Cmd {
	cmds := []tea.Cmd{m.broadcast(refreshViewMsg{}), loadProjectsCmd(m.state.App)}
	if m.state.HasActive() {
		cmds = append(cmds, loadProjectCmd(m.state.App, m.state.Active))
	}
	return tea.Batch(cmds...)
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, nil

	case popToRootMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:1]
		}
		return m, nil

	case refreshViewMsg:
		return m, m.refresh()

	case projectsLoadedMsg:
		if msg.err == nil {
			m.state.Banner = ""
		} else if text, place := app.Describe(msg.err); place == app.PlaceBanner {
			m.state.Banner = text
		}
		return m, m.broadcast(msg)

	case projectLoadedMsg:
		if !m.state.SetLoaded(msg.ws, msg.view, msg.err) {
			return m, nil
		}
		return m, m.broadcast(msg)

	case outcomeMsg:
		m.state.Record(msg.outcome)
		if msg.outcome.OK {
			switch msg.after {
			case afterDelete:
				m.state.ClearActive()
				if len(m.viewStack) > 1 {
					m.viewStack = m.viewStack[:1]
				}
			case afterCreate:
				m.state.SetActive(msg.outcome.Worksheet)
			}
		}
		if msg.outcome.Refresh {
			return m, m.refresh()
		}
		return m, nil

	case noticeMsg:
		m.state.Notice = app.Outcome{OK: true, Message: msg.text}
		return m, nil

	case wizardCompleteMsg:
		// Pop the form before running its follow-up so the outcome lands on
		// the view underneath.
		m.pop()
		return m, msg.nextCmd

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// A key press dismisses the last notice; the banner stays.
	m.state.Notice = app.Outcome{}

	// Forms get every key, including q and esc.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.pop()
		return m, nil
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if m.state.Banner != "" {
		sections = append(sections, renderBanner(m.state.Banner, m.state.Width))
	}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderNotice(), m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height so the alt-screen renderer leaves no stale lines.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("sitetrack")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	if m.state.HasActive() {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(m.state.Active.Title) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func renderBanner(text string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(formatter.ColorFg).
		Background(formatter.ColorRed).
		Bold(true).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render("! " + text)
}

// renderNotice shows the last outcome: green on success with an optional
// advisory hint, red otherwise. Banner failures are shown by the banner.
func (m *appModel) renderNotice() string {
	n := m.state.Notice
	switch {
	case n.Message == "":
		return ""
	case n.OK && n.Hint != "":
		return formatter.StyleGreen.Render(n.Message) + "  " + formatter.Warn(n.Hint)
	case n.OK:
		return formatter.StyleGreen.Render(n.Message)
	case n.Placement == app.PlaceBanner:
		return ""
	default:
		return formatter.StyleRed.Render(n.Message)
	}
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		if len(m.viewStack) > 1 && !viewCapturesInput(v) {
			hints = append(hints, formatter.Dim("esc: back"))
		}
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

// viewCapturesInput reports whether the view takes all key events,
// bypassing the global q and esc bindings.
func viewCapturesInput(v View) bool {
	return v != nil && v.ID() == ViewForm
}
