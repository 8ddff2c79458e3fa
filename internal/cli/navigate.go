package cli

import (
	"github.com/alexanderramin/sitetrack/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// popToRootMsg drops every view above the dashboard.
type popToRootMsg struct{}

// refreshViewMsg is broadcast to every view on the stack so each reloads
// from the backend.
type refreshViewMsg struct{}

// outcomeMsg carries the result of a dashboard intent. The appModel shows
// its message and broadcasts a refresh when the outcome asks for one.
type outcomeMsg struct {
	outcome app.Outcome
	after   afterOutcome
}

// afterOutcome is navigation applied when an intent succeeds.
type afterOutcome int

const (
	afterNone afterOutcome = iota
	// afterDelete returns to the dashboard and forgets the deleted project.
	afterDelete
	// afterCreate selects the new project on the dashboard.
	afterCreate
)

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// noticeMsg shows a transient line without touching the backend.
type noticeMsg struct {
	text string
}

type quitMsg struct{}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func popToRoot() tea.Cmd {
	return func() tea.Msg { return popToRootMsg{} }
}

func refreshViews() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}

func showNotice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}
