package cli

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/sitetrack/internal/teatest"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// TestDriver wraps teatest.Driver with access to appModel internals: the
// view stack and the shared state.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for a, sets a terminal size and drains
// Init, which loads the project list and the first project synchronously.
func NewTestDriver(t *testing.T, a *App) *TestDriver {
	t.Helper()
	if err := a.ready(t.Context()); err != nil {
		t.Fatalf("preparing app: %v", err)
	}
	d := teatest.New(t, newAppModel(a),
		teatest.WithCmdTimeout(2*time.Second),
		teatest.WithSize(120, 40),
	)
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveView returns the top view on the stack.
func (d *TestDriver) ActiveView() View {
	return d.appModel().activeView()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting reports whether the app asked to quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// ProjectTitles returns the titles listed on the dashboard.
func (d *TestDriver) ProjectTitles() []string {
	dash, ok := d.appModel().viewStack[0].(*dashboardView)
	if !ok {
		d.T.Fatalf("bottom view is %T, not the dashboard", d.appModel().viewStack[0])
	}
	var titles []string
	for _, ws := range dash.projects {
		titles = append(titles, ws.Title)
	}
	return titles
}

// Screen returns the rendered view without styling.
func (d *TestDriver) Screen() string {
	return stripANSI(d.View())
}

// Submit runs the done callback of the form on top of the stack as if the
// user had completed it, then pops the form the way the appModel does.
func (d *TestDriver) Submit() {
	d.T.Helper()
	w, ok := d.ActiveView().(*wizardView)
	if !ok {
		d.T.Fatalf("active view is %T, not a form", d.ActiveView())
	}
	d.Send(wizardCompleteMsg{nextCmd: w.done()})
}
