// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs every returned Cmd to completion
// before returning, so a test can press a key and immediately inspect the
// model. Cmds that block longer than the driver's timeout, such as cursor
// blink ticks, are dropped.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many follow-up Cmds one message may chain.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates message factories and backend calls, which
// return at once, from blink and tick Cmds, which wait on a timer.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when a tea.QuitMsg is produced. The bubbletea runtime
	// normally consumes it, so the model may never see it.
	Quitting bool

	cmdTimeout time.Duration
	dropped    int
}

// Option configures a Driver.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit afterwards to run Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout changes how long a Cmd may run before it is dropped. Raise
// it when Cmds do real I/O, e.g. against a database.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.cmdTimeout = timeout
	}
}

// DrainInit runs the model's Init Cmd and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send delivers msg and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Run executes cmd as if the model had returned it, e.g. a command built
// by a form's submit callback.
func (d *Driver) Run(cmd tea.Cmd) {
	d.T.Helper()
	d.drain(cmd, 0)
}

// SendKey delivers a key press.
func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

// PressKey delivers a single rune key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyTab})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyDown})
}

// Type delivers s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the model's rendered output.
func (d *Driver) View() string {
	return d.Model.View()
}

// Dropped reports how many Cmds timed out so far.
func (d *Driver) Dropped() int {
	return d.dropped
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := d.exec(cmd)
	if !ok {
		d.dropped++
		return
	}
	if msg == nil || isCursorBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

// exec runs cmd on its own goroutine and waits up to the driver timeout.
// ok is false when the Cmd did not return in time.
func (d *Driver) exec(cmd tea.Cmd) (msg tea.Msg, ok bool) {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d.cmdTimeout):
		return nil, false
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor,
// which chain into further timer Cmds.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
