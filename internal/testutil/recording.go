package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/sitetrack/internal/gateway"
)

// Call is one recorded gateway invocation.
type Call struct {
	Op        string
	Worksheet string
	Target    string
	Values    [][]any
}

// RecordingGateway records every call before delegating. Errors set in Fail
// are returned instead of delegating.
type RecordingGateway struct {
	Next gateway.Gateway
	Fail map[string]error

	mu    sync.Mutex
	calls []Call
}

func NewRecordingGateway(next gateway.Gateway) *RecordingGateway {
	return &RecordingGateway{Next: next, Fail: map[string]error{}}
}

func (r *RecordingGateway) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.Fail[c.Op]
}

// Calls returns a copy of all recorded calls.
func (r *RecordingGateway) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Mutations returns the recorded calls that change the document.
func (r *RecordingGateway) Mutations() []Call {
	var out []Call
	for _, c := range r.Calls() {
		switch c.Op {
		case "SetCell", "SetRange", "Rename", "Delete", "Duplicate":
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (r *RecordingGateway) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *RecordingGateway) ListWorksheets(ctx context.Context) ([]gateway.Worksheet, error) {
	if err := r.record(Call{Op: "ListWorksheets"}); err != nil {
		return nil, err
	}
	return r.Next.ListWorksheets(ctx)
}

func (r *RecordingGateway) ReadTable(ctx context.Context, ws gateway.Worksheet) (*gateway.Table, error) {
	if err := r.record(Call{Op: "ReadTable", Worksheet: ws.Title}); err != nil {
		return nil, err
	}
	return r.Next.ReadTable(ctx, ws)
}

func (r *RecordingGateway) GetCell(ctx context.Context, ws gateway.Worksheet, cell string) (string, error) {
	if err := r.record(Call{Op: "GetCell", Worksheet: ws.Title, Target: cell}); err != nil {
		return "", err
	}
	return r.Next.GetCell(ctx, ws, cell)
}

func (r *RecordingGateway) SetCell(ctx context.Context, ws gateway.Worksheet, cell string, value any) error {
	if err := r.record(Call{Op: "SetCell", Worksheet: ws.Title, Target: cell, Values: [][]any{{value}}}); err != nil {
		return err
	}
	return r.Next.SetCell(ctx, ws, cell, value)
}

func (r *RecordingGateway) SetRange(ctx context.Context, ws gateway.Worksheet, rng string, values [][]any) error {
	if err := r.record(Call{Op: "SetRange", Worksheet: ws.Title, Target: rng, Values: values}); err != nil {
		return err
	}
	return r.Next.SetRange(ctx, ws, rng, values)
}

func (r *RecordingGateway) Rename(ctx context.Context, ws gateway.Worksheet, newTitle string) error {
	if err := r.record(Call{Op: "Rename", Worksheet: ws.Title, Target: newTitle}); err != nil {
		return err
	}
	return r.Next.Rename(ctx, ws, newTitle)
}

func (r *RecordingGateway) Delete(ctx context.Context, ws gateway.Worksheet) error {
	if err := r.record(Call{Op: "Delete", Worksheet: ws.Title}); err != nil {
		return err
	}
	return r.Next.Delete(ctx, ws)
}

func (r *RecordingGateway) Duplicate(ctx context.Context, src gateway.Worksheet, newTitle string) (gateway.Worksheet, error) {
	if err := r.record(Call{Op: "Duplicate", Worksheet: src.Title, Target: newTitle}); err != nil {
		return gateway.Worksheet{}, err
	}
	return r.Next.Duplicate(ctx, src, newTitle)
}

var _ gateway.Gateway = (*RecordingGateway)(nil)
