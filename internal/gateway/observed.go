package gateway

import (
	"context"
	"time"
)

// Observed wraps a Gateway and reports every call to an observer.
type Observed struct {
	next Gateway
	obs  CallObserver
	now  func() time.Time
}

// Observe decorates gw. A nil observer is replaced with NoopObserver.
func Observe(gw Gateway, obs CallObserver) *Observed {
	if obs == nil {
		obs = NoopObserver{}
	}
	return &Observed{next: gw, obs: obs, now: time.Now}
}

func (o *Observed) report(ctx context.Context, op string, ws Worksheet, target string, start time.Time, err error) {
	o.obs.OnCall(ctx, CallEvent{
		Op:        op,
		Worksheet: ws.Title,
		Target:    target,
		Latency:   o.now().Sub(start),
		Err:       err,
	})
}

func (o *Observed) ListWorksheets(ctx context.Context) ([]Worksheet, error) {
	start := o.now()
	out, err := o.next.ListWorksheets(ctx)
	o.report(ctx, "list_worksheets", Worksheet{}, "", start, err)
	return out, err
}

func (o *Observed) ReadTable(ctx context.Context, ws Worksheet) (*Table, error) {
	start := o.now()
	t, err := o.next.ReadTable(ctx, ws)
	o.report(ctx, "read_table", ws, "", start, err)
	return t, err
}

func (o *Observed) GetCell(ctx context.Context, ws Worksheet, cell string) (string, error) {
	start := o.now()
	v, err := o.next.GetCell(ctx, ws, cell)
	o.report(ctx, "get_cell", ws, cell, start, err)
	return v, err
}

func (o *Observed) SetCell(ctx context.Context, ws Worksheet, cell string, value any) error {
	start := o.now()
	err := o.next.SetCell(ctx, ws, cell, value)
	o.report(ctx, "set_cell", ws, cell, start, err)
	return err
}

func (o *Observed) SetRange(ctx context.Context, ws Worksheet, rng string, values [][]any) error {
	start := o.now()
	err := o.next.SetRange(ctx, ws, rng, values)
	o.report(ctx, "set_range", ws, rng, start, err)
	return err
}

func (o *Observed) Rename(ctx context.Context, ws Worksheet, newTitle string) error {
	start := o.now()
	err := o.next.Rename(ctx, ws, newTitle)
	o.report(ctx, "rename", ws, newTitle, start, err)
	return err
}

func (o *Observed) Delete(ctx context.Context, ws Worksheet) error {
	start := o.now()
	err := o.next.Delete(ctx, ws)
	o.report(ctx, "delete", ws, "", start, err)
	return err
}

func (o *Observed) Duplicate(ctx context.Context, src Worksheet, newTitle string) (Worksheet, error) {
	start := o.now()
	out, err := o.next.Duplicate(ctx, src, newTitle)
	o.report(ctx, "duplicate", src, newTitle, start, err)
	return out, err
}
