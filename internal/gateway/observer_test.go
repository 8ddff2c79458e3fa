package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureObserver struct {
	events []CallEvent
}

func (c *captureObserver) OnCall(_ context.Context, e CallEvent) {
	c.events = append(c.events, e)
}

func TestObserved_ReportsEveryCall(t *testing.T) {
	inner, _ := openSQLite(t)
	obs := &captureObserver{}
	gw := Observe(inner, obs)
	ctx := context.Background()

	all, err := gw.ListWorksheets(ctx)
	require.NoError(t, err)
	require.NoError(t, gw.SetRange(ctx, all[0], "E2:G2", [][]any{{"완료", "", 100}}))
	err = gw.Delete(ctx, all[0])
	require.ErrorIs(t, err, ErrLastWorksheet)

	require.Len(t, obs.events, 3)
	assert.Equal(t, "list_worksheets", obs.events[0].Op)
	assert.Equal(t, "set_range", obs.events[1].Op)
	assert.Equal(t, "E2:G2", obs.events[1].Target)
	assert.Equal(t, templateTitle, obs.events[1].Worksheet)
	assert.Equal(t, "ok", obs.events[1].Outcome())
	assert.Equal(t, "last_worksheet", obs.events[2].Outcome())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "ok", ErrorCode(nil))
	assert.Equal(t, "unavailable", ErrorCode(fmt.Errorf("listing: %w", ErrBackendUnavailable)))
	assert.Equal(t, "duplicate_title", ErrorCode(ErrDuplicateTitle))
	assert.Equal(t, "not_found", ErrorCode(ErrWorksheetNotFound))
	assert.Equal(t, "canceled", ErrorCode(context.Canceled))
	assert.Equal(t, "error", ErrorCode(fmt.Errorf("other")))
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewTextLogObserver(&buf, slog.LevelDebug)

	obs.OnCall(context.Background(), CallEvent{Op: "rename", Worksheet: "A", Target: "B", Err: ErrDuplicateTitle})

	out := buf.String()
	assert.Contains(t, out, "gateway_call")
	assert.Contains(t, out, "op=rename")
	assert.Contains(t, out, "outcome=duplicate_title")
	assert.Contains(t, out, "level=WARN")
}

func TestLogObserver_NilWriterIsNoop(t *testing.T) {
	assert.IsType(t, NoopObserver{}, NewTextLogObserver(nil, slog.LevelInfo))
	assert.IsType(t, NoopObserver{}, NewLogObserver(nil))
}

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsObserver(reg)
	require.NoError(t, err)

	MultiObserver{m, nil}.OnCall(context.Background(), CallEvent{Op: "set_range"})
	m.OnCall(context.Background(), CallEvent{Op: "set_range", Err: ErrBackendUnavailable})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("set_range", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("set_range", "unavailable")))

	_, err = NewMetricsObserver(reg)
	assert.Error(t, err, "double registration")
}
