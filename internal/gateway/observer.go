package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CallEvent records one gateway call.
type CallEvent struct {
	Op        string
	Worksheet string
	Target    string
	Latency   time.Duration
	Err       error
}

// Outcome returns "ok" or a short error code for labels.
func (e CallEvent) Outcome() string {
	return ErrorCode(e.Err)
}

// ErrorCode maps gateway errors to stable short codes.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	case errors.Is(err, ErrDuplicateTitle):
		return "duplicate_title"
	case errors.Is(err, ErrLastWorksheet):
		return "last_worksheet"
	case errors.Is(err, ErrMalformedSheet):
		return "malformed"
	case errors.Is(err, ErrWorksheetNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// CallObserver receives an event after every gateway call.
type CallObserver interface {
	OnCall(ctx context.Context, event CallEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCall(context.Context, CallEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs each call as a gateway_call record. A nil logger
// yields a NoopObserver.
func NewLogObserver(logger *slog.Logger) CallObserver {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

// NewTextLogObserver is NewLogObserver over a text handler writing to w.
func NewTextLogObserver(w io.Writer, level slog.Level) CallObserver {
	if w == nil {
		return NoopObserver{}
	}
	return NewLogObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (o *logObserver) OnCall(ctx context.Context, e CallEvent) {
	attrs := []any{
		"op", e.Op,
		"worksheet", e.Worksheet,
		"latency_ms", e.Latency.Milliseconds(),
		"outcome", e.Outcome(),
	}
	if e.Target != "" {
		attrs = append(attrs, "target", e.Target)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err.Error())
		o.logger.WarnContext(ctx, "gateway_call", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "gateway_call", attrs...)
}

// MetricsObserver counts calls and records latency per operation and
// outcome.
type MetricsObserver struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetricsObserver registers its collectors with reg.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitetrack",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Spreadsheet backend calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitetrack",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Spreadsheet backend call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"op", "outcome"}),
	}
	for _, c := range []prometheus.Collector{m.calls, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsObserver) OnCall(_ context.Context, e CallEvent) {
	outcome := e.Outcome()
	m.calls.WithLabelValues(e.Op, outcome).Inc()
	m.latency.WithLabelValues(e.Op, outcome).Observe(e.Latency.Seconds())
}

// MultiObserver fans events out to each non-nil observer.
type MultiObserver []CallObserver

func (m MultiObserver) OnCall(ctx context.Context, e CallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCall(ctx, e)
		}
	}
}
