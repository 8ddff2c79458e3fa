package app

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// IntentEvent captures one dashboard intent.
type IntentEvent struct {
	Name      string
	Project   string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// IntentObserver receives intent events.
type IntentObserver interface {
	ObserveIntent(ctx context.Context, event IntentEvent)
}

// NoopIntentObserver ignores all events.
type NoopIntentObserver struct{}

func (NoopIntentObserver) ObserveIntent(context.Context, IntentEvent) {}

type logIntentObserver struct {
	logger *slog.Logger
}

// NewLogIntentObserver logs intents as dashboard_intent records.
func NewLogIntentObserver(logger *slog.Logger) IntentObserver {
	if logger == nil {
		return NoopIntentObserver{}
	}
	return &logIntentObserver{logger: logger}
}

// NewTextLogIntentObserver is NewLogIntentObserver over a text handler.
func NewTextLogIntentObserver(w io.Writer) IntentObserver {
	if w == nil {
		return NoopIntentObserver{}
	}
	return NewLogIntentObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func (o *logIntentObserver) ObserveIntent(ctx context.Context, event IntentEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"intent", event.Name,
		"project", event.Project,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "dashboard_intent", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "dashboard_intent", attrs...)
}

func intentObserverOrNoop(observers []IntentObserver) IntentObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopIntentObserver{}
}
