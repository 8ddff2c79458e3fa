package service

import (
	"context"
	"log/slog"
	"time"
)

// UseCaseEvent captures one ProjectService call.
type UseCaseEvent struct {
	Name      string
	Worksheet string
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// UseCaseObserver receives use-case events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs events as project_use_case records. Successful
// reads are logged at debug level so a dashboard refresh does not flood the
// log.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"worksheet", event.Worksheet,
		"duration_ms", event.Duration.Milliseconds(),
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	switch {
	case event.Err != nil:
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "project_use_case", attrs...)
	case event.Name == "load_project":
		o.logger.DebugContext(ctx, "project_use_case", attrs...)
	default:
		o.logger.InfoContext(ctx, "project_use_case", attrs...)
	}
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
