package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// FlowEvent captures lightweight execution telemetry for one completion
// or payment flow step.
type FlowEvent struct {
	Name     string
	Duration time.Duration
	Success  bool
	Err      error
	Fields   map[string]any
}

// FlowObserver receives flow execution events.
type FlowObserver interface {
	ObserveFlow(ctx context.Context, event FlowEvent)
}

// NoopFlowObserver ignores all events.
type NoopFlowObserver struct{}

func (NoopFlowObserver) ObserveFlow(context.Context, FlowEvent) {}

type logFlowObserver struct {
	logger *slog.Logger
}

// NewLogFlowObserver writes flow events to the provided writer.
func NewLogFlowObserver(w io.Writer) FlowObserver {
	if w == nil {
		return NoopFlowObserver{}
	}
	return &logFlowObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logFlowObserver) ObserveFlow(ctx context.Context, event FlowEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"flow", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "completion_flow", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "completion_flow", attrs...)
}
