package telemetry

import (
	"context"

	"go.trai.ch/moor/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that discards all telemetry.
// It is used when tracing is disabled.
type NoOpTracer struct{}

// NewNoOpTracer creates a tracer that does nothing.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns the context unchanged and a span that discards everything.
func (t *NoOpTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, NoOpSpan{}
}

// NoOpSpan is a ports.Span that discards everything.
type NoOpSpan struct{}

// End does nothing.
func (NoOpSpan) End() {}

// RecordError does nothing.
func (NoOpSpan) RecordError(error) {}

// SetAttribute does nothing.
func (NoOpSpan) SetAttribute(string, string) {}
