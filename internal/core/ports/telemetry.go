package ports

import "context"

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer starts spans around units of resolution work.
type Tracer interface {
	// Start begins a span and returns a context carrying it.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span is one traced unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError attaches an error to the span.
	RecordError(err error)
	// SetAttribute attaches a key/value attribute to the span.
	SetAttribute(key, value string)
}
