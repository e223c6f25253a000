package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Attributes map[string]any
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithAttribute sets an attribute when the span starts.
func WithAttribute(key string, value any) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]any)
		}
		c.Attributes[key] = value
	}
}

// Progress reports per-rule progress to the user.
type Progress interface {
	// Vertex starts reporting on one unit of work.
	Vertex(name string) ProgressVertex
	// Close flushes pending progress.
	Close() error
}

// ProgressVertex is one unit of reported work.
type ProgressVertex interface {
	// Stdout returns a writer for the vertex's output.
	Stdout() io.Writer
	// Cached marks the vertex as served from a previous result.
	Cached()
	// Done completes the vertex, failed when err is non-nil.
	Done(err error)
}
