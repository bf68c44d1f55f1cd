package mux

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Mux.
type Option func(*options)

type options struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// WithLogger sets the logger used for errors no middleware handled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithTracer injects the given tracer into the Mux.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) {
		opts.tracer = tracer
	}
}
