// Package mux is a small router over http.ServeMux whose handlers return
// errors and are wrapped by middleware.
package mux

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Mux routes requests to Handlers.
type Mux struct {
	mux    *http.ServeMux
	mw     []Middleware
	log    *slog.Logger
	tracer trace.Tracer
}

// Handler is a http.Handler that returns an error.
type Handler func(w http.ResponseWriter, r *http.Request) error

// Middleware defines a signature to chain Handler together.
type Middleware func(handler Handler) Handler

func New(optFns ...Option) *Mux {
	var opts options
	for _, opt := range optFns {
		opt(&opts)
	}

	m := &Mux{
		mux:    http.NewServeMux(),
		log:    slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	if opts.logger != nil {
		m.log = opts.logger
	}

	if opts.tracer != nil {
		m.tracer = opts.tracer
	}

	return m
}

// Use appends middleware applied to every handler registered afterwards.
func (m *Mux) Use(mw ...Middleware) {
	m.mw = append(m.mw, mw...)
}

func (m *Mux) Get(path string, fn Handler, mw ...Middleware) {
	m.handle(http.MethodGet, path, fn, mw...)
}

// ServeHTTP implements http.Handler.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

func (m *Mux) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrap(mw, handler)
	handler = wrap(m.mw, handler)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.startSpan(w, r)
		defer span.End()

		v := Values{
			TraceID: span.SpanContext().TraceID().String(),
			Now:     time.Now().UTC(),
		}
		r = r.WithContext(setValues(ctx, &v))

		if err := handler(w, r); err != nil {
			m.log.Error("unhandled error", "method", method, "path", path, "error", err)
		}
	}

	m.mux.HandleFunc(method+" "+path, h)
}

// wrap middleware around the handler and execute in order given.
func wrap(mw []Middleware, handler Handler) Handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			handler = mwFn(handler)
		}
	}

	return handler
}

// startSpan adds a span to the request and writes the trace context
// into the response headers.
func (m *Mux) startSpan(w http.ResponseWriter, r *http.Request) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	ctx, span := m.tracer.Start(ctx, "mux.handler")
	span.SetAttributes(attribute.String("path", r.URL.Path))

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

	return ctx, span
}
