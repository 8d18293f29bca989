// Package trace installs the process-wide OpenTelemetry tracer provider.
// Packages start spans through otel.Tracer; without Setup those spans go to
// the default no-op provider.
package trace

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Options selects the OTLP collector. An empty Endpoint disables export.
type Options struct {
	Endpoint    string
	ServiceName string
	Insecure    bool
}

// Exporter owns the SDK tracer provider installed by Setup.
type Exporter struct {
	provider *sdktrace.TracerProvider
}

// Setup installs an OTLP/HTTP tracer provider as the global provider.
// Returns nil if no endpoint is configured (disabled).
func Setup(ctx context.Context, opts Options) (*Exporter, error) {
	if opts.Endpoint == "" {
		return nil, nil // Disabled
	}

	httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, httpOpts...)
	if err != nil {
		return nil, err
	}

	e := New(sdktrace.WithBatcher(exporter), sdktrace.WithResource(serviceResource(opts.ServiceName)))
	log.Printf("trace.Setup: exporting spans to %s", opts.Endpoint)
	return e, nil
}

// New installs a tracer provider built from opts as the global provider.
// Tests pass a span processor such as tracetest.SpanRecorder.
func New(opts ...sdktrace.TracerProviderOption) *Exporter {
	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)
	return &Exporter{provider: provider}
}

func serviceResource(name string) *resource.Resource {
	if name == "" {
		name = "ipedsviz"
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(name),
	)
}

// Tracer returns a named tracer from the installed provider.
func (e *Exporter) Tracer(name string) oteltrace.Tracer {
	if e == nil {
		return otel.Tracer(name)
	}
	return e.provider.Tracer(name)
}

// Shutdown flushes and closes the exporter
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
