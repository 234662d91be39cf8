package config

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/version"
)

type Telemetry struct {
	ctx context.Context
	tp  *sdktrace.TracerProvider
}

func (t *Telemetry) Shutdown() {
	if err := t.tp.Shutdown(t.ctx); err != nil {
		log.Warn("could not shutdown tracer provider", log.ErrorField(err))
	}
}

// SetupTelemetry installs a global tracer provider.
// Spans are sent to TelemetryEndpoint via OTLP/gRPC or printed to stderr if no
// endpoint is configured.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	var exporter sdktrace.SpanExporter
	var err error
	if TelemetryEndpoint != "" {
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(TelemetryEndpoint),
			otlptracegrpc.WithInsecure())
	} else {
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", "lcmp"),
			attribute.String("service.version", version.Version),
		))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return &Telemetry{ctx: ctx, tp: tp}, nil
}
