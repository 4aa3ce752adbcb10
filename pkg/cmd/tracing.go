package cmd

import (
	"context"
	"log/slog"

	"github.com/dukex/postgate/pkg/otelhelper"
)

// SetupTracing installs the OTLP tracer provider when enabled. The returned
// function flushes and stops it; it is a no-op when tracing is off.
func SetupTracing(ctx context.Context, enabled bool, serviceName string, logger *slog.Logger) (func(context.Context), error) {
	if !enabled {
		return func(context.Context) {}, nil
	}

	tp, err := otelhelper.NewTracerProvider(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "OpenTelemetry tracing enabled", "service", serviceName)

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}, nil
}
