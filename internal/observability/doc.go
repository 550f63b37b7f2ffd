// Package observability provides logging, metrics and tracing for
// authtester.
//
// # Logging
//
// The Logger interface wraps zap. Components receive a Logger through a
// functional option and default to NopLogger:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "debug",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// WithContext adds the request and trace IDs stored in the context.
// NewTestLogger routes output through testing.T.
//
// # Metrics
//
// Metrics collects the request metrics of a served application and exposes
// them, with any registered collector, through Handler.
//
// # Tracing
//
// Tracer wraps an OpenTelemetry tracer provider exporting over OTLP gRPC.
// A disabled configuration yields a no-op tracer:
//
//	tracer, err := observability.NewTracer(ctx, observability.TracerConfig{
//	    ServiceName:  "authtester",
//	    OTLPEndpoint: "localhost:4317",
//	    SamplingRate: 1.0,
//	    Enabled:      true,
//	})
package observability
