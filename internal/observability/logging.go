package observability

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the structured logger handed to every component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger
	Sync() error
}

// Field is a log field.
type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Error    = zap.Error
	Duration = zap.Duration
)

// LogConfig selects the level and the encoding, console or json. Logs always
// go to stderr; stdout carries command output.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultLogConfig returns info level console logging.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "console"}
}

// NewLogger builds a zap backed Logger.
func NewLogger(cfg LogConfig) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Sampling = nil
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format != "json" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewZapLogger(logger), nil
}

// NewZapLogger wraps logger; nil yields a no-op logger.
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapAdapter{z: logger}
}

// NewTestLogger logs through t, so output only shows for failing tests.
func NewTestLogger(t zaptest.TestingT) Logger {
	return NewZapLogger(zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)))
}

// NopLogger discards everything.
func NopLogger() Logger {
	return NewZapLogger(nil)
}

// ParseLevel parses a zap level name; empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

type zapAdapter struct {
	z *zap.Logger
}

func (l *zapAdapter) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l *zapAdapter) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapAdapter) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapAdapter) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }
func (l *zapAdapter) Sync() error                       { return l.z.Sync() }

func (l *zapAdapter) With(fields ...Field) Logger {
	return &zapAdapter{z: l.z.With(fields...)}
}

// WithContext adds the request and trace IDs carried by ctx.
func (l *zapAdapter) WithContext(ctx context.Context) Logger {
	var fields []Field
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		fields = append(fields, String("request_id", id))
	}
	if id, ok := ctx.Value(traceIDKey).(string); ok && id != "" {
		fields = append(fields, String("trace_id", id))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	traceIDKey   contextKey = "trace_id"
)

// ContextWithRequestID stores the request ID logged by WithContext.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithTraceID stores the trace ID logged by WithContext.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}
