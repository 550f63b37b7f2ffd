package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "default", cfg: DefaultLogConfig()},
		{name: "json", cfg: LogConfig{Level: "debug", Format: "json"}},
		{name: "empty level", cfg: LogConfig{Format: "console"}},
		{name: "invalid level", cfg: LogConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithTraceID(ctx, "trace-1")

	logger.WithContext(ctx).Info("hello", String("login", "calvin"))
	logger.WithContext(context.Background()).Debug("plain")
	logger.With(Int("n", 1)).Warn("with")
	logger.Error("failed", Error(assert.AnError))

	entries := logs.All()
	require.Len(t, entries, 4)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "calvin", fields["login"])

	assert.Empty(t, entries[1].ContextMap())
	assert.Equal(t, int64(1), entries[2].ContextMap()["n"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNopAndTestLoggers(t *testing.T) {
	t.Parallel()

	NopLogger().Info("discarded")
	assert.NoError(t, NopLogger().Sync())

	NewTestLogger(t).Debug("shown on failure", String("k", "v"))
	assert.NotNil(t, NewZapLogger(nil))
}
