package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func restoreGlobalLogger(t *testing.T) {
	t.Helper()
	logger, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger_BaseFieldsAndLevel(t *testing.T) {
	restoreGlobalLogger(t)
	var buf bytes.Buffer

	InitLogger(LoggerOptions{Service: "dental-clinic-api", Clinic: "Al Noor", Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "dental-clinic-api", entry["service"])
	assert.Equal(t, "Al Noor", entry["clinic"])
	assert.Equal(t, "production", entry["env"])
}

func TestInitLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	restoreGlobalLogger(t)

	InitLogger(LoggerOptions{Service: "svc", Level: "loud", Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	InitLogger(LoggerOptions{Service: "svc", Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestLoggerFromContext_AddsTraceIDs(t *testing.T) {
	restoreGlobalLogger(t)
	var buf bytes.Buffer
	InitLogger(LoggerOptions{Service: "svc", Env: "production", Output: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	LoggerFromContext(ctx).Info().Msg("traced")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])

	buf.Reset()
	LoggerFromContext(context.Background()).Info().Msg("untraced")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, buf.String(), "trace_id")
}
