package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"fatal":   LevelFatal,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Output: &buf, Level: LevelWarn, Format: "json"})

	l.Info("dropped")
	l.Warn("kept", UserID("u-1"), Int("slots", 2))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.EqualValues(t, 2, entry["slots"])
}

func TestWith_CarriesFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core)).With(Component("waitlist"))

	l.Error("match failed", MenteeID("m-1"), Err(errors.New("boom")))

	entries := observed.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "waitlist", ctx["component"])
	assert.Equal(t, "m-1", ctx["mentee_id"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestContextPropagation(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core))

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("hello")
	assert.Equal(t, 1, observed.Len())

	// Missing logger falls back to a no-op.
	assert.NotPanics(t, func() { FromContext(context.Background()).Info("ignored") })
}
