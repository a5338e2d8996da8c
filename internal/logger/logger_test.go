package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestContextHelpers checks that name and fields added to the context reach the entries.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "alarm")
	ctx = WithKV(ctx, "path", "/alarme/etat")

	InfoKV(ctx, "hello", "k", "v")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "alarm", entries[0].LoggerName)
	require.Equal(t, "/alarme/etat", entries[0].ContextMap()["path"])
	require.Equal(t, "v", entries[0].ContextMap()["k"])
}

// TestNewWithWriter verifies that entries below the level are dropped.
func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithWriter(&buf, zapcore.WarnLevel)
	l.Info("skipped")
	l.Warn("kept")

	require.NotContains(t, buf.String(), "skipped")
	require.Contains(t, buf.String(), "kept")
}

// TestWithLevel verifies the option raises the threshold of an existing logger.
func TestWithLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core, WithLevel(zapcore.ErrorLevel)).Sugar()

	l.Info("dropped")
	l.Error("kept")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}

// TestWithLevelOverride checks the override both raises and lowers the context logger threshold.
func TestWithLevelOverride(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	base := ToContext(context.Background(), zap.New(core).Sugar())

	quiet := WithLevelOverride(base, zapcore.WarnLevel)
	InfoKV(quiet, "dropped")
	WarnKV(quiet, "kept")

	verbose := WithLevelOverride(base, zapcore.DebugLevel)
	DebugKV(verbose, "debug kept")
	DebugKV(base, "debug dropped")

	require.Equal(t, 2, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
	require.Equal(t, "debug kept", logs.All()[1].Message)
}
