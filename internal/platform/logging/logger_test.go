package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelDebug).With("component", "controller")

	logger.Warn("leaders fetch failed", "category", "pts", "error", errors.New("boom"), "dangling")

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "WARN", line["level"])
	require.Equal(t, "leaders fetch failed", line["msg"])
	require.Equal(t, "controller", line["component"])
	require.Equal(t, "pts", line["category"])
	require.Equal(t, "boom", line["error"])
	require.Contains(t, line, "dangling")
}

func TestLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)

	logger.InfoContext(context.Background(), "ignored")
	require.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	var logger *Logger
	require.NotPanics(t, func() {
		logger.Info("no-op")
		_ = logger.With("k", "v")
		_ = logger.Sync()
	})
}

func TestSetMirror_ReceivesEnabledRecords(t *testing.T) {
	var mu sync.Mutex
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		if msg != "mirror probe" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		got = append(got, level.String())
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := NewJSONWriter(io.Discard, LevelInfo)
	logger.Debug("mirror probe")
	logger.Warn("mirror probe", "slot", "leaders")

	SetMirror(nil)
	logger.Error("mirror probe")

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"warn"}, got)
}
