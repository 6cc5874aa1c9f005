package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func findMsg(lines []map[string]any, msg string) map[string]any {
	for _, l := range lines {
		if l["msg"] == msg {
			return l
		}
	}
	return nil
}

func TestLogger_Events(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a, err := newArena(Config{Capacity: Size(MiB(1)), BlockSize: Size(KiB(64))}, BackendChain, []Option{WithLogger(logger)})
	require.NoError(t, err)

	_, err = a.Push(KiB(100))
	require.NoError(t, err)
	_, err = a.Push(MiB(4))
	require.Error(t, err)
	a.Reset()
	require.NoError(t, a.Destroy())

	lines := decodeLines(t, &buf)

	created := findMsg(lines, "arena created")
	require.NotNil(t, created)
	assert.Equal(t, "chain", created["backend"])
	assert.Equal(t, float64(MiB(1)), created["capacity"])

	assert.NotNil(t, findMsg(lines, "arena grew"))
	assert.NotNil(t, findMsg(lines, "arena shrank"))
	assert.NotNil(t, findMsg(lines, "arena destroyed"))

	failed := findMsg(lines, "arena operation failed")
	require.NotNil(t, failed)
	assert.Equal(t, "push", failed["op"])
	assert.Equal(t, "WARN", failed["level"])
	assert.Contains(t, failed["error"], "out of memory")
}

func TestLogger_CreateFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, nil))

	_, err := newArena(Config{Align: 3}, BackendChain, []Option{WithLogger(logger)})
	require.Error(t, err)

	failed := findMsg(decodeLines(t, &buf), "arena create failed")
	require.NotNil(t, failed)
	assert.Equal(t, float64(3), failed["align"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}

func TestLogger_Constructors(t *testing.T) {
	ctx := context.Background()
	for name, logger := range map[string]*Logger{
		"json": NewJSONLogger(slog.LevelWarn),
		"text": NewTextLogger(slog.LevelWarn),
	} {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, logger)
			assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
			assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
			assert.True(t, logger.WithBackend(BackendChain).Enabled(ctx, slog.LevelError))
		})
	}
}
