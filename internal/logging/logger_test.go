package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
	assert.True(t, ValidLevel(" debug "))
	assert.False(t, ValidLevel("trace"))
}

func TestLogger_WritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn).With("library", "core")

	l.Info("hidden")
	l.Warn("malformed lines skipped", "count", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "malformed lines skipped", entry["msg"])
	assert.Equal(t, "core", entry["library"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "foview.log")
	l, err := Open(path, LevelDebug)
	require.NoError(t, err)
	l.Debug("loaded", "libraries", 2)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"loaded"`)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(slog.LevelWarn))
	l.Error("dropped")
	assert.NoError(t, l.Close())
}
