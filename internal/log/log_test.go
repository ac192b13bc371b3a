package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newLogger(&buf, "warn", false)
	l.Info("hidden")
	l.Warn("shown", "motion", "walk")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "motion=walk")
}

func TestNewLoggerJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, "debug", true).Debug("chain", "from", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "chain", rec["msg"])
	assert.EqualValues(t, 2, rec["from"])
}

func TestLInitializesLazily(t *testing.T) {
	assert.NotNil(t, L())
	assert.NotNil(t, With("k", "v"))
}
