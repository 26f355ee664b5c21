package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
	}{
		{"", false, true},
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"error", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(tt.level, "text", &bytes.Buffer{})
			require.NotNil(t, logger)
			assert.Equal(t, tt.debugEnabled, logger.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tt.infoEnabled, logger.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)
	logger.Info("seeded", "units", 28)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "seeded", record["msg"])
	assert.Equal(t, float64(28), record["units"])
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New("warn", "text", &buf).Warn("missing table", "table", "cves")
	assert.Contains(t, buf.String(), "missing table")
	assert.Contains(t, buf.String(), "table=cves")
}

func TestWithLoggerAndFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), FromContext(ctx))

	custom := Discard()
	ctx = WithLogger(ctx, custom)
	assert.Same(t, custom, FromContext(ctx))
}
