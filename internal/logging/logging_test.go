package logging

import (
	"bytes"
	"context"
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
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWritesJSONToOutputAndFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")

	logger, cleanup, err := New(Options{Level: "info", File: path, Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("listing fetched", "count", 3)
	cleanup()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "listing fetched", rec["msg"])
	assert.Equal(t, float64(3), rec["count"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "listing fetched")
	assert.NotContains(t, string(data), "hidden")
}

func TestNewTextFormat(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var buf bytes.Buffer

	logger, cleanup, err := New(Options{Format: "text", Output: &buf})
	require.NoError(t, err)
	defer cleanup()

	logger.Warn("session expired")
	assert.True(t, strings.Contains(buf.String(), `msg="session expired"`), buf.String())
}

func TestContextLogger(t *testing.T) {
	fallback := slog.Default()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	scoped := fallback.With("request_id", "abc")
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx, fallback))
}
