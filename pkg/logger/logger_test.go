package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextAddsKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")

	ctx := WithContext(context.Background(), RequestIDKey, "req-1")
	ctx = WithContext(ctx, AnalysisIDKey, "an-1")
	Error(ctx, "analysis failed", errors.New("boom"), "palace", 5)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "analysis failed", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "an-1", line["analysis_id"])
	assert.Equal(t, "boom", line["error"])
	assert.EqualValues(t, 5, line["palace"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestSetupWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closer, err := Setup(Options{
		Level:  "info",
		Format: "json",
		Output: "file",
		File:   FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1},
	})
	require.NoError(t, err)
	Info(context.Background(), "plate generated", "facing", 180)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plate generated")
	InitWithWriter(os.Stdout, "info", "json")
}

func TestSetupRejectsUnknownOutput(t *testing.T) {
	_, err := Setup(Options{Output: "syslog"})
	assert.Error(t, err)

	_, err = Setup(Options{Output: "file"})
	assert.Error(t, err)
}
