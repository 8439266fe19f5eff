package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("XUANKONG_CONFIG", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func redisConfig(t *testing.T, mr *miniredis.Miniredis, stream bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`
cache:
  redis:
    enabled: true
    host: %s
    port: %s
messaging:
  redis_stream:
    enabled: %t
    stream: xuankong:cli
`, mr.Host(), mr.Port(), stream)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPlateCommand(t *testing.T) {
	out, err := run(t, "plate", "--facing", "180", "--year", "2020")
	require.NoError(t, err, out)

	var plate map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &plate))
	assert.EqualValues(t, 8, plate["period"])

	_, err = run(t, "plate", "--facing", "180", "--year", "1800")
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "plate", "--facing", "180", "--year", "2020")
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestPlateCommandRequiresFlags(t *testing.T) {
	_, err := run(t, "plate", "--facing", "180")
	assert.ErrorContains(t, err, "year")
}

func TestAnalyzeCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr, true)

	out, err := run(t, "--config", cfg, "analyze", "--facing", "180", "--year", "2020", "--target-year", "2025", "--month", "3")
	require.NoError(t, err, out)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Contains(t, res, "overallScore")
	assert.Contains(t, res, "recommendation")

	out, err = run(t, "--config", cfg, "events", "--count", "5")
	require.NoError(t, err, out)
	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "analysis_completed", events[0]["type"])
}

func TestTimelineCommand(t *testing.T) {
	out, err := run(t, "timeline", "--period", "9", "--year", "2030")
	require.NoError(t, err, out)

	var tl map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	assert.EqualValues(t, 2024, tl["startYear"])
	assert.EqualValues(t, 7, tl["yearsInPeriod"])
	assert.Equal(t, "good", tl["phase"])

	_, err = run(t, "timeline", "--period", "10", "--year", "2030")
	assert.Error(t, err)
}

func TestCachePurgeCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr, false)
	require.NoError(t, mr.Set("plate:v2:180:2020", "{}"))
	require.NoError(t, mr.Set("other", "keep"))

	out, err := run(t, "--config", cfg, "cache", "purge")
	require.NoError(t, err, out)
	assert.JSONEq(t, `{"purged":1}`, out)
	assert.True(t, mr.Exists("other"))

	_, err = run(t, "--config", cfg, "events")
	assert.ErrorContains(t, err, "not enabled")
}

func TestCachePurgeWithoutRedis(t *testing.T) {
	_, err := run(t, "cache", "purge")
	assert.ErrorContains(t, err, "not enabled")
}
