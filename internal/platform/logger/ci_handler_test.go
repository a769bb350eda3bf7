package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCI(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	assert.False(t, logger.IsCI())

	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, logger.IsCI())
}

func TestCIHandlerAddsMetadata(t *testing.T) {
	t.Setenv("GITHUB_RUN_ID", "4242")
	t.Setenv("GITHUB_JOB", "test")

	var buf bytes.Buffer
	l := slog.New(logger.NewCIHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.With(slog.String("component", "srs")).WithGroup("review").Debug("scheduled", slog.Int("days", 11))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4242", entry["ci_run_id"])
	assert.Equal(t, "test", entry["ci_job"])
	assert.Equal(t, "srs", entry["component"])
	assert.Equal(t, map[string]any{"days": float64(11)}, entry["review"])
}

func TestSetupUsesCIHandlerInCI(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("GITHUB_SHA", "deadbeef")
	restoreDefault(t)

	var buf bytes.Buffer
	l, err := logger.Setup(logger.LoggerConfig{Output: &buf})
	require.NoError(t, err)

	l.Info("hello")
	assert.Contains(t, buf.String(), `"ci_commit":"deadbeef"`)
}
