package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemLogger_WritesJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := NewSystemLogger(dir, slog.LevelInfo, 0)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("dispatch finished", "run_id", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "dispatch finished", rec["msg"])
	assert.Equal(t, "abc", rec["run_id"])
	assert.Equal(t, "INFO", rec["level"])
}

func TestNewSystemLogger_InvalidDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	_, _, err := NewSystemLogger(filepath.Join(file, "logs"), slog.LevelInfo, 1)
	assert.Error(t, err)
}
