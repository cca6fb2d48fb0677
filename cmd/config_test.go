package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "veilpack", configBaseName)
	assert.Equal(t, "veilpack.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "seed", seedFlagName)
	assert.Equal(t, "build.output", buildOutputKey)
	assert.Equal(t, "build.seed", buildSeedKey)
	assert.Equal(t, "ui.tui", uiTUIKey)
	assert.Equal(t, "build.zip", defaultBuildOutput)
	assert.Equal(t, "veilpack.log", defaultLogFilename)
	assert.Equal(t, "VEILPACK", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseSlogLevel(tt.in, slog.LevelInfo), tt.in)
	}
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logPath := filepath.Join(t.TempDir(), "veilpack.log")

	configureLogger(logPath, true)
	require.NotNil(t, globalLogger)

	slog.Debug("debug message", "key", "value")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "debug message")
	assert.Contains(t, string(contents), "key=value")
}

// useCacheDir points the user cache dir at a temp dir on every platform.
func useCacheDir(t *testing.T) string {
	t.Helper()

	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)
	t.Setenv("HOME", cache)
	t.Setenv("LocalAppData", cache)

	return cache
}

func TestDefaultLogPath(t *testing.T) {
	useCacheDir(t)

	dir, err := os.UserCacheDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "veilpack", "veilpack.log"), defaultLogPath())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(defaultLogPath(), wd+string(filepath.Separator)))
}

func TestConfigureLogger_DefaultsToCacheDir(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	useCacheDir(t)

	configureLogger("", false)
	slog.Info("cache dir message")

	contents, err := os.ReadFile(defaultLogPath())
	require.NoError(t, err)
	assert.Contains(t, string(contents), "cache dir message")
}
