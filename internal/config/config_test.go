package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests use t.Setenv and t.Chdir and therefore do not run in parallel.

func isolate(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses HOME")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfig, "")
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Logger.ToFile)
	assert.Equal(t, filepath.Join(home, ".config", "GNS3", "WebClient", "launcher.log"), cfg.Logger.FilePath)
	assert.Empty(t, cfg.Settings.File)
}

func TestLoadFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "launcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  to_file: false
capture:
  timeout: 5s
settings:
  file: /tmp/webclient_pack.conf
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.False(t, cfg.Logger.ToFile)
	assert.Equal(t, 5*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, "/tmp/webclient_pack.conf", cfg.Settings.File)
	assert.Equal(t, 10, cfg.Logger.MaxSizeMB)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GNS3_LAUNCHER_CAPTURE_TIMEOUT", "45s")
	t.Setenv("GNS3_LAUNCHER_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "launcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capture:\n  timeout: 0s\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
