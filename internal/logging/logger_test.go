package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "launcher.log")
	log, err := New(Config{Level: "debug", ToFile: true, FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Debugf("[launcher] Launching command '%s'", "telnet localhost 5000")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG")
	assert.Contains(t, string(data), "[launcher] Launching command 'telnet localhost 5000'")
}

func TestNewLevel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "launcher.log")
	log, err := New(Config{Level: "warn", ToFile: true, FilePath: path})
	require.NoError(t, err)
	log.Infof("hidden")
	log.Warnf("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}
