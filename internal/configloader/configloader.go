// Package configloader locates the files of the launcher: its own runtime
// configuration, the shared settings blob and the log file.
package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNotFound is returned when no candidate path exists.
var ErrNotFound = errors.New("config not found")

const appName = "GNS3"

// ConfigDir returns the per-user directory shared with the web client
// configurator: %APPDATA%\GNS3\WebClient on Windows and
// ~/.config/GNS3/WebClient elsewhere.
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), appName, "WebClient")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", appName, "WebClient")
}

// SystemDir returns the system wide directory: %PROGRAMDATA%\GNS3 on
// Windows and /etc/xdg/GNS3 elsewhere.
func SystemDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("PROGRAMDATA"), appName)
	}
	return filepath.Join("/etc/xdg", appName)
}

// UserPath returns file in the working directory when it exists there,
// otherwise file inside ConfigDir. The returned path need not exist.
func UserPath(file string) string {
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, file)
		if exists(candidate) {
			return candidate
		}
	}
	return filepath.Join(ConfigDir(), file)
}

// ResolveConfigPath returns the best existing path for file. It checks, in
// order:
// 1. $<envVar> if set (returned even if it does not exist)
// 2. ./<file>
// 3. <ConfigDir>/<file>
// 4. <SystemDir>/<file>
func ResolveConfigPath(envVar, file string) (string, error) {
	if envVar != "" {
		if env := os.Getenv(envVar); env != "" {
			return env, nil
		}
	}
	if path := UserPath(file); exists(path) {
		return path, nil
	}
	if systemPath := filepath.Join(SystemDir(), file); exists(systemPath) {
		return systemPath, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, file)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
