// Package config loads the runtime configuration of the launcher from
// launcher.yaml using Viper. Every key can be overridden with a
// GNS3_LAUNCHER_<SECTION>_<KEY> environment variable.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mfulz/gns3launch/internal/configloader"
	"github.com/mfulz/gns3launch/internal/logging"
	"github.com/spf13/viper"
)

const (
	// FileName is the launcher configuration file.
	FileName = "launcher.yaml"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "GNS3_LAUNCHER"
	// EnvConfig points at an explicit configuration file.
	EnvConfig = EnvPrefix + "_CONFIG"
)

// Config is the launcher configuration.
type Config struct {
	Logger   logging.Config `mapstructure:"log"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	Settings SettingsConfig `mapstructure:"settings"`
}

// CaptureConfig tunes packet capture sessions.
type CaptureConfig struct {
	// Timeout bounds the wait for the first response of the controller.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SettingsConfig overrides where the shared settings blob lives.
type SettingsConfig struct {
	File       string `mapstructure:"file"`
	SystemFile string `mapstructure:"system_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.to_stdout", false)
	v.SetDefault("log.to_stderr", true)
	v.SetDefault("log.to_file", true)
	v.SetDefault("log.file", filepath.Join(configloader.ConfigDir(), "launcher.log"))
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.compress", false)
	v.SetDefault("capture.timeout", 30*time.Second)
	v.SetDefault("settings.file", "")
	v.SetDefault("settings.system_file", "")
}

// Load reads path, or the first launcher.yaml found by configloader when
// path is empty. A missing implicit file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		resolved, err := configloader.ResolveConfigPath(EnvConfig, FileName)
		switch {
		case err == nil:
			path = resolved
		case !errors.Is(err, configloader.ErrNotFound):
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	if cfg.Capture.Timeout <= 0 {
		return nil, fmt.Errorf("capture.timeout must be positive, got %s", cfg.Capture.Timeout)
	}
	return &cfg, nil
}
