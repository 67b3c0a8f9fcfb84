// Package config is the viper-backed configuration singleton: data
// directory, page size, and log file path. Grounded on
// internal/config/config.go of the teacher (the walk-up-from-cwd config
// file discovery and SetDefault/AutomaticEnv shape), generalized from
// .beads/config.yaml to sqlcore.yaml, with ~/.sqlcore/config.yaml as the
// fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DefaultPageSize is the block size storage/page uses when no config value
// overrides it.
const DefaultPageSize = 4096

var v *viper.Viper

// Config is the resolved, read-only view of the process's configuration.
type Config struct {
	DataDir  string
	PageSize int
	LogFile  string
}

// Initialize sets up the viper singleton: locates sqlcore.yaml by walking
// up from the working directory (falling back to ~/.sqlcore/config.yaml),
// binds SQLCORE_-prefixed environment variables, and registers defaults.
// It must be called once before Get.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			path := filepath.Join(dir, "sqlcore.yaml")
			if _, err := os.Stat(path); err == nil {
				v.SetConfigFile(path)
				configFileSet = true
				break
			}
		}
	}
	if !configFileSet {
		if home, err := os.UserHomeDir(); err == nil {
			path := filepath.Join(home, ".sqlcore", "config.yaml")
			if _, err := os.Stat(path); err == nil {
				v.SetConfigFile(path)
				configFileSet = true
			}
		}
	}

	v.SetEnvPrefix("SQLCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", "./sqlcore-data")
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("log_file", "")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	return nil
}

// WatchForChanges enables viper's file watcher, invoking onChange whenever
// the located config file is rewritten. Call after Initialize.
func WatchForChanges(onChange func()) {
	v.OnConfigChange(func(_ fsnotify.Event) {
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
}

// Get returns the resolved configuration. Initialize must have run first.
func Get() Config {
	logFile := v.GetString("log_file")
	dataDir := v.GetString("data_dir")
	if logFile == "" {
		logFile = filepath.Join(dataDir, "sqlcore.log")
	}
	return Config{
		DataDir:  dataDir,
		PageSize: v.GetInt("page_size"),
		LogFile:  logFile,
	}
}
