// Package config provides configuration management for ziptool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// HistoryConfig configures run-history recording.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config represents the application configuration.
type Config struct {
	Filename      string        `mapstructure:"filename"`
	WindowsStyle  bool          `mapstructure:"windows_style"`
	ProgressEvery int           `mapstructure:"progress_every"`
	History       HistoryConfig `mapstructure:"history"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/ziptool/config.yaml
//   - $HOME/.config/ziptool/config.yaml
//
// Environment variables are prefixed with ZIPTOOL_ (e.g., ZIPTOOL_FILENAME).
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. With an empty path the
// default locations are searched; with a path, that file must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "ziptool"))
		}
		v.AddConfigPath(filepath.Join(homeDir, ".config", "ziptool"))
	}

	v.SetEnvPrefix("ZIPTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("filename", DefaultFilename)
	v.SetDefault("windows_style", false)
	v.SetDefault("progress_every", DefaultProgressEvery)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", HistoryDir())
	v.SetDefault("history.retention_days", DefaultRetentionDays)
	v.SetDefault("logging.level", DefaultLogLevel)

	// A missing file is only acceptable when searching default locations
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in the history path if present
	if strings.HasPrefix(cfg.History.Path, "~") {
		cfg.History.Path = filepath.Join(homeDir, cfg.History.Path[1:])
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "ziptool"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "ziptool"), nil
}

// ConfigFilePath returns the path of the config file, whether or not it
// exists yet.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// StateDir returns $XDG_STATE_HOME/ziptool/ for run-history files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "ziptool")
}

// HistoryDir returns the default directory history entries are written to.
func HistoryDir() string {
	return filepath.Join(StateDir(), "history")
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath, err := ConfigFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Ziptool Configuration

# Archive filename used when --filename is not given
filename: %s

# Wrap archive entries in a folder named after the archived directory
windows_style: false

# Number of processed files between progress updates
progress_every: %d

# Run-history settings
history:
  enabled: true
  # Directory history entries are written to (empty means use default:
  # $XDG_STATE_HOME/ziptool/history)
  path: %s
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
`, DefaultFilename, DefaultProgressEvery, HistoryDir(), DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
