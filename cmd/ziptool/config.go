package main

import (
	"fmt"
	"os"

	"github.com/cloud2303/ziptool/pkg/ziptool/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage ziptool configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/ziptool/config.yaml (if set)
  2. ~/.config/ziptool/config.yaml

Environment variables can override config file settings using the ZIPTOOL_ prefix:
  ZIPTOOL_FILENAME=archive.zip
  ZIPTOOL_WINDOWS_STYLE=true
  ZIPTOOL_HISTORY_RETENTION_DAYS=30`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = &config.Config{
			Filename:      config.DefaultFilename,
			ProgressEvery: config.DefaultProgressEvery,
		}
		cfg.History.Enabled = true
		cfg.History.Path = config.HistoryDir()
		cfg.History.RetentionDays = config.DefaultRetentionDays
		cfg.Logging.Level = config.DefaultLogLevel
	}

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	// Display configuration
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("filename:              %s\n", cfg.Filename)
	fmt.Printf("windows_style:         %t\n", cfg.WindowsStyle)
	fmt.Printf("progress_every:        %d\n", cfg.ProgressEvery)
	fmt.Printf("history.enabled:       %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:          %s\n", cfg.History.Path)
	fmt.Printf("history.retention:     %d days\n", cfg.History.RetentionDays)
	fmt.Printf("logging.level:         %s\n", cfg.Logging.Level)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []struct {
		name string
		key  string
	}{
		{"ZIPTOOL_FILENAME", "filename"},
		{"ZIPTOOL_WINDOWS_STYLE", "windows_style"},
		{"ZIPTOOL_PROGRESS_EVERY", "progress_every"},
		{"ZIPTOOL_HISTORY_ENABLED", "history.enabled"},
		{"ZIPTOOL_HISTORY_PATH", "history.path"},
		{"ZIPTOOL_HISTORY_RETENTION_DAYS", "history.retention_days"},
		{"ZIPTOOL_LOGGING_LEVEL", "logging.level"},
	}

	anyOverrides := false
	for _, ev := range envVars {
		if val := os.Getenv(ev.name); val != "" {
			fmt.Printf("%s=%s\n", ev.name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		return nil
	}

	// Create default config
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println(configPath)

	// Show if file exists
	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
