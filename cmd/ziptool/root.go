package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloud2303/ziptool/pkg/ziptool/config"
	"github.com/cloud2303/ziptool/pkg/ziptool/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ziptool",
		Short: "Archive directories into ZIP files",
		Long: `Ziptool archives directory trees into ZIP files.

The zip command archives a directory with optional path exclusions, extra
out-of-tree files, and Windows-style folder wrapping. The rename-zip command
renames a directory first, so the archive and its wrapper folder carry the new
name, then restores the original name afterward.

Examples:
  ziptool zip -d ./project                     # Archive ./project to output.zip
  ziptool zip -d ./project -f site.zip -w      # Wrap entries in a project/ folder
  ziptool zip -d . -i .git -i node_modules     # Archive excluding paths
  ziptool zip -d ./docs --dry-run              # Preview the entries
  ziptool rename-zip -d ./site -n release-1.2  # Archive as release-1.2.zip
  ziptool history                              # View recent runs`,
		PersistentPreRunE: initializeLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/ziptool/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "ziptool"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "ziptool"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("ZIPTOOL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("filename", config.DefaultFilename)
	viper.SetDefault("windows_style", false)
	viper.SetDefault("progress_every", config.DefaultProgressEvery)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.retention_days", config.DefaultRetentionDays)
	viper.SetDefault("logging.level", config.DefaultLogLevel)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// initializeLogging applies the effective log level before any subcommand
// runs. --verbose and --quiet outrank the configured level.
func initializeLogging(_ *cobra.Command, _ []string) error {
	level := viper.GetString("logging.level")
	if level == "" {
		level = config.DefaultLogLevel
	}
	if getVerbose() {
		level = "debug"
	}
	if getQuiet() {
		level = "error"
	}
	return logging.Init(level)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
