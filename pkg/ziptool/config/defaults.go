package config

// Default configuration values.
const (
	// DefaultFilename is the archive name used when no --filename is given.
	DefaultFilename = "output.zip"

	// DefaultProgressEvery is the number of processed files between progress
	// updates.
	DefaultProgressEvery = 50

	// DefaultRetentionDays is how long history entries are kept.
	DefaultRetentionDays = 90

	// DefaultLogLevel is the log level when none is configured.
	DefaultLogLevel = "info"
)
