package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloud2303/ziptool/pkg/ziptool/config"
	"github.com/cloud2303/ziptool/pkg/ziptool/history"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View archive run history",
	Long: `View the history of archive runs.

Each zip and rename-zip run records what was archived, where the archive
was written, and how large it came out.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Long:  `Display detailed information about a specific run by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getStore returns a history store rooted at the configured directory.
func getStore() (*history.Store, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		// Fall back to the default history path if config fails to load
		return history.New(config.HistoryDir())
	}

	dir := cfg.History.Path
	if dir == "" {
		dir = config.HistoryDir()
	}
	return history.New(dir)
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := getStore()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'ziptool zip -d <directory>' to create an archive.")
		return nil
	}

	// Print header
	fmt.Printf("\n%-40s  %-10s  %-6s  %-10s  %s\n", "ID", "TYPE", "FILES", "SIZE", "WHEN")
	fmt.Println(strings.Repeat("-", 90))

	for _, entry := range entries {
		fmt.Printf("%-40s  %-10s  %-6d  %-10s  %s\n",
			truncateString(entry.ID, 40),
			entry.Operation,
			entry.Files,
			humanize.IBytes(uint64(entry.Bytes)),
			humanize.Time(entry.Timestamp),
		)
	}

	fmt.Println(strings.Repeat("-", 90))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'ziptool history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays details of a specific run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	store, err := getStore()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	entry, err := store.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nRun Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:            %s\n", entry.ID)
	fmt.Printf("Timestamp:     %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:     %s\n", entry.Operation)
	fmt.Printf("Directory:     %s\n", entry.Root)
	fmt.Printf("Archive:       %s\n", entry.Destination)
	fmt.Printf("Files:         %d\n", entry.Files)
	fmt.Printf("Size:          %s\n", humanize.IBytes(uint64(entry.Bytes)))
	fmt.Printf("Windows style: %t\n", entry.WindowsStyle)
	fmt.Printf("Duration:      %s\n", entry.Duration.Round(time.Millisecond))

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := getStore()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	if err := store.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete.")
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
