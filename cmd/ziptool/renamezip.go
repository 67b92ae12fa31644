package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cloud2303/ziptool/pkg/ziptool/config"
	"github.com/cloud2303/ziptool/pkg/ziptool/history"
	"github.com/cloud2303/ziptool/pkg/ziptool/output"
	"github.com/cloud2303/ziptool/pkg/ziptool/rename"
	"github.com/spf13/cobra"
)

var renameZipCmd = &cobra.Command{
	Use:   "rename-zip",
	Short: "Rename a directory, archive it, then rename it back",
	Long: `Rename a directory to a new name, archive it under that name, and rename
it back afterwards. The archive is written as <new-name>.zip in the current
directory.

The directory is restored even when archiving fails. If the restore itself
fails the directory is left under its temporary name and a warning explains
how to rename it back by hand; a finished archive still counts as success.`,
	RunE: runRenameZip,
}

var (
	renameDir          string
	renameNewName      string
	renameWindowsStyle bool
)

func init() {
	renameZipCmd.Flags().StringVarP(&renameDir, "dir", "d", "", "directory to rename and archive")
	renameZipCmd.Flags().StringVarP(&renameNewName, "new-name", "n", "", "temporary directory name, also names the archive")
	renameZipCmd.Flags().BoolVarP(&renameWindowsStyle, "windows-style", "w", false, "wrap entries in a folder named after the directory")

	_ = renameZipCmd.MarkFlagRequired("dir")
	_ = renameZipCmd.MarkFlagRequired("new-name")

	rootCmd.AddCommand(renameZipCmd)
}

// runRenameZip archives one directory under a temporary name.
func runRenameZip(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	windowsStyle := renameWindowsStyle
	if !cmd.Flags().Changed("windows-style") {
		windowsStyle = cfg.WindowsStyle
	}

	start := time.Now()

	tx, err := rename.Begin(resolvePath(cwd, renameDir), renameNewName)
	if err != nil {
		return err
	}
	// Backstop for panics and early exits. Restore is idempotent, so the
	// explicit call below does not rename twice.
	defer func() { _ = tx.Restore() }()

	dest := filepath.Join(cwd, renameNewName+".zip")

	res, buildErr := buildArchive(dest, tx.Path(), nil, windowsStyle, nil, cfg.ProgressEvery)

	if restoreErr := tx.Restore(); restoreErr != nil {
		fmt.Fprintln(os.Stderr, output.RestoreWarning(tx.Path(), tx.Original(), restoreErr))
	}

	if buildErr != nil {
		return buildErr
	}

	printInfo("%s", output.Completion(res.Processed, dest, archiveSize(dest)))

	recordRun(cfg, history.Entry{
		Operation:    history.OpRenameZip,
		Root:         tx.Original(),
		Destination:  dest,
		Files:        res.Processed,
		Bytes:        archiveSize(dest),
		WindowsStyle: windowsStyle,
		Duration:     time.Since(start),
	})
	return nil
}
