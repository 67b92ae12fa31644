package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloud2303/ziptool/pkg/ziptool/archive"
	"github.com/cloud2303/ziptool/pkg/ziptool/config"
	"github.com/cloud2303/ziptool/pkg/ziptool/history"
	"github.com/cloud2303/ziptool/pkg/ziptool/logging"
	"github.com/cloud2303/ziptool/pkg/ziptool/output"
	"github.com/cloud2303/ziptool/pkg/ziptool/pathmatch"
	"github.com/cloud2303/ziptool/pkg/ziptool/progress"
	"github.com/cloud2303/ziptool/pkg/ziptool/walker"
	"github.com/spf13/cobra"
)

var zipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Archive a directory into a ZIP file",
	Long: `Archive a directory tree into a ZIP file in the current directory.

Every file and directory under --dir becomes an archive entry. Paths named
with --ignore are excluded: an ignored directory is pruned with its whole
subtree. Files named with --extra are appended to the archive even when they
live outside the directory being archived.

Ignore and extra paths are resolved relative to the current directory, not
the archived one, and match by filesystem identity: ./build, build/ and a
symlink to build all name the same directory.`,
	RunE: runZip,
}

var (
	zipFilename     string
	zipDir          string
	zipIgnore       []string
	zipExtras       []string
	zipWindowsStyle bool
	zipDryRun       bool
)

func init() {
	zipCmd.Flags().StringVarP(&zipFilename, "filename", "f", "", "archive filename, created in the current directory unless absolute")
	zipCmd.Flags().StringVarP(&zipDir, "dir", "d", "", "directory to archive")
	zipCmd.Flags().StringSliceVarP(&zipIgnore, "ignore", "i", nil, "paths to exclude (can be specified multiple times)")
	zipCmd.Flags().StringSliceVarP(&zipExtras, "extra", "e", nil, "extra files to append (can be specified multiple times)")
	zipCmd.Flags().BoolVarP(&zipWindowsStyle, "windows-style", "w", false, "wrap entries in a folder named after the directory")
	zipCmd.Flags().BoolVar(&zipDryRun, "dry-run", false, "list the entries that would be archived without writing")

	_ = zipCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(zipCmd)
}

// runZip archives one directory.
func runZip(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	root := resolvePath(cwd, zipDir)
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot archive %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot archive %s: not a directory", root)
	}

	filename := zipFilename
	if filename == "" {
		filename = cfg.Filename
	}
	dest := resolvePath(cwd, filename)

	windowsStyle := zipWindowsStyle
	if !cmd.Flags().Changed("windows-style") {
		windowsStyle = cfg.WindowsStyle
	}

	matcher := pathmatch.New(cwd, zipIgnore)

	extras := make([]archive.Extra, 0, len(zipExtras))
	for _, p := range zipExtras {
		if strings.TrimSpace(p) == "" {
			continue
		}
		x, err := archive.ResolveExtra(cwd, p)
		if err != nil {
			return err
		}
		extras = append(extras, x)
	}

	if zipDryRun {
		return previewZip(dest, root, matcher, windowsStyle, extras)
	}

	start := time.Now()
	res, err := buildArchive(dest, root, matcher, windowsStyle, extras, cfg.ProgressEvery)
	if err != nil {
		return err
	}

	printInfo("%s", output.Completion(res.Processed, dest, archiveSize(dest)))

	recordRun(cfg, history.Entry{
		Operation:    history.OpZip,
		Root:         root,
		Destination:  dest,
		Files:        res.Processed,
		Bytes:        archiveSize(dest),
		WindowsStyle: windowsStyle,
		Duration:     time.Since(start),
	})
	return nil
}

// buildArchive runs one build with the inline progress bar attached. Quiet
// mode drops the bar so stderr stays clean.
func buildArchive(dest, root string, matcher *pathmatch.Matcher, windowsStyle bool, extras []archive.Extra, progressEvery int) (*archive.Result, error) {
	opts := archive.Options{
		Destination:   dest,
		Root:          root,
		Ignore:        matcher,
		WindowsStyle:  windowsStyle,
		Extras:        extras,
		ProgressEvery: progressEvery,
	}

	var bar *progress.Bar
	if !getQuiet() {
		bar = progress.New("compressing")
		opts.OnProgress = bar.SetPercent
	}

	res, err := archive.New(opts).Build()
	if bar != nil {
		bar.Finish()
	}
	return res, err
}

// previewZip runs only the counting pass and prints the entries a real run
// would create. Nothing is written, so the destination-identity exclusion
// that a real run applies cannot kick in here.
func previewZip(dest, root string, matcher *pathmatch.Matcher, windowsStyle bool, extras []archive.Extra) error {
	nm := archive.NewNamer(root, windowsStyle)
	tree := output.NewEntryTree(filepath.Base(dest))
	files := 0

	w := walker.New(walker.Options{Root: root, Ignore: matcher})
	err := w.Walk(func(e walker.Entry) error {
		if e.IsDir() {
			tree.Insert(nm.Name(e.Rel, true))
			return nil
		}
		tree.Insert(nm.Name(e.Rel, false))
		files++
		return nil
	})
	if err != nil {
		return err
	}

	for _, x := range extras {
		tree.Insert(x.Name)
		files++
	}

	fmt.Println(output.DryRunHeader(dest))
	fmt.Print(tree.Render())
	fmt.Println(output.DryRunFooter(files))
	return nil
}

// resolvePath resolves p against base unless it is already absolute.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// archiveSize reports the byte size of the finished archive, zero when it
// cannot be stat'ed.
func archiveSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// recordRun persists a history entry. Recording is best-effort: a run that
// already produced its archive never fails over bookkeeping.
func recordRun(cfg *config.Config, entry history.Entry) {
	if !cfg.History.Enabled {
		return
	}

	dir := cfg.History.Path
	if dir == "" {
		dir = config.HistoryDir()
	}

	store, err := history.New(dir)
	if err == nil {
		err = store.EnsureDir()
	}
	if err == nil {
		_, err = store.Record(entry)
	}
	if err != nil {
		logging.Get("history").Warn("failed to record run", "error", err)
	}
}
