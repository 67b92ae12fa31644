// Package archive builds ZIP archives from directory trees.
//
// A build makes two passes over the tree with identical filtering: a counting
// pass that fixes the total used for percentage progress, then a write pass
// that streams entries into the archive. Every directory and file that
// survives filtering becomes an entry; files are deflated, directories are
// stored as explicit trailing-slash entries. Individual unreadable entries
// are skipped with a warning so one bad file cannot poison a long run. The
// only fatal setup condition is failing to open the destination, reported as
// *OpenError.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cloud2303/ziptool/pkg/ziptool/logging"
	"github.com/cloud2303/ziptool/pkg/ziptool/pathmatch"
	"github.com/cloud2303/ziptool/pkg/ziptool/walker"
)

// OpenError reports that the destination archive could not be created.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening archive %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Options configure a build.
type Options struct {
	// Destination is where the ZIP file is written. An existing file is
	// truncated.
	Destination string

	// Root is the directory whose descendants become entries. The root
	// itself gets no entry; with WindowsStyle its name becomes the wrapper
	// prefix instead.
	Root string

	// Ignore filters tree candidates by filesystem identity. Matched
	// directories are pruned with their subtrees, matched files skipped.
	Ignore *pathmatch.Matcher

	// WindowsStyle prefixes every tree entry with "<root base name>/".
	// Extras are never prefixed.
	WindowsStyle bool

	// Extras are out-of-tree files appended after the tree pass, under the
	// names fixed at resolution time.
	Extras []Extra

	// OnProgress receives whole percentages (0-100) during the write pass,
	// throttled to every ProgressEvery files plus the final file.
	OnProgress func(percent int)

	// ProgressEvery overrides the notification interval. Zero or negative
	// selects DefaultProgressEvery.
	ProgressEvery int
}

// Result reports what a build wrote.
type Result struct {
	// Processed counts files actually written, tree files plus extras.
	Processed int
	// Total is the eligible-file count fixed by the counting pass. Processed
	// falls short of it when files were skipped mid-run.
	Total int
}

// Builder archives one directory tree. Builders are single-use.
type Builder struct {
	opts   Options
	logger *logging.Logger
}

// New returns a Builder for the given options.
func New(opts Options) *Builder {
	return &Builder{opts: opts, logger: logging.Get("archive")}
}

// Build creates the archive. It returns *OpenError when the destination
// cannot be created, and a wrapped error when finalizing the archive fails;
// per-entry read failures are logged and skipped, visible only as Processed
// falling short of Total.
func (b *Builder) Build() (*Result, error) {
	root, err := filepath.Abs(b.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", b.opts.Root, err)
	}
	dest, err := filepath.Abs(b.opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("resolving destination %s: %w", b.opts.Destination, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, &OpenError{Path: dest, Err: err}
	}

	// The archive itself may sit inside the tree being archived. Its
	// identity is fixed here so both passes can exclude it.
	destInfo, err := f.Stat()
	if err != nil {
		destInfo = nil
	}

	total, err := b.countEligible(root, destInfo)
	if err != nil {
		f.Close()
		return nil, err
	}
	total += len(b.opts.Extras)

	m := newMeter(total, b.opts.ProgressEvery, b.opts.OnProgress)
	nm := NewNamer(root, b.opts.WindowsStyle)
	zw := zip.NewWriter(f)

	live := walker.New(walker.Options{
		Root:     root,
		Ignore:   b.opts.Ignore,
		OnIgnore: b.logIgnored,
	})
	walkErr := live.Walk(func(e walker.Entry) error {
		b.writeEntry(zw, nm, destInfo, e, m)
		return nil
	})

	b.writeExtras(zw, destInfo, m)

	if err := zw.Close(); err != nil {
		f.Close()
		return nil, fmt.Errorf("closing archive %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing archive %s: %w", dest, err)
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return &Result{Processed: m.processed, Total: total}, nil
}

// countEligible runs the counting pass: files that survive filtering and are
// not the destination archive itself. Directories are entries but not
// progress units, so they are not counted.
func (b *Builder) countEligible(root string, destInfo os.FileInfo) (int, error) {
	count := 0
	dry := walker.New(walker.Options{Root: root, Ignore: b.opts.Ignore})
	err := dry.Walk(func(e walker.Entry) error {
		if !e.IsDir() && !os.SameFile(destInfo, e.Info) {
			count++
		}
		return nil
	})
	return count, err
}

func (b *Builder) logIgnored(e walker.Entry) {
	if e.IsDir() {
		b.logger.Info("ignoring directory", "path", e.Rel)
	} else {
		b.logger.Info("ignoring file", "path", e.Rel)
	}
}

// writeEntry writes one tree entry, charging the meter only for files that
// made it into the archive.
func (b *Builder) writeEntry(zw *zip.Writer, nm *Namer, destInfo os.FileInfo, e walker.Entry, m *meter) {
	if e.IsDir() {
		if _, err := zw.Create(nm.Name(e.Rel, true)); err != nil {
			b.logger.Warn("skipping directory entry", "path", e.Rel, "error", err)
		}
		return
	}
	if os.SameFile(destInfo, e.Info) {
		b.logger.Info("skipping destination archive", "path", e.Rel)
		return
	}
	if err := b.writeFile(zw, nm.Name(e.Rel, false), e.Path, e.Info); err != nil {
		b.logger.Warn("skipping file", "path", e.Rel, "error", err)
		return
	}
	m.fileDone()
}

// writeExtras appends the extra-file bindings after the tree pass. Each
// source is re-stat'ed: it may have vanished or changed type since
// resolution, and it may be the archive now being written.
func (b *Builder) writeExtras(zw *zip.Writer, destInfo os.FileInfo, m *meter) {
	for _, x := range b.opts.Extras {
		info, err := os.Stat(x.Source)
		if err != nil || !info.Mode().IsRegular() {
			b.logger.Debug("extra file no longer usable", "path", x.Source)
			continue
		}
		if os.SameFile(destInfo, info) {
			b.logger.Info("skipping destination archive", "path", x.Source)
			continue
		}
		if err := b.writeFile(zw, x.Name, x.Source, info); err != nil {
			b.logger.Warn("skipping extra file", "path", x.Source, "error", err)
			continue
		}
		m.fileDone()
	}
}

// writeFile streams one source file into a deflated entry named name.
func (b *Builder) writeFile(zw *zip.Writer, name, source string, info os.FileInfo) error {
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
