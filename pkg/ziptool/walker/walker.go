// Package walker provides deterministic pre-order traversal of a directory
// tree with identity-based path filtering.
//
// The walk is sequential and visits siblings in lexical order, so two walks
// over an unchanged tree yield the same sequence. Entries are classified with
// os.Stat, which follows symlinks: a symlink to a directory is descended
// into, a symlink to a file is reported as that file, and a broken symlink is
// skipped. Nothing guards against symlink cycles.
package walker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloud2303/ziptool/pkg/ziptool/pathmatch"
)

// Entry describes one filesystem node reached during a walk.
type Entry struct {
	// Path is the node's path, rooted wherever Options.Root was.
	Path string
	// Rel is the path relative to the walk root, in OS separators.
	Rel string
	// Info is the node's metadata from os.Stat, symlinks resolved.
	Info os.FileInfo
}

// IsDir reports whether the entry is a directory (or a symlink to one).
func (e Entry) IsDir() bool {
	return e.Info.IsDir()
}

// Func receives each surviving entry. Returning an error stops the walk.
type Func func(Entry) error

// Options configure a walk.
type Options struct {
	// Root is the directory whose descendants are visited. The root itself
	// is never yielded.
	Root string

	// Ignore removes matching entries from the walk: a matched directory is
	// pruned along with its entire subtree, a matched file is skipped. Nil
	// disables filtering.
	Ignore *pathmatch.Matcher

	// OnIgnore, when set, observes every entry Ignore removed.
	OnIgnore func(Entry)
}

// Walker traverses one directory tree. It carries no state between walks, so
// the same Walker can run a counting pass and a processing pass over
// identical sequences.
type Walker struct {
	opts Options
}

// New returns a Walker for the given options.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk visits every descendant of the root in pre-order: each directory is
// yielded before its contents. Directories that cannot be read are kept as
// entries but their contents are skipped. It returns an error when the root
// is missing or not a directory, or when fn fails.
func (w *Walker) Walk(fn Func) error {
	info, err := os.Stat(w.opts.Root)
	if err != nil {
		return fmt.Errorf("walking %s: %w", w.opts.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("walking %s: %w", w.opts.Root, os.ErrInvalid)
	}
	return w.walkDir(w.opts.Root, "", fn)
}

func (w *Walker) walkDir(dir, rel string, fn Func) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// The directory's own entry has already been yielded; unreadable
		// contents are skipped rather than failing the walk.
		return nil
	}
	for _, de := range entries {
		path := filepath.Join(dir, de.Name())
		info, err := os.Stat(path)
		if err != nil {
			// Broken symlink, or the entry vanished mid-walk.
			continue
		}
		entry := Entry{
			Path: path,
			Rel:  filepath.Join(rel, de.Name()),
			Info: info,
		}
		if w.opts.Ignore.MatchesInfo(info) {
			if w.opts.OnIgnore != nil {
				w.opts.OnIgnore(entry)
			}
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.walkDir(path, entry.Rel, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
