// Package rename implements the temporary directory rename used by
// rename-then-archive runs: rename the directory, let the caller archive it
// under the new name, then rename it back. Restore is a one-shot operation
// safe to defer, so the original name comes back on every exit path.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotDirectory reports a rename source that exists but is not a
	// directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrIllegalName reports a new name that is empty or contains a
	// separator or drive character.
	ErrIllegalName = errors.New("illegal name")
	// ErrTargetExists reports that the renamed path is already occupied.
	ErrTargetExists = errors.New("target already exists")
)

// reservedChars cannot appear in a new name: both path separators plus the
// Windows drive separator, so names stay valid across platforms.
const reservedChars = `\/:`

// Tx is an in-flight directory rename.
type Tx struct {
	original   string
	renamed    string
	attempted  bool
	restoreErr error
}

// Begin validates and renames dir to a sibling named newName. Validation
// runs before anything is touched: the directory must exist and be a
// directory, the name must be legal, and the target path must be free. Any
// failure leaves the filesystem unchanged.
func Begin(dir, newName string) (*Tx, error) {
	original, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(original)
	if err != nil {
		return nil, fmt.Errorf("renaming %s: %w", original, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("renaming %s: %w", original, ErrNotDirectory)
	}
	if newName == "" || strings.ContainsAny(newName, reservedChars) {
		return nil, fmt.Errorf("renaming to %q: %w", newName, ErrIllegalName)
	}
	renamed := filepath.Join(filepath.Dir(original), newName)
	// Lstat so an occupying dangling symlink still blocks the rename.
	if _, err := os.Lstat(renamed); err == nil {
		return nil, fmt.Errorf("renaming to %s: %w", renamed, ErrTargetExists)
	}
	if err := os.Rename(original, renamed); err != nil {
		return nil, fmt.Errorf("renaming %s: %w", original, err)
	}
	return &Tx{original: original, renamed: renamed}, nil
}

// Path returns the directory's current path under its temporary name.
func (tx *Tx) Path() string {
	return tx.renamed
}

// Original returns the path the directory had before Begin.
func (tx *Tx) Original() string {
	return tx.original
}

// Restore renames the directory back to its original name. Only the first
// call attempts the rename; later calls return the memoized outcome, so a
// deferred Restore after an explicit one is a no-op and a failed restore is
// never retried.
func (tx *Tx) Restore() error {
	if tx.attempted {
		return tx.restoreErr
	}
	tx.attempted = true
	if err := os.Rename(tx.renamed, tx.original); err != nil {
		tx.restoreErr = fmt.Errorf("restoring %s: %w", tx.original, err)
	}
	return tx.restoreErr
}
