package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotRegular reports an extra path that exists but is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// Extra binds an out-of-tree source file to the archive entry name it will be
// written under. The name is fixed when the binding is made, so renaming the
// archive root later does not change it.
type Extra struct {
	// Source is the absolute path the file content is read from.
	Source string
	// Name is the archive entry name, always forward-slashed and never
	// subject to wrapper-folder prefixing.
	Name string
}

// ResolveExtra validates one extra path against base (the invocation
// directory) and computes its binding. The path must resolve to an existing
// regular file.
func ResolveExtra(base, path string) (Extra, error) {
	abs := path
	if filepath.IsAbs(abs) {
		abs = filepath.Clean(abs)
	} else {
		abs = filepath.Join(base, abs)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Extra{}, fmt.Errorf("extra file %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return Extra{}, fmt.Errorf("extra file %s: %w", abs, ErrNotRegular)
	}
	return Extra{Source: abs, Name: extraName(base, abs)}, nil
}

// extraName names an extra by its base-relative path, falling back to the
// bare filename when the file sits outside the base directory and the
// relative path would escape upward.
func extraName(base, abs string) string {
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return filepath.Base(abs)
	}
	name := filepath.ToSlash(rel)
	if name == "" || name == ".." || strings.HasPrefix(name, "../") {
		return filepath.Base(abs)
	}
	return name
}
