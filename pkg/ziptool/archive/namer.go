package archive

import "path/filepath"

// Namer computes in-archive names for tree entries. ZIP names are always
// forward-slashed; directory entries carry a trailing slash so extractors
// recreate them even when empty.
type Namer struct {
	wrapper string
}

// NewNamer returns a Namer for entries relative to root. With windowsStyle
// set, every name is prefixed with a folder named after the root directory,
// so extracting the archive in place yields a single top-level folder
// instead of spilling the tree's contents.
func NewNamer(root string, windowsStyle bool) *Namer {
	n := &Namer{}
	if windowsStyle {
		n.wrapper = filepath.Base(filepath.Clean(root)) + "/"
	}
	return n
}

// Name converts a root-relative path into its archive entry name.
func (n *Namer) Name(rel string, isDir bool) string {
	name := filepath.ToSlash(rel)
	if isDir {
		name += "/"
	}
	return n.wrapper + name
}
