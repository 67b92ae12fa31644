package output

import (
	"path"
	"strings"

	gotree "github.com/disiqueira/gotree/v3"
)

// EntryTree renders would-be archive entries as an indented tree for dry-run
// previews. Names arrive in their archive form: forward slashes, trailing
// slash on directories.
type EntryTree struct {
	root gotree.Tree
	dirs map[string]gotree.Tree
}

// NewEntryTree returns a tree rooted at label, usually the archive filename.
func NewEntryTree(label string) *EntryTree {
	return &EntryTree{
		root: gotree.New(label),
		dirs: make(map[string]gotree.Tree),
	}
}

// Insert adds one archive entry name, creating intermediate directory nodes
// as needed. Inserting a directory before its children keeps empty
// directories visible.
func (t *EntryTree) Insert(name string) {
	if trimmed, ok := strings.CutSuffix(name, "/"); ok {
		t.dir(trimmed)
		return
	}
	t.dir(path.Dir(name)).Add(path.Base(name))
}

// dir returns the node for a slash-separated directory path.
func (t *EntryTree) dir(p string) gotree.Tree {
	if p == "" || p == "." || p == "/" {
		return t.root
	}
	if node, ok := t.dirs[p]; ok {
		return node
	}
	node := t.dir(path.Dir(p)).Add(path.Base(p) + "/")
	t.dirs[p] = node
	return node
}

// Render draws the tree.
func (t *EntryTree) Render() string {
	return t.root.Print()
}
