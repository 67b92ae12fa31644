package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryTree_Insert_FilesAndDirectories(t *testing.T) {
	tree := NewEntryTree("output.zip")
	tree.Insert("a.txt")
	tree.Insert("docs/")
	tree.Insert("docs/guide.md")

	rendered := tree.Render()

	assert.Contains(t, rendered, "output.zip")
	assert.Contains(t, rendered, "a.txt")
	assert.Contains(t, rendered, "docs/")
	assert.Contains(t, rendered, "guide.md")
}

func TestEntryTree_Insert_CreatesIntermediateDirectories(t *testing.T) {
	tree := NewEntryTree("out.zip")
	tree.Insert("src/pkg/util/helper.go")

	rendered := tree.Render()

	assert.Contains(t, rendered, "src/")
	assert.Contains(t, rendered, "pkg/")
	assert.Contains(t, rendered, "util/")
	assert.Contains(t, rendered, "helper.go")
}

func TestEntryTree_Insert_EmptyDirectoryVisible(t *testing.T) {
	tree := NewEntryTree("out.zip")
	tree.Insert("empty/")

	assert.Contains(t, tree.Render(), "empty/")
}

func TestEntryTree_Insert_DirectoryNodeReused(t *testing.T) {
	tree := NewEntryTree("out.zip")
	tree.Insert("docs/")
	tree.Insert("docs/a.md")
	tree.Insert("docs/b.md")

	rendered := tree.Render()

	assert.Equal(t, 1, strings.Count(rendered, "docs/"), "directory appears once")
	assert.Contains(t, rendered, "a.md")
	assert.Contains(t, rendered, "b.md")
}

func TestEntryTree_Insert_WrapperPrefixedNames(t *testing.T) {
	tree := NewEntryTree("project.zip")
	tree.Insert("project/")
	tree.Insert("project/main.go")
	tree.Insert("readme.txt")

	rendered := tree.Render()

	assert.Contains(t, rendered, "project/")
	assert.Contains(t, rendered, "main.go")
	assert.Contains(t, rendered, "readme.txt")
}

func TestEntryTree_Render_EmptyTreeIsJustRoot(t *testing.T) {
	tree := NewEntryTree("out.zip")

	rendered := strings.TrimSpace(tree.Render())

	assert.Equal(t, "out.zip", rendered)
}
