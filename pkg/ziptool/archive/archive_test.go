package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud2303/ziptool/pkg/ziptool/pathmatch"
)

// buildFixture creates:
//
//	root/
//	  a.txt
//	  docs/
//	    guide.md
//	  empty/
//	  src/
//	    main.go
func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"docs", "empty", "src"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0o755))
	}
	writeTreeFile(t, root, "a.txt", "alpha")
	writeTreeFile(t, root, filepath.Join("docs", "guide.md"), "guide text")
	writeTreeFile(t, root, filepath.Join("src", "main.go"), "package main")
	return root
}

func writeTreeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
}

// readArchive returns entry names in archive order and a name -> content map
// for the file entries.
func readArchive(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	contents := make(map[string]string)
	for _, f := range r.File {
		names = append(names, f.Name)
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(data)
	}
	return names, contents
}

func TestBuilder_Build_ArchivesEveryNode(t *testing.T) {
	root := buildFixture(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	res, err := New(Options{Destination: dest, Root: root}).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 3, res.Total)

	names, contents := readArchive(t, dest)
	assert.Equal(t, []string{
		"a.txt",
		"docs/",
		"docs/guide.md",
		"empty/",
		"src/",
		"src/main.go",
	}, names)
	assert.Equal(t, "alpha", contents["a.txt"])
	assert.Equal(t, "guide text", contents["docs/guide.md"])
}

func TestBuilder_Build_FileEntriesAreDeflated(t *testing.T) {
	root := buildFixture(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	_, err := New(Options{Destination: dest, Root: root}).Build()
	require.NoError(t, err)

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		assert.Equal(t, zip.Deflate, f.Method, f.Name)
	}
}

func TestBuilder_Build_PrunesIgnoredDirectory(t *testing.T) {
	root := buildFixture(t)
	dest := filepath.Join(t.TempDir(), "out.zip")

	res, err := New(Options{
		Destination: dest,
		Root:        root,
		Ignore:      pathmatch.New(root, []string{"docs"}),
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total, "guide.md no longer counts")

	names, _ := readArchive(t, dest)
	assert.NotContains(t, names, "docs/")
	assert.NotContains(t, names, "docs/guide.md")
	assert.Contains(t, names, "empty/")
}

func TestBuilder_Build_WindowsStyleWrapsTreeOnly(t *testing.T) {
	root := buildFixture(t)
	outside := t.TempDir()
	extraSrc := filepath.Join(outside, "release-notes.txt")
	require.NoError(t, os.WriteFile(extraSrc, []byte("notes"), 0o644))
	x, err := ResolveExtra(outside, "release-notes.txt")
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.zip")
	res, err := New(Options{
		Destination:  dest,
		Root:         root,
		WindowsStyle: true,
		Extras:       []Extra{x},
	}).Build()
	require.NoError(t, err)
	assert.Equal(t, 4, res.Processed)

	wrapper := filepath.Base(root) + "/"
	names, contents := readArchive(t, dest)
	for _, name := range names {
		if name == "release-notes.txt" {
			continue
		}
		assert.Truef(t, len(name) > len(wrapper) && name[:len(wrapper)] == wrapper,
			"tree entry %q must carry the %q prefix", name, wrapper)
	}
	assert.Equal(t, "notes", contents["release-notes.txt"])
}

func TestBuilder_Build_ExtrasAppendedAfterTree(t *testing.T) {
	root := buildFixture(t)
	base := t.TempDir()
	src := filepath.Join(base, "conf", "app.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("key: value"), 0o644))
	x, err := ResolveExtra(base, filepath.Join("conf", "app.yaml"))
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.zip")
	res, err := New(Options{Destination: dest, Root: root, Extras: []Extra{x}}).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 4, res.Total)

	names, contents := readArchive(t, dest)
	require.NotEmpty(t, names)
	assert.Equal(t, "conf/app.yaml", names[len(names)-1], "extras come last")
	assert.Equal(t, "key: value", contents["conf/app.yaml"])
}

func TestBuilder_Build_DuplicateEntryNamesAllowed(t *testing.T) {
	root := buildFixture(t)
	base := t.TempDir()
	src := filepath.Join(base, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("imposter"), 0o644))
	x, err := ResolveExtra(base, "a.txt")
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.zip")
	res, err := New(Options{Destination: dest, Root: root, Extras: []Extra{x}}).Build()
	require.NoError(t, err)
	assert.Equal(t, 4, res.Processed)

	names, _ := readArchive(t, dest)
	count := 0
	for _, n := range names {
		if n == "a.txt" {
			count++
		}
	}
	assert.Equal(t, 2, count, "both the tree file and the extra are written")
}

func TestBuilder_Build_VanishedExtraSkipped(t *testing.T) {
	root := buildFixture(t)
	base := t.TempDir()
	src := filepath.Join(base, "fleeting.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	x, err := ResolveExtra(base, "fleeting.txt")
	require.NoError(t, err)
	require.NoError(t, os.Remove(src))

	dest := filepath.Join(t.TempDir(), "out.zip")
	res, err := New(Options{Destination: dest, Root: root, Extras: []Extra{x}}).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total, "the binding was still counted")
	assert.Equal(t, 3, res.Processed)

	names, _ := readArchive(t, dest)
	assert.NotContains(t, names, "fleeting.txt")
}

func TestBuilder_Build_ExtraReplacedByDirectorySkipped(t *testing.T) {
	root := buildFixture(t)
	base := t.TempDir()
	src := filepath.Join(base, "swap.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	x, err := ResolveExtra(base, "swap.txt")
	require.NoError(t, err)
	require.NoError(t, os.Remove(src))
	require.NoError(t, os.Mkdir(src, 0o755))

	dest := filepath.Join(t.TempDir(), "out.zip")
	res, err := New(Options{Destination: dest, Root: root, Extras: []Extra{x}}).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, res.Processed)
}

func TestBuilder_Build_DestinationInsideRootExcluded(t *testing.T) {
	root := buildFixture(t)
	dest := filepath.Join(root, "output.zip")

	res, err := New(Options{Destination: dest, Root: root}).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total, "the archive being written is not a candidate")
	assert.Equal(t, 3, res.Processed)

	names, _ := readArchive(t, dest)
	assert.NotContains(t, names, "output.zip")
}

func TestBuilder_Build_OpenFailureIsTyped(t *testing.T) {
	root := buildFixture(t)
	dest := filepath.Join(t.TempDir(), "no", "such", "dir", "out.zip")

	res, err := New(Options{Destination: dest, Root: root}).Build()
	require.Error(t, err)
	assert.Nil(t, res)

	var openErr *OpenError
	require.True(t, errors.As(err, &openErr))
	assert.Equal(t, dest, openErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuilder_Build_MissingRoot(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.zip")

	_, err := New(Options{Destination: dest, Root: filepath.Join(t.TempDir(), "absent")}).Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuilder_Build_ProgressNotifications(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1.txt", "2.txt", "3.txt", "4.txt", "5.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}
	dest := filepath.Join(t.TempDir(), "out.zip")

	var percents []int
	_, err := New(Options{
		Destination:   dest,
		Root:          root,
		ProgressEvery: 2,
		OnProgress:    func(p int) { percents = append(percents, p) },
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, []int{40, 80, 100}, percents)
}

func TestBuilder_Build_EmptyTreeNoProgress(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out.zip")

	calls := 0
	res, err := New(Options{
		Destination: dest,
		Root:        root,
		OnProgress:  func(int) { calls++ },
	}).Build()
	require.NoError(t, err)

	assert.Zero(t, calls)
	assert.Zero(t, res.Processed)
	assert.Zero(t, res.Total)

	names, _ := readArchive(t, dest)
	assert.Empty(t, names, "a valid empty archive is still written")
}

func TestBuilder_Build_UnreadableFileSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Getuid() == 0 {
		t.Skip("root ignores permission bits")
	}
	root := buildFixture(t)
	locked := filepath.Join(root, "locked.txt")
	require.NoError(t, os.WriteFile(locked, []byte("x"), 0o000))

	dest := filepath.Join(t.TempDir(), "out.zip")
	res, err := New(Options{Destination: dest, Root: root}).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total, "the unreadable file was stat-able and counted")
	assert.Equal(t, 3, res.Processed)

	names, _ := readArchive(t, dest)
	assert.NotContains(t, names, "locked.txt")
}
