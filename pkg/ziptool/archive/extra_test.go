package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExtra_InsideBaseKeepsRelativeName(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "notes", "todo.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	x, err := ResolveExtra(base, filepath.Join("notes", "todo.txt"))
	require.NoError(t, err)

	assert.Equal(t, src, x.Source)
	assert.Equal(t, "notes/todo.txt", x.Name)
}

func TestResolveExtra_OutsideBaseFallsBackToFilename(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()
	src := filepath.Join(outside, "license.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	x, err := ResolveExtra(base, src)
	require.NoError(t, err)

	assert.Equal(t, "license.txt", x.Name)
}

func TestResolveExtra_UpwardRelativeFallsBackToFilename(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "work")
	require.NoError(t, os.Mkdir(base, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "shared.cfg"), []byte("x"), 0o644))

	x, err := ResolveExtra(base, filepath.Join("..", "shared.cfg"))
	require.NoError(t, err)

	assert.Equal(t, "shared.cfg", x.Name)
}

func TestResolveExtra_DotDotPrefixedFilenameIsNotAnEscape(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "..hidden.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	x, err := ResolveExtra(base, "..hidden.txt")
	require.NoError(t, err)

	assert.Equal(t, "..hidden.txt", x.Name)
}

func TestResolveExtra_MissingFile(t *testing.T) {
	base := t.TempDir()

	_, err := ResolveExtra(base, "absent.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestResolveExtra_DirectoryRejected(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "subdir"), 0o755))

	_, err := ResolveExtra(base, "subdir")
	require.ErrorIs(t, err, ErrNotRegular)
}
