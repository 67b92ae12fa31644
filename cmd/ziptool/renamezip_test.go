package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRunRenameZipRestoresOriginalName(t *testing.T) {
	cwd := t.TempDir()
	chdir(t, cwd)
	setTestConfig(t, "history:\n  enabled: false\n")

	if err := os.MkdirAll(filepath.Join(cwd, "foo", "sub"), 0o755); err != nil {
		t.Fatalf("failed to create directories: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cwd, "foo", "a.txt"), []byte("alpha"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cwd, "foo", "sub", "b.txt"), []byte("beta"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	prevDir, prevName := renameDir, renameNewName
	renameDir, renameNewName = "foo", "bar"
	t.Cleanup(func() { renameDir, renameNewName = prevDir, prevName })

	if err := renameZipCmd.Flags().Set("windows-style", "true"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	t.Cleanup(func() {
		f := renameZipCmd.Flags().Lookup("windows-style")
		_ = f.Value.Set("false")
		f.Changed = false
	})

	if err := runRenameZip(renameZipCmd, nil); err != nil {
		t.Fatalf("runRenameZip() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(cwd, "foo"))
	if err != nil || !info.IsDir() {
		t.Errorf("original directory was not restored: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(cwd, "bar")); !os.IsNotExist(err) {
		t.Error("temporary name still present after the run")
	}

	want := []string{"bar/a.txt", "bar/sub/", "bar/sub/b.txt"}
	if got := zipEntries(t, filepath.Join(cwd, "bar.zip")); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestRunRenameZipSucceedsWhenRestoreFails(t *testing.T) {
	cwd := t.TempDir()
	chdir(t, cwd)
	setTestConfig(t, "history:\n  enabled: false\n")

	// The directory carries the archive's destination name on purpose: once
	// the rename frees that path the build creates bar.zip as a file there,
	// so the restore rename finds its target occupied and fails while the
	// archive itself is fine.
	if err := os.Mkdir(filepath.Join(cwd, "bar.zip"), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cwd, "bar.zip", "a.txt"), []byte("alpha"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	prevDir, prevName := renameDir, renameNewName
	renameDir, renameNewName = "bar.zip", "bar"
	t.Cleanup(func() { renameDir, renameNewName = prevDir, prevName })

	if err := runRenameZip(renameZipCmd, nil); err != nil {
		t.Errorf("runRenameZip() error = %v, want success once the archive is written", err)
	}

	info, err := os.Stat(filepath.Join(cwd, "bar"))
	if err != nil || !info.IsDir() {
		t.Errorf("directory should remain under its temporary name: %v", err)
	}

	dest := filepath.Join(cwd, "bar.zip")
	destInfo, err := os.Stat(dest)
	if err != nil || !destInfo.Mode().IsRegular() {
		t.Fatalf("archive was not written to %s: %v", dest, err)
	}
	if got := zipEntries(t, dest); len(got) != 1 || got[0] != "a.txt" {
		t.Errorf("entries = %v, want [a.txt]", got)
	}
}
