package osfilesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_CreateTruncates(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "out.webp")

	if err := os.WriteFile(path, []byte("a much longer previous output"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := fs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("new")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("expected %q, got %q", "new", data)
	}
}

func TestFileSystem_CreateMissingDir(t *testing.T) {
	fs := New()
	if _, err := fs.Create(filepath.Join(t.TempDir(), "missing", "out.avif")); err == nil {
		t.Error("expected error when the parent directory does not exist")
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "a", "b", "c", "stream.json")
	if err := fs.WriteFile(testPath, []byte("{}")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	size, err := fs.Size(testPath)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}

	entries, err := os.ReadDir(filepath.Dir(testPath))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the written file, found %d entries", len(entries))
	}
}

func TestFileSystem_WriteFileReplaces(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "summary.md")

	for _, content := range []string{"first run, longer", "second"} {
		if err := fs.WriteFile(path, []byte(content)); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}

func TestFileSystem_Size(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	if _, err := fs.Size(filepath.Join(tmpDir, "missing.avif")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v, want ErrNotExist", err)
	}

	dir := filepath.Join(tmpDir, "frames")
	if err := fs.MkdirAll(dir); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if _, err := fs.Size(dir); err == nil {
		t.Error("expected error for a directory")
	}
}
