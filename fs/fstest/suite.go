// Package fstest provides a conformance suite for fs.Filesystem
// implementations.
//
// Example usage:
//
//	func TestMyProvider(t *testing.T) {
//	    fstest.Run(t, myprovider.New(), "/")
//	}
package fstest

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/awslabs/aws-lambda-redshift-loader/fs"
)

// Filesystem is the surface the suite drives: the uploaders' fs.Filesystem
// plus the setup and cleanup calls every adapter in fs/billy provides.
type Filesystem interface {
	fs.Filesystem
	OpenFile(name string, flag int, perm os.FileMode) (fs.File, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	Remove(name string) error
}

// Run executes every conformance test against filesystem. All paths are
// created below root, which must already exist.
func Run(t *testing.T, filesystem Filesystem, root string) {
	t.Helper()

	t.Run("MkdirAllStat", func(t *testing.T) { testMkdirAllStat(t, filesystem, root) })
	t.Run("CreateTruncates", func(t *testing.T) { testCreateTruncates(t, filesystem, root) })
	t.Run("OpenReadStat", func(t *testing.T) { testOpenReadStat(t, filesystem, root) })
	t.Run("MissingFile", func(t *testing.T) { testMissingFile(t, filesystem, root) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, filesystem, root) })
}

func testMkdirAllStat(t *testing.T, filesystem Filesystem, root string) {
	if err := filesystem.MkdirAll(filepath.Join(root, "a/b/c"), 0o755); err != nil {
		t.Fatalf("MkdirAll: got error %v, want nil", err)
	}
	info, err := filesystem.Stat(filepath.Join(root, "a/b"))
	if err != nil {
		t.Fatalf("Stat: got error %v, want nil", err)
	}
	if !info.IsDir() {
		t.Errorf("Stat(%q).IsDir() = false, want true", info.Name())
	}
}

// testCreateTruncates writes the way a trigger file is written: create over
// an existing file, write, sync, close.
func testCreateTruncates(t *testing.T, filesystem Filesystem, root string) {
	p := filepath.Join(root, "trunc.txt")
	if err := filesystem.WriteFile(p, []byte("previous contents"), 0o644); err != nil {
		t.Fatalf("WriteFile: got error %v, want nil", err)
	}

	f, err := filesystem.Create(p)
	if err != nil {
		t.Fatalf("Create(%q): got error %v, want nil", p, err)
	}
	if _, err := f.Write([]byte("\n")); err != nil {
		_ = f.Close()
		t.Fatalf("Write: got error %v, want nil", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		t.Fatalf("Sync: got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: got error %v, want nil", err)
	}

	b, err := filesystem.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile: got error %v, want nil", err)
	}
	if string(b) != "\n" {
		t.Errorf("ReadFile = %q, want %q", string(b), "\n")
	}
}

func testOpenReadStat(t *testing.T, filesystem Filesystem, root string) {
	p := filepath.Join(root, "open.txt")
	if err := filesystem.WriteFile(p, []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile: got error %v, want nil", err)
	}

	f, err := filesystem.Open(p)
	if err != nil {
		t.Fatalf("Open(%q): got error %v, want nil", p, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat: got error %v, want nil", err)
	}
	if info.Size() != 3 {
		t.Errorf("Size = %d, want 3", info.Size())
	}

	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: got error %v, want nil", err)
	}
	if string(b) != "abc" {
		t.Errorf("ReadAll = %q, want %q", string(b), "abc")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: got error %v, want nil", err)
	}

	f2, err := filesystem.OpenFile(p, os.O_RDONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile: got error %v, want nil", err)
	}
	_ = f2.Close()
}

func testMissingFile(t *testing.T, filesystem Filesystem, root string) {
	_, err := filesystem.Open(filepath.Join(root, "missing.txt"))
	if err == nil {
		t.Fatalf("Open of missing file succeeded")
	}
	if !errors.Is(err, iofs.ErrNotExist) {
		t.Errorf("Open error = %v, want wrapping fs.ErrNotExist", err)
	}
}

func testRemove(t *testing.T, filesystem Filesystem, root string) {
	p := filepath.Join(root, "remove.txt")
	if err := filesystem.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: got error %v, want nil", err)
	}
	if err := filesystem.Remove(p); err != nil {
		t.Fatalf("Remove: got error %v, want nil", err)
	}
	if _, err := filesystem.Stat(p); !errors.Is(err, iofs.ErrNotExist) {
		t.Errorf("Stat after Remove = %v, want fs.ErrNotExist", err)
	}
}
