// Package fsys implements the FileSystem port on top of afero.
//
// Every path handed to the adapter is relative to the asset root. NewOS roots an
// afero.BasePathFs at the asset root so nothing outside it can be reached;
// NewMemory backs the same behaviour with an in-memory tree for tests.
package fsys

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"

	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// Ensure FS implements the interface.
var _ driven.FileSystem = (*FS)(nil)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// FS is a FileSystem rooted at an asset root.
type FS struct {
	fs   afero.Fs
	root string
}

// New wraps an arbitrary afero filesystem.
func New(fs afero.Fs) *FS {
	return &FS{fs: fs, root: "/"}
}

// NewOS returns a filesystem confined to root on the local disk.
func NewOS(root string) *FS {
	return &FS{fs: afero.NewBasePathFs(afero.NewOsFs(), root), root: root}
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() *FS {
	return New(afero.NewMemMapFs())
}

// Root returns the asset root this filesystem is confined to.
func (f *FS) Root() string {
	return f.root
}

func clean(p string) string {
	return path.Clean("/" + p)
}

// ListEntries returns the children of a directory sorted by name.
func (f *FS) ListEntries(dir string) ([]driven.DirEntry, error) {
	infos, err := afero.ReadDir(f.fs, clean(dir))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	entries := make([]driven.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, driven.DirEntry{
			Name:  info.Name(),
			IsDir: info.IsDir(),
			Size:  info.Size(),
		})
	}
	return entries, nil
}

// IsDirectory reports whether p exists and is a directory.
func (f *FS) IsDirectory(p string) (bool, error) {
	ok, err := afero.IsDir(f.fs, clean(p))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return ok, err
}

// NonEmptyFile reports whether p is a regular file with content.
func (f *FS) NonEmptyFile(p string) (bool, int64, error) {
	info, err := f.fs.Stat(clean(p))
	if errors.Is(err, os.ErrNotExist) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return false, info.Size(), nil
	}
	return true, info.Size(), nil
}

// Open opens a file for reading.
func (f *FS) Open(p string) (io.ReadCloser, error) {
	file, err := f.fs.Open(clean(p))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return file, nil
}

// WriteAtomic writes into a temporary sibling of p and renames it over p.
// On failure the temporary file is removed and p keeps its previous state.
func (f *FS) WriteAtomic(p string, write func(w io.Writer) error) (err error) {
	target := clean(p)
	dir := path.Dir(target)
	if err := f.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(f.fs, dir, "."+path.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", p, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = f.fs.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p, err)
	}
	if err := f.fs.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", p, err)
	}
	if err := f.fs.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename into %s: %w", p, err)
	}
	return nil
}

// Copy atomically copies src to dst.
func (f *FS) Copy(src, dst string) error {
	in, err := f.fs.Open(clean(src))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	return f.WriteAtomic(dst, func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return fmt.Errorf("copy %s to %s: %w", src, dst, err)
		}
		return nil
	})
}

// Remove deletes a file. A missing file is not an error.
func (f *FS) Remove(p string) error {
	err := f.fs.Remove(clean(p))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}
