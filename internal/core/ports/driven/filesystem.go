package driven

import "io"

// DirEntry is one child of a listed directory.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// FileSystem is the capability the pipeline needs from the asset root.
// All paths are slash-separated and relative to the root.
type FileSystem interface {
	// ListEntries returns the children of a directory sorted by name.
	ListEntries(path string) ([]DirEntry, error)

	// IsDirectory reports whether path exists and is a directory.
	IsDirectory(path string) (bool, error)

	// NonEmptyFile reports whether path is a regular file with at least one byte,
	// and returns its size. A missing file is not an error.
	NonEmptyFile(path string) (bool, int64, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// WriteAtomic creates parent directories and replaces path with the bytes
	// produced by write. The target is never left partially written: on any
	// error the previous state of path is kept.
	WriteAtomic(path string, write func(w io.Writer) error) error

	// Copy atomically copies src to dst.
	Copy(src, dst string) error

	// Remove deletes a file. Removing a missing file is not an error.
	Remove(path string) error
}

// RunLocker guards the asset root so at most one run writes to it.
type RunLocker interface {
	// Acquire takes the lock or fails with domain.ErrRunLocked.
	// The returned release function must be called once the run ends.
	Acquire() (release func() error, err error)
}
