package services

import (
	"errors"
	"path"

	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
)

// SkipDir can be returned by a WalkFunc to skip a directory's contents.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every entry below the walk root.
// p is relative to the asset root.
type WalkFunc func(p string, entry driven.DirEntry) error

// Walk visits the tree under root depth-first in lexical order.
func Walk(fs driven.FileSystem, root string, fn WalkFunc) error {
	isDir, err := fs.IsDirectory(root)
	if err != nil {
		return err
	}
	if !isDir {
		return nil
	}
	return walkDir(fs, root, fn)
}

func walkDir(fs driven.FileSystem, dir string, fn WalkFunc) error {
	entries, err := fs.ListEntries(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name)
		if err := fn(p, e); err != nil {
			if errors.Is(err, SkipDir) && e.IsDir {
				continue
			}
			return err
		}
		if e.IsDir {
			if err := walkDir(fs, p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
