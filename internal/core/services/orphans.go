package services

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
	"github.com/orson-vision/orson-assets/internal/core/ports/driving"
)

// Ensure OrphanService implements the interface.
var _ driving.OrphanFinder = (*OrphanService)(nil)

// OrphanService finds files under the asset root that the manifest does not account for.
type OrphanService struct {
	fs        driven.FileSystem
	manifests driven.ManifestStore
	reserved  []string
}

// NewOrphanService creates an orphan finder. reserved lists bookkeeping files
// that are never reported.
func NewOrphanService(fs driven.FileSystem, manifests driven.ManifestStore, reserved []string) *OrphanService {
	return &OrphanService{fs: fs, manifests: manifests, reserved: reserved}
}

// Orphans returns relative paths of unreferenced files, sorted lexically.
func (s *OrphanService) Orphans(ctx context.Context) ([]string, error) {
	m, err := s.manifests.Read()
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	referenced := map[string]bool{path.Clean(s.manifests.Path()): true}
	for _, r := range s.reserved {
		referenced[path.Clean(r)] = true
	}
	for _, e := range m.Entries {
		p := path.Clean(e.ResolvedPath)
		referenced[p] = true
		referenced[domain.SidecarPath(p)] = true
		// Fallback sources stay in use while a slot still names them.
		if src, ok := e.Metadata["copiedFrom"].(string); ok && src != "" {
			referenced[path.Clean(src)] = true
		}
	}

	var orphans []string
	err = Walk(s.fs, "", func(p string, entry driven.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir {
			return nil
		}
		if !referenced[path.Clean(p)] {
			orphans = append(orphans, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(orphans)
	return orphans, nil
}
