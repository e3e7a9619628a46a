package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orson-vision/orson-assets/internal/adapters/driven/fsys"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/manifest"
	"github.com/orson-vision/orson-assets/internal/core/domain"
)

func TestOrphans(t *testing.T) {
	fs := fsys.NewMemory()
	seed(t, fs,
		"videos/hero.mp4", "videos/hero.mp4.json",
		"images/team/1.jpg",
		"images/old/unused.jpg", "stray.txt",
		".orson-assets.lock",
	)
	store := manifest.NewStore(fs, "")
	require.NoError(t, store.Write(&domain.Manifest{Entries: []domain.ManifestEntry{
		{SlotID: "hero.background", ResolvedPath: "videos/hero.mp4"},
		{SlotID: "team.photo.1", ResolvedPath: "./images/team/1.jpg"},
	}}))

	orphans, err := NewOrphanService(fs, store, []string{".orson-assets.lock"}).Orphans(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"images/old/unused.jpg", "stray.txt"}, orphans)
}

func TestOrphans_NoManifest(t *testing.T) {
	fs := fsys.NewMemory()
	_, err := NewOrphanService(fs, manifest.NewStore(fs, ""), nil).Orphans(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrphans_Cancelled(t *testing.T) {
	fs := fsys.NewMemory()
	seed(t, fs, "a.jpg")
	store := manifest.NewStore(fs, "")
	require.NoError(t, store.Write(&domain.Manifest{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOrphanService(fs, store, nil).Orphans(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrphans_FallbackSourcesAreReferenced(t *testing.T) {
	h := newHarness()
	h.write(t, "legacy/logo.svg", "<svg/>")
	h.write(t, "legacy/old.svg", "<svg/>")
	slots := []domain.AssetSlot{{
		ID: "logo.primary", Kind: domain.KindImage, TargetPath: "images/logo.svg",
		Fallbacks: []string{"legacy/logo.svg"},
	}}

	_, err := h.builder(false).Run(context.Background(), slots)
	require.NoError(t, err)

	orphans, err := NewOrphanService(h.fs, h.manifests, nil).Orphans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"legacy/old.svg"}, orphans)
}
