package manifest

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orson-vision/orson-assets/internal/adapters/driven/fsys"
	"github.com/orson-vision/orson-assets/internal/core/domain"
)

func sampleManifest() *domain.Manifest {
	return &domain.Manifest{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Entries: []domain.ManifestEntry{
			{SlotID: "logo.primary", ResolvedPath: "images/logo.png", Origin: domain.OriginPreexistingLocal},
			{
				SlotID:       "hero.background",
				ResolvedPath: "videos/hero.mp4",
				Origin:       domain.OriginDownloaded,
				Metadata:     map[string]any{"photographer": "Lin"},
			},
		},
		Failed: []domain.ManifestFailure{{SlotID: "team.photo.3", Error: "write error: disk full"}},
	}
}

func TestStore_WriteRead(t *testing.T) {
	fs := fsys.NewMemory()
	s := NewStore(fs, "")
	assert.Equal(t, DefaultPath, s.Path())

	require.NoError(t, s.Write(sampleManifest()))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, domain.ManifestVersion, got.Version)
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, domain.OriginDownloaded, got.Entries[1].Origin)
	assert.Equal(t, "Lin", got.Entries[1].Metadata["photographer"])
	require.Len(t, got.Failed, 1)
	assert.Equal(t, "team.photo.3", got.Failed[0].SlotID)
}

func TestStore_WireFormat(t *testing.T) {
	fs := fsys.NewMemory()
	s := NewStore(fs, "data/manifest.json")
	require.NoError(t, s.Write(sampleManifest()))

	rc, err := fs.Open("data/manifest.json")
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.EqualValues(t, 1, doc["version"])
	entries := doc["entries"].([]any)
	first := entries[0].(map[string]any)
	assert.Equal(t, "logo.primary", first["slotId"])
	assert.Equal(t, "images/logo.png", first["resolvedPath"])
	assert.Equal(t, "PreexistingLocal", first["origin"])
	assert.NotContains(t, first, "metadata")
	assert.True(t, strings.HasSuffix(string(raw), "}\n"))
}

func TestStore_EmptyEntriesIsArray(t *testing.T) {
	fs := fsys.NewMemory()
	s := NewStore(fs, "")
	require.NoError(t, s.Write(&domain.Manifest{RunID: "r"}))

	rc, err := fs.Open(DefaultPath)
	require.NoError(t, err)
	defer rc.Close()
	raw, _ := io.ReadAll(rc)
	assert.Contains(t, string(raw), `"entries": []`)
}

func TestStore_ReadMissing(t *testing.T) {
	_, err := NewStore(fsys.NewMemory(), "").Read()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReadCorrupt(t *testing.T) {
	fs := fsys.NewMemory()
	require.NoError(t, fs.WriteAtomic(DefaultPath, func(w io.Writer) error {
		_, err := io.WriteString(w, "{not json")
		return err
	}))

	_, err := NewStore(fs, "").Read()
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WriteError(t *testing.T) {
	s := NewStore(fsys.New(afero.NewReadOnlyFs(afero.NewMemMapFs())), "")
	err := s.Write(sampleManifest())
	assert.ErrorIs(t, err, domain.ErrWrite)
}
