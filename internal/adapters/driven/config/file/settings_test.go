package file

import (
	"errors"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

func TestLoadSettings_NilStore(t *testing.T) {
	s, err := LoadSettings(nil)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestLoadSettings_Overlay(t *testing.T) {
	path := writeSettings(t, `
[pipeline]
asset_root = "static"
catalog = "media.toml"
workers = 2

[remote]
api_key_env = "STOCK_KEY"
search_timeout = "10s"
download_timeout = "5m"
requests_per_second = 3

[placeholder]
default_width = 640
default_height = 480
`)
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	s, err := LoadSettings(store)
	require.NoError(t, err)

	assert.Equal(t, "static", s.Pipeline.AssetRoot)
	assert.Equal(t, "media.toml", s.Pipeline.Catalog)
	assert.Equal(t, "asset-manifest.json", s.Pipeline.Manifest)
	assert.Equal(t, 2, s.Pipeline.Workers)
	assert.Equal(t, "STOCK_KEY", s.Remote.APIKeyEnv)
	assert.Equal(t, "https://api.pexels.com", s.Remote.BaseURL)
	assert.Equal(t, 10*time.Second, s.Remote.SearchTimeout)
	assert.Equal(t, 5*time.Minute, s.Remote.DownloadTimeout)
	assert.Equal(t, 3.0, s.Remote.RequestsPerSecond)
	assert.Equal(t, domain.Dimensions{Width: 640, Height: 480}, s.Placeholder.Dimensions())
}

func TestLoadSettings_BadDuration(t *testing.T) {
	store, err := NewConfigStore(writeSettings(t, "[remote]\nsearch_timeout = \"fast\"\n"))
	require.NoError(t, err)

	_, err = LoadSettings(store)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}

func TestLoadSettings_InvalidValues(t *testing.T) {
	store, err := NewConfigStore(writeSettings(t, "[pipeline]\nworkers = 0\n"))
	require.NoError(t, err)

	_, err = LoadSettings(store)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
	assert.Contains(t, err.Error(), "pipeline.workers")
}

func TestMarshalSettings_RoundTrip(t *testing.T) {
	want := domain.DefaultSettings()
	want.Pipeline.Workers = 7
	want.Remote.SearchTimeout = 12 * time.Second

	data, err := MarshalSettings(want)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, toml.Unmarshal(data, &doc))

	path := writeSettings(t, string(data))
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	got, err := LoadSettings(store)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
