package file

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
	"github.com/orson-vision/orson-assets/internal/logger"
)

// Settings keys.
const (
	KeyAssetRoot         = "pipeline.asset_root"
	KeyCatalog           = "pipeline.catalog"
	KeyManifest          = "pipeline.manifest"
	KeyWorkers           = "pipeline.workers"
	KeyHistoryDir        = "pipeline.history_dir"
	KeyBaseURL           = "remote.base_url"
	KeyAPIKeyEnv         = "remote.api_key_env"
	KeyPerPage           = "remote.per_page"
	KeyOrientation       = "remote.orientation"
	KeySearchTimeout     = "remote.search_timeout"
	KeyDownloadTimeout   = "remote.download_timeout"
	KeyRequestsPerSecond = "remote.requests_per_second"
	KeyBurst             = "remote.burst"
	KeyPlaceholderWidth  = "placeholder.default_width"
	KeyPlaceholderHeight = "placeholder.default_height"
)

// LoadSettings overlays every key present in store onto the defaults.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if store == nil {
		return s, nil
	}

	var errs []error
	known := make(map[string]bool)

	str := func(key string, dst *string) {
		known[key] = true
		if _, ok := store.Get(key); ok {
			*dst = store.GetString(key)
		}
	}
	integer := func(key string, dst *int) {
		known[key] = true
		if _, ok := store.Get(key); ok {
			*dst = store.GetInt(key)
		}
	}
	duration := func(key string, dst *time.Duration) {
		known[key] = true
		d, ok, err := store.GetDuration(key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if ok {
			*dst = d
		}
	}

	str(KeyAssetRoot, &s.Pipeline.AssetRoot)
	str(KeyCatalog, &s.Pipeline.Catalog)
	str(KeyManifest, &s.Pipeline.Manifest)
	integer(KeyWorkers, &s.Pipeline.Workers)
	str(KeyHistoryDir, &s.Pipeline.HistoryDir)

	str(KeyBaseURL, &s.Remote.BaseURL)
	str(KeyAPIKeyEnv, &s.Remote.APIKeyEnv)
	integer(KeyPerPage, &s.Remote.PerPage)
	str(KeyOrientation, &s.Remote.Orientation)
	duration(KeySearchTimeout, &s.Remote.SearchTimeout)
	duration(KeyDownloadTimeout, &s.Remote.DownloadTimeout)
	known[KeyRequestsPerSecond] = true
	if _, ok := store.Get(KeyRequestsPerSecond); ok {
		s.Remote.RequestsPerSecond = store.GetFloat(KeyRequestsPerSecond)
	}
	integer(KeyBurst, &s.Remote.Burst)

	integer(KeyPlaceholderWidth, &s.Placeholder.DefaultWidth)
	integer(KeyPlaceholderHeight, &s.Placeholder.DefaultHeight)

	for _, key := range store.Keys() {
		if !known[key] {
			logger.Warn("settings %s: unknown key %q ignored", store.Path(), key)
		}
	}

	if len(errs) > 0 {
		return s, &domain.ConfigError{Problems: errs}
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", store.Path(), err)
	}
	return s, nil
}

// MarshalSettings renders settings as a TOML document in the settings file layout.
func MarshalSettings(s domain.Settings) ([]byte, error) {
	doc := map[string]any{
		"pipeline": map[string]any{
			"asset_root":  s.Pipeline.AssetRoot,
			"catalog":     s.Pipeline.Catalog,
			"manifest":    s.Pipeline.Manifest,
			"workers":     s.Pipeline.Workers,
			"history_dir": s.Pipeline.HistoryDir,
		},
		"remote": map[string]any{
			"base_url":            s.Remote.BaseURL,
			"api_key_env":         s.Remote.APIKeyEnv,
			"per_page":            s.Remote.PerPage,
			"orientation":         s.Remote.Orientation,
			"search_timeout":      s.Remote.SearchTimeout.String(),
			"download_timeout":    s.Remote.DownloadTimeout.String(),
			"requests_per_second": s.Remote.RequestsPerSecond,
			"burst":               s.Remote.Burst,
		},
		"placeholder": map[string]any{
			"default_width":  s.Placeholder.DefaultWidth,
			"default_height": s.Placeholder.DefaultHeight,
		},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}
