package domain

import (
	"fmt"
	"time"
)

// Settings is the explicit configuration handed to the pipeline.
// The remote credential is resolved at the process boundary and never stored here.
type Settings struct {
	Pipeline    PipelineSettings
	Remote      RemoteSettings
	Placeholder PlaceholderSettings
}

// PipelineSettings configures where and how a run operates.
type PipelineSettings struct {
	AssetRoot  string
	Catalog    string
	Manifest   string
	Workers    int
	HistoryDir string
}

// RemoteSettings configures the stock-media provider.
type RemoteSettings struct {
	BaseURL           string
	APIKeyEnv         string
	PerPage           int
	Orientation       string
	SearchTimeout     time.Duration
	DownloadTimeout   time.Duration
	RequestsPerSecond float64
	Burst             int
}

// PlaceholderSettings configures generated placeholders.
type PlaceholderSettings struct {
	DefaultWidth  int
	DefaultHeight int
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Pipeline: PipelineSettings{
			AssetRoot:  "public",
			Catalog:    "assets.yaml",
			Manifest:   "asset-manifest.json",
			Workers:    4,
			HistoryDir: ".orson-assets",
		},
		Remote: RemoteSettings{
			BaseURL:           "https://api.pexels.com",
			APIKeyEnv:         "PEXELS_API_KEY",
			PerPage:           5,
			Orientation:       "landscape",
			SearchTimeout:     30 * time.Second,
			DownloadTimeout:   2 * time.Minute,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Placeholder: PlaceholderSettings{
			DefaultWidth:  DefaultDimensions.Width,
			DefaultHeight: DefaultDimensions.Height,
		},
	}
}

// Dimensions returns the configured placeholder size.
func (s PlaceholderSettings) Dimensions() Dimensions {
	return Dimensions{Width: s.DefaultWidth, Height: s.DefaultHeight}
}

// Validate checks the settings for values no run can work with.
func (s Settings) Validate() error {
	var problems []error
	if s.Pipeline.AssetRoot == "" {
		problems = append(problems, fmt.Errorf("pipeline.asset_root must not be empty"))
	}
	if s.Pipeline.Manifest == "" {
		problems = append(problems, fmt.Errorf("pipeline.manifest must not be empty"))
	}
	if s.Pipeline.Workers < 1 {
		problems = append(problems, fmt.Errorf("pipeline.workers must be at least 1, got %d", s.Pipeline.Workers))
	}
	if s.Remote.PerPage < 1 {
		problems = append(problems, fmt.Errorf("remote.per_page must be at least 1, got %d", s.Remote.PerPage))
	}
	if s.Remote.SearchTimeout <= 0 || s.Remote.DownloadTimeout <= 0 {
		problems = append(problems, fmt.Errorf("remote timeouts must be positive"))
	}
	if !s.Placeholder.Dimensions().Valid() {
		problems = append(problems, fmt.Errorf("%w: placeholder default %s", ErrInvalidDimensions, s.Placeholder.Dimensions()))
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}
