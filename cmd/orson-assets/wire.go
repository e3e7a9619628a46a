package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/orson-vision/orson-assets/internal/adapters/driven/catalog"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/config/file"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/fsys"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/manifest"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/metrics"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/pexels"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/placeholder"
	"github.com/orson-vision/orson-assets/internal/adapters/driven/storage/sqlite"
	"github.com/orson-vision/orson-assets/internal/adapters/driving/cli"
	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
	"github.com/orson-vision/orson-assets/internal/core/services"
	"github.com/orson-vision/orson-assets/internal/logger"
)

// bootstrap loads settings and the catalog and wires every adapter into the services.
func bootstrap(o cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}
	settings, err := file.LoadSettings(store)
	if err != nil {
		return nil, err
	}
	applyOverrides(&settings, o)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	slots, source, err := loadCatalog(settings.Pipeline.Catalog, o.Catalog != "")
	if err != nil {
		return nil, err
	}
	logger.Debug("Catalog: %d slots from %s", len(slots), source)

	fs := fsys.NewOS(settings.Pipeline.AssetRoot)
	manifests := manifest.NewStore(fs, settings.Pipeline.Manifest)
	placeholders := placeholder.NewGenerator(fs, placeholder.DefaultPalette)

	var recorder driven.MetricsRecorder = metrics.Noop{}
	var sink cli.MetricsSink
	if o.MetricsFile != "" {
		prom := metrics.NewPrometheusRecorder()
		recorder = prom
		sink = prom
	}

	fetcher := newFetcher(settings.Remote, fs, recorder)

	svc := &cli.Services{
		Verifier:      services.NewVerifyService(fs, manifests),
		Orphans:       services.NewOrphanService(fs, manifests, []string{fsys.LockFileName}),
		Metrics:       sink,
		Slots:         slots,
		CatalogSource: source,
		Settings:      settings,
		SettingsPath:  store.Path(),
		WatchPaths:    []string{store.Path(), settings.Pipeline.Catalog},
	}

	// The history database is opened on first use so a run rejected by
	// validation leaves nothing on disk.
	var runs driven.RunStore
	if !o.NoHistory {
		db := sqlite.NewLazyStore(settings.Pipeline.HistoryDir)
		runs = db
		svc.History = services.NewHistoryService(runs)
		svc.Close = db.Close
	}

	svc.Pipeline = services.NewCatalogBuilder(
		fs,
		fetcher,
		placeholders,
		manifests,
		fsys.NewFileLock(fs),
		runs,
		recorder,
		services.BuilderConfig{
			Workers:           settings.Pipeline.Workers,
			DefaultDimensions: settings.Placeholder.Dimensions(),
			ReservedPaths:     []string{fsys.LockFileName},
		},
	)
	return svc, nil
}

// applyOverrides lets command line flags take precedence over the settings file.
func applyOverrides(s *domain.Settings, o cli.Options) {
	if o.AssetRoot != "" {
		s.Pipeline.AssetRoot = o.AssetRoot
	}
	if o.Catalog != "" {
		s.Pipeline.Catalog = o.Catalog
	}
	if o.Manifest != "" {
		s.Pipeline.Manifest = o.Manifest
	}
	if o.Workers != 0 {
		s.Pipeline.Workers = o.Workers
	}
}

// loadCatalog loads the catalog file. An explicitly requested file must exist;
// otherwise a missing file falls back to the built-in catalog.
func loadCatalog(path string, explicit bool) ([]domain.AssetSlot, string, error) {
	if explicit {
		slots, err := catalog.Load(path)
		if err != nil {
			return nil, "", asConfigError(err)
		}
		return slots, path, nil
	}
	slots, source, err := catalog.LoadOrDefault(path)
	if err != nil {
		return nil, "", asConfigError(err)
	}
	return slots, source, nil
}

// asConfigError marks catalog problems as configuration errors for the exit code.
func asConfigError(err error) error {
	if errors.Is(err, domain.ErrConfig) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConfig, err)
}

// newFetcher returns the stock-media client, or nil when no credential is set.
func newFetcher(s domain.RemoteSettings, fs driven.FileSystem, recorder driven.MetricsRecorder) driven.RemoteFetcher {
	client, err := pexels.NewClient(pexels.Config{
		BaseURL:           s.BaseURL,
		APIKey:            strings.TrimSpace(os.Getenv(s.APIKeyEnv)),
		PerPage:           s.PerPage,
		Orientation:       s.Orientation,
		SearchTimeout:     s.SearchTimeout,
		DownloadTimeout:   s.DownloadTimeout,
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}, fs, recorder)
	if err != nil {
		logger.Info("Remote fetching disabled: %s is not set", s.APIKeyEnv)
		return nil
	}
	return client
}
