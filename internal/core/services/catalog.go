package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driven"
	"github.com/orson-vision/orson-assets/internal/core/ports/driving"
	"github.com/orson-vision/orson-assets/internal/logger"
)

// DefaultWorkers is the size of the slot worker pool.
const DefaultWorkers = 4

// BuilderConfig holds the run settings of a CatalogBuilder.
type BuilderConfig struct {
	// Workers bounds how many slots are resolved concurrently.
	Workers int

	// DefaultDimensions sizes placeholders for slots without a hint.
	DefaultDimensions domain.Dimensions

	// ReservedPaths are bookkeeping files no slot may target.
	ReservedPaths []string
}

// Ensure CatalogBuilder implements the interface.
var _ driving.Pipeline = (*CatalogBuilder)(nil)

// CatalogBuilder resolves every slot to an existing file and writes the manifest.
type CatalogBuilder struct {
	fs           driven.FileSystem
	fetcher      driven.RemoteFetcher
	placeholders driven.PlaceholderGenerator
	manifests    driven.ManifestStore
	locker       driven.RunLocker
	runs         driven.RunStore
	metrics      driven.MetricsRecorder
	cfg          BuilderConfig

	now   func() time.Time
	newID func() string
}

// NewCatalogBuilder creates a builder.
// fetcher, locker, runs and metrics are optional. A nil fetcher sends every
// unresolved slot straight to the placeholder stage without network calls.
func NewCatalogBuilder(
	fs driven.FileSystem,
	fetcher driven.RemoteFetcher,
	placeholders driven.PlaceholderGenerator,
	manifests driven.ManifestStore,
	locker driven.RunLocker,
	runs driven.RunStore,
	metrics driven.MetricsRecorder,
	cfg BuilderConfig,
) *CatalogBuilder {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if !cfg.DefaultDimensions.Valid() {
		cfg.DefaultDimensions = domain.DefaultDimensions
	}
	if manifests != nil {
		cfg.ReservedPaths = append(cfg.ReservedPaths, manifests.Path())
	}
	return &CatalogBuilder{
		fs:           fs,
		fetcher:      fetcher,
		placeholders: placeholders,
		manifests:    manifests,
		locker:       locker,
		runs:         runs,
		metrics:      metrics,
		cfg:          cfg,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// RemoteEnabled reports whether a remote fetcher is configured.
func (b *CatalogBuilder) RemoteEnabled() bool {
	return b.fetcher != nil
}

// Validate checks slots without any I/O.
func (b *CatalogBuilder) Validate(slots []domain.AssetSlot) error {
	return ValidateSlots(slots, b.cfg.ReservedPaths)
}

// Run resolves every slot and atomically writes the manifest once all of them
// are terminal. Per-slot failures are reported, not returned. On cancellation
// no manifest is written and the error wraps the context error.
func (b *CatalogBuilder) Run(ctx context.Context, slots []domain.AssetSlot) (*domain.RunReport, error) {
	if b.fs == nil || b.placeholders == nil || b.manifests == nil {
		return nil, errors.New("catalog builder not configured")
	}
	if err := b.Validate(slots); err != nil {
		return nil, err
	}

	if b.locker != nil {
		release, err := b.locker.Acquire()
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(); err != nil {
				logger.Warn("Failed to release run lock: %v", err)
			}
		}()
	}

	report := &domain.RunReport{
		RunID:         b.newID(),
		StartedAt:     b.now(),
		ManifestPath:  b.manifests.Path(),
		RemoteEnabled: b.RemoteEnabled(),
		Outcomes:      make([]domain.SlotOutcome, len(slots)),
	}
	logger.Section("Asset pipeline")
	logger.Info("Run %s: %d slots, %d workers, remote=%t", report.RunID, len(slots), b.cfg.Workers, report.RemoteEnabled)

	var g errgroup.Group
	g.SetLimit(b.cfg.Workers)
	for i, slot := range slots {
		report.Outcomes[i] = domain.SlotOutcome{SlotID: slot.ID, State: domain.StateUnresolved}
		if ctx.Err() != nil {
			continue
		}
		i, slot := i, slot
		g.Go(func() error {
			report.Outcomes[i] = b.resolve(ctx, slot)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		report.FinishedAt = b.now()
		logger.Warn("Run %s cancelled, manifest not written", report.RunID)
		return report, fmt.Errorf("run cancelled: %w", err)
	}

	b.checkPostconditions(slots, report)
	b.recordSlots(report)

	manifest := &domain.Manifest{
		Version:     domain.ManifestVersion,
		RunID:       report.RunID,
		GeneratedAt: b.now().UTC(),
		Entries:     report.Entries(),
		Failed:      []domain.ManifestFailure{},
	}
	for _, f := range report.Failures() {
		manifest.Failed = append(manifest.Failed, domain.ManifestFailure{SlotID: f.SlotID, Error: f.Err.Error()})
	}
	if err := b.manifests.Write(manifest); err != nil {
		report.FinishedAt = b.now()
		return report, fmt.Errorf("write manifest: %w", err)
	}

	report.FinishedAt = b.now()
	b.recordRun(ctx, report)
	return report, nil
}

// resolve drives one slot through the state machine until it is terminal.
// A slot interrupted by cancellation is returned Unresolved.
func (b *CatalogBuilder) resolve(ctx context.Context, slot domain.AssetSlot) domain.SlotOutcome {
	log := logger.L().With().Str("slot", slot.ID).Str("path", slot.TargetPath).Logger()
	out := domain.SlotOutcome{SlotID: slot.ID, State: domain.StateUnresolved}
	if ctx.Err() != nil {
		return out
	}

	// 1. Local file, then local fallbacks.
	if entry, ok := b.resolveLocal(slot, log); ok {
		return b.resolved(out, entry, log)
	}

	// 2. Remote fetch.
	if b.fetcher != nil && slot.SearchQuery != "" {
		out.State = domain.StateFetching
		res := b.fetcher.Fetch(ctx, driven.FetchRequest{
			SlotID:     slot.ID,
			Query:      slot.SearchQuery,
			Kind:       slot.Kind,
			TargetPath: slot.TargetPath,
		})
		out.FetchStatus = res.Status
		out.FetchErr = res.Err
		if ctx.Err() != nil {
			out.State = domain.StateUnresolved
			return out
		}
		switch res.Status {
		case domain.FetchFound:
			out.State = domain.StateDownloading
			return b.resolved(out, downloadedEntry(slot, res, b.fetcher.Name()), log)
		case domain.FetchNotFound:
			log.Debug().Str("status", string(res.Status)).Msg("no remote match, using placeholder")
		default:
			log.Info().Str("status", string(res.Status)).Err(res.Err).Msg("remote fetch failed, using placeholder")
		}
	} else if b.fetcher != nil {
		log.Debug().Msg("no search query, skipping remote fetch")
	}

	// 3. Placeholder.
	out.State = domain.StatePlaceholding
	dims := slot.PlaceholderDimensions(b.cfg.DefaultDimensions)
	meta, err := b.placeholders.Generate(ctx, driven.PlaceholderRequest{
		TargetPath: slot.TargetPath,
		Label:      slot.PlaceholderLabel(),
		Category:   slot.Category(),
		Dimensions: dims,
	})
	if err != nil {
		if ctx.Err() != nil {
			out.State = domain.StateUnresolved
			return out
		}
		if !errors.Is(err, domain.ErrWrite) {
			err = fmt.Errorf("%w: %w", domain.ErrWrite, err)
		}
		return b.failed(out, err, log)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	if out.FetchStatus != "" {
		meta["fetchStatus"] = string(out.FetchStatus)
	}
	return b.resolved(out, &domain.ManifestEntry{
		SlotID:       slot.ID,
		ResolvedPath: slot.TargetPath,
		Origin:       domain.OriginPlaceholder,
		Metadata:     meta,
	}, log)
}

// resolveLocal checks the target, then copies the first non-empty fallback.
func (b *CatalogBuilder) resolveLocal(slot domain.AssetSlot, log zerolog.Logger) (*domain.ManifestEntry, bool) {
	ok, size, err := b.fs.NonEmptyFile(slot.TargetPath)
	if err != nil {
		log.Warn().Err(err).Msg("cannot stat target")
	}
	if ok {
		return &domain.ManifestEntry{
			SlotID:       slot.ID,
			ResolvedPath: slot.TargetPath,
			Origin:       domain.OriginPreexistingLocal,
			Metadata:     map[string]any{"size": size},
		}, true
	}

	for _, fb := range slot.Fallbacks {
		ok, size, err := b.fs.NonEmptyFile(fb)
		if err != nil || !ok {
			continue
		}
		if err := b.fs.Copy(fb, slot.TargetPath); err != nil {
			log.Warn().Err(err).Str("fallback", fb).Msg("fallback copy failed")
			return nil, false
		}
		return &domain.ManifestEntry{
			SlotID:       slot.ID,
			ResolvedPath: slot.TargetPath,
			Origin:       domain.OriginPreexistingLocal,
			Metadata:     map[string]any{"size": size, "copiedFrom": fb},
		}, true
	}
	return nil, false
}

func downloadedEntry(slot domain.AssetSlot, res domain.FetchResult, provider string) *domain.ManifestEntry {
	meta := make(map[string]any, len(res.Metadata)+4)
	maps.Copy(meta, res.Metadata)
	if _, ok := meta["provider"]; !ok {
		meta["provider"] = provider
	}
	meta["sourceUrl"] = res.SourceURL
	if res.Attribution != nil {
		meta["author"] = res.Attribution.Author
		meta["profileUrl"] = res.Attribution.ProfileURL
	}
	return &domain.ManifestEntry{
		SlotID:       slot.ID,
		ResolvedPath: slot.TargetPath,
		Origin:       domain.OriginDownloaded,
		Metadata:     meta,
	}
}

func (b *CatalogBuilder) resolved(out domain.SlotOutcome, entry *domain.ManifestEntry, log zerolog.Logger) domain.SlotOutcome {
	out.State = domain.StateResolved
	out.Entry = entry
	log.Debug().Str("origin", string(entry.Origin)).Msg("slot resolved")
	return out
}

func (b *CatalogBuilder) failed(out domain.SlotOutcome, err error, log zerolog.Logger) domain.SlotOutcome {
	out.State = domain.StateFailed
	out.Err = err
	out.Entry = nil
	if b.metrics != nil {
		b.metrics.RecordFailure()
	}
	log.Error().Err(err).Msg("slot failed")
	return out
}

// checkPostconditions re-stats every resolved target. A resolved slot whose
// file is gone or empty is demoted to Failed.
func (b *CatalogBuilder) checkPostconditions(slots []domain.AssetSlot, report *domain.RunReport) {
	for i := range report.Outcomes {
		out := &report.Outcomes[i]
		if out.State != domain.StateResolved {
			continue
		}
		ok, _, err := b.fs.NonEmptyFile(slots[i].TargetPath)
		if ok {
			continue
		}
		cause := fmt.Errorf("%w: %s missing after resolution", domain.ErrWrite, slots[i].TargetPath)
		if err != nil {
			cause = fmt.Errorf("%w: %w", cause, err)
		}
		log := logger.L().With().Str("slot", out.SlotID).Logger()
		*out = b.failed(*out, cause, log)
	}
}

// recordSlots counts resolved slots per origin once post-conditions have run,
// so a demoted slot is only counted as a failure.
func (b *CatalogBuilder) recordSlots(report *domain.RunReport) {
	if b.metrics == nil {
		return
	}
	for _, out := range report.Outcomes {
		if out.State == domain.StateResolved && out.Entry != nil {
			b.metrics.RecordSlot(out.Entry.Origin)
		}
	}
}

func (b *CatalogBuilder) recordRun(ctx context.Context, report *domain.RunReport) {
	if b.metrics != nil {
		b.metrics.RecordRun(report.Duration())
	}
	if b.runs == nil {
		return
	}
	if err := b.runs.Save(ctx, domain.NewRunRecord(report)); err != nil {
		logger.Warn("Failed to record run history: %v", err)
	}
}
