package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/services"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	report      *domain.RunReport
	err         error
	validateErr error
	remote      bool
	runs        int
	got         []domain.AssetSlot
}

func (m *mockPipeline) Run(_ context.Context, s []domain.AssetSlot) (*domain.RunReport, error) {
	m.runs++
	m.got = s
	return m.report, m.err
}

func (m *mockPipeline) Validate(_ []domain.AssetSlot) error {
	return m.validateErr
}

func (m *mockPipeline) RemoteEnabled() bool {
	return m.remote
}

// mockVerifier implements driving.Verifier for testing.
type mockVerifier struct {
	report *domain.VerifyReport
	err    error
}

func (m *mockVerifier) Verify(_ context.Context, _ []domain.AssetSlot) (*domain.VerifyReport, error) {
	return m.report, m.err
}

// mockOrphans implements driving.OrphanFinder for testing.
type mockOrphans struct {
	paths []string
	err   error
}

func (m *mockOrphans) Orphans(_ context.Context) ([]string, error) {
	return m.paths, m.err
}

// mockHistory implements driving.HistoryService for testing.
type mockHistory struct {
	records []domain.RunRecord
	err     error
	limit   int
}

func (m *mockHistory) Recent(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.limit = limit
	return m.records, m.err
}

// mockSink implements MetricsSink for testing.
type mockSink struct {
	paths []string
	err   error
}

func (m *mockSink) WriteTextfile(path string) error {
	m.paths = append(m.paths, path)
	return m.err
}

var errMock = errors.New("mock failure")

func testSlots() []domain.AssetSlot {
	return []domain.AssetSlot{
		{ID: "hero.background", Kind: domain.KindVideo, SearchQuery: "cinematic", TargetPath: "hero/hero.mp4",
			Dimensions: &domain.Dimensions{Width: 1920, Height: 1080}},
		{ID: "logo.primary", Kind: domain.KindImage, TargetPath: "logo.svg"},
		{ID: "team.photo.3", Kind: domain.KindImage, SearchQuery: "portrait", TargetPath: "team/3.jpg"},
	}
}

func testReport() *domain.RunReport {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		RunID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
		StartedAt:     start,
		FinishedAt:    start.Add(1500 * time.Millisecond),
		ManifestPath:  "asset-manifest.json",
		RemoteEnabled: true,
		Outcomes: []domain.SlotOutcome{
			{
				SlotID:      "hero.background",
				State:       domain.StateResolved,
				FetchStatus: domain.FetchFound,
				Entry: &domain.ManifestEntry{SlotID: "hero.background", ResolvedPath: "hero/hero.mp4",
					Origin: domain.OriginDownloaded, Metadata: map[string]any{"bytes": int64(2_500_000)}},
			},
			{
				SlotID: "logo.primary",
				State:  domain.StateResolved,
				Entry:  &domain.ManifestEntry{SlotID: "logo.primary", ResolvedPath: "logo.svg", Origin: domain.OriginPreexistingLocal},
			},
			{
				SlotID:      "team.photo.3",
				State:       domain.StateResolved,
				FetchStatus: domain.FetchNotFound,
				Entry:       &domain.ManifestEntry{SlotID: "team.photo.3", ResolvedPath: "team/3.jpg", Origin: domain.OriginPlaceholder},
			},
		},
	}
}

// setupServices installs s for the duration of the test and resets flag state.
func setupServices(t *testing.T, s *Services) {
	t.Helper()

	oldBootstrap := bootstrap
	oldOpts := opts
	bootstrap = nil
	opts = Options{}
	slotsJSON = false
	historyLimit = services.DefaultHistoryLimit

	if s.Settings == (domain.Settings{}) {
		s.Settings = domain.DefaultSettings()
	}
	if s.CatalogSource == "" {
		s.CatalogSource = "built-in"
	}
	SetServices(s)

	t.Cleanup(func() {
		SetServices(&Services{Settings: domain.DefaultSettings()})
		bootstrap = oldBootstrap
		opts = oldOpts
	})
}

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
