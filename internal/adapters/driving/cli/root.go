// Package cli implements the orson-assets command line interface.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/core/ports/driving"
	"github.com/orson-vision/orson-assets/internal/logger"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// version is set at build time via -ldflags.
var version = "dev"

// Options are the global flags handed to the Bootstrapper.
type Options struct {
	ConfigPath  string
	AssetRoot   string
	Catalog     string
	Manifest    string
	Workers     int
	Verbose     bool
	LogJSON     bool
	NoHistory   bool
	MetricsFile string
}

// MetricsSink persists the metrics collected during a command.
type MetricsSink interface {
	WriteTextfile(path string) error
}

// Services are the driving ports and loaded configuration the commands use.
type Services struct {
	Pipeline      driving.Pipeline
	Verifier      driving.Verifier
	Orphans       driving.OrphanFinder
	History       driving.HistoryService
	Metrics       MetricsSink
	Slots         []domain.AssetSlot
	CatalogSource string
	Settings      domain.Settings
	SettingsPath  string

	// WatchPaths are the files whose changes trigger a re-run in watch mode.
	WatchPaths []string

	// Close releases resources such as the history database.
	Close func() error
}

// Bootstrapper builds Services from the global flags.
type Bootstrapper func(Options) (*Services, error)

var (
	opts      Options
	bootstrap Bootstrapper
	closer    func() error
)

// Services used by commands.
var (
	pipeline       driving.Pipeline
	verifier       driving.Verifier
	orphanFinder   driving.OrphanFinder
	historyService driving.HistoryService
	metricsSink    MetricsSink
	slots          []domain.AssetSlot
	catalogSource  string
	settings       = domain.DefaultSettings()
	settingsPath   string
	watchPaths     []string
)

var rootCmd = &cobra.Command{
	Use:   "orson-assets",
	Short: "Resolve, fetch and generate the site's media assets",
	Long: `orson-assets resolves every media slot the site declares to a file on disk.

Each slot is satisfied by an existing local file, a stock-media download or a
generated placeholder, in that order. The result is recorded in a JSON manifest
the UI reads at render time.

Running without a subcommand runs the pipeline.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Assigned here to avoid an initialization cycle through the subcommands.
	rootCmd.PersistentPreRunE = setup
	rootCmd.RunE = runPipeline

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "settings file (default ./orson-assets.toml)")
	flags.StringVar(&opts.AssetRoot, "root", "", "asset root directory")
	flags.StringVar(&opts.Catalog, "catalog", "", "slot catalog file (.yaml, .yml or .toml)")
	flags.StringVar(&opts.Manifest, "manifest", "", "manifest path relative to the asset root")
	flags.IntVar(&opts.Workers, "workers", 0, "number of slots resolved concurrently")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log every slot transition to stderr")
	flags.BoolVar(&opts.LogJSON, "log-json", false, "log as JSON lines")
	flags.BoolVar(&opts.NoHistory, "no-history", false, "do not record the run in the history database")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file after a run")
}

// SetBootstrapper sets the function that builds services before a command runs.
func SetBootstrapper(b Bootstrapper) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	pipeline = s.Pipeline
	verifier = s.Verifier
	orphanFinder = s.Orphans
	historyService = s.History
	metricsSink = s.Metrics
	slots = s.Slots
	catalogSource = s.CatalogSource
	settings = s.Settings
	settingsPath = s.SettingsPath
	watchPaths = s.WatchPaths
	closer = s.Close
}

// setup configures logging and builds services unless the command needs none.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	logger.SetJSON(opts.LogJSON)

	if cmd == versionCmd || bootstrap == nil {
		return nil
	}
	return reload()
}

// reload rebuilds services from the current flags.
func reload() error {
	s, err := bootstrap(opts)
	if err != nil {
		return err
	}
	closeServices()
	SetServices(s)
	return nil
}

func closeServices() {
	if closer == nil {
		return
	}
	if err := closer(); err != nil {
		logger.Warn("Failed to close services: %v", err)
	}
	closer = nil
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()

	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, domain.ErrConfig):
		return ExitConfig
	default:
		return ExitFailed
	}
}
