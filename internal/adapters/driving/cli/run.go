package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orson-vision/orson-assets/internal/core/domain"
	"github.com/orson-vision/orson-assets/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve every slot and write the manifest",
	Long: `Resolves every slot in the catalog to a file under the asset root.

A slot whose file already exists is left untouched. Otherwise the first
existing fallback is copied, then the stock-media provider is searched when a
credential is configured, and finally a placeholder is generated.

The command exits 1 if any slot could not be written and 2 if the catalog is
invalid. No files are touched when the catalog is invalid.`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}

	report, err := pipeline.Run(cmd.Context(), slots)
	if report != nil {
		printSummary(cmd.OutOrStdout(), report, settings.Remote.APIKeyEnv, err == nil)
		writeMetrics()
	}
	if err != nil {
		return err
	}

	if report.HasFailures() {
		printFailures(cmd.ErrOrStderr(), report.Failures())
		return fmt.Errorf("%w: %d of %d", domain.ErrSlotsFailed, len(report.Failures()), len(report.Outcomes))
	}
	return nil
}

func writeMetrics() {
	if opts.MetricsFile == "" || metricsSink == nil {
		return
	}
	if err := metricsSink.WriteTextfile(opts.MetricsFile); err != nil {
		logger.Error("Failed to write metrics: %v", err)
		return
	}
	logger.Debug("Metrics written to %s", opts.MetricsFile)
}
