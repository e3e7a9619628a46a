package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/orson-vision/orson-assets/internal/core/services"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", services.DefaultHistoryLimit, "maximum number of runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history not available (disabled with --no-history)")
	}

	runs, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	r := lipgloss.NewRenderer(cmd.OutOrStdout())
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers("RUN", "STARTED", "DURATION", "SLOTS", "LOCAL", "DOWNLOADED", "PLACEHOLDER", "FAILED")
	for _, run := range runs {
		t.Row(
			shortID(run.ID),
			humanize.Time(run.StartedAt),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
			fmt.Sprint(run.Total),
			fmt.Sprint(run.Preexisting),
			fmt.Sprint(run.Downloaded),
			fmt.Sprint(run.Placeholder),
			fmt.Sprint(run.Failed),
		)
	}
	cmd.Println(t.Render())
	return nil
}
