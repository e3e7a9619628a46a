package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/orson-vision/orson-assets/internal/core/domain"
)

var slotsJSON bool

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Inspect the slot catalog",
	Long: `Lists and validates the slots declared in the catalog file, or the
built-in catalog when no catalog file exists.`,
	RunE: runSlotsList,
}

var slotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared slots",
	Args:  cobra.NoArgs,
	RunE:  runSlotsList,
}

var slotsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the catalog without touching any file",
	Args:  cobra.NoArgs,
	RunE:  runSlotsValidate,
}

func init() {
	slotsListCmd.Flags().BoolVar(&slotsJSON, "json", false, "output slots as JSON")
	slotsCmd.AddCommand(slotsListCmd)
	slotsCmd.AddCommand(slotsValidateCmd)
	rootCmd.AddCommand(slotsCmd)
}

type slotView struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Query      string   `json:"query,omitempty"`
	Target     string   `json:"target"`
	Dimensions string   `json:"dimensions,omitempty"`
	Label      string   `json:"label"`
	Fallbacks  []string `json:"fallbacks,omitempty"`
}

func newSlotView(s domain.AssetSlot) slotView {
	v := slotView{
		ID:        s.ID,
		Kind:      string(s.Kind),
		Query:     s.SearchQuery,
		Target:    s.TargetPath,
		Label:     s.PlaceholderLabel(),
		Fallbacks: s.Fallbacks,
	}
	if s.Dimensions != nil {
		v.Dimensions = s.Dimensions.String()
	}
	return v
}

func runSlotsList(cmd *cobra.Command, _ []string) error {
	views := make([]slotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, newSlotView(s))
	}

	if slotsJSON {
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal slots: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(views) == 0 {
		cmd.Println("No slots declared.")
		return nil
	}

	r := lipgloss.NewRenderer(cmd.OutOrStdout())
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers("ID", "KIND", "TARGET", "SIZE", "QUERY")
	for _, v := range views {
		size := v.Dimensions
		if size == "" {
			size = "-"
		}
		query := v.Query
		if query == "" {
			query = "-"
		}
		t.Row(v.ID, v.Kind, v.Target, size, query)
	}
	cmd.Println(t.Render())
	cmd.Printf("%d slots from %s\n", len(views), catalogSource)
	return nil
}

func runSlotsValidate(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}

	if err := pipeline.Validate(slots); err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			for _, p := range cfgErr.Problems {
				cmd.PrintErrf("  %v\n", p)
			}
		}
		return err
	}

	cmd.Printf("%d slots from %s are valid.\n", len(slots), catalogSource)
	return nil
}
