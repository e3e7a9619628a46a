package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List files under the asset root that no slot accounts for",
	Long: `Walks the asset root and lists files referenced neither by the manifest,
by an attribution sidecar nor by the pipeline's own bookkeeping files.

Nothing is deleted.`,
	Args: cobra.NoArgs,
	RunE: runOrphans,
}

func init() {
	rootCmd.AddCommand(orphansCmd)
}

func runOrphans(cmd *cobra.Command, _ []string) error {
	if orphanFinder == nil {
		return errors.New("orphan finder not configured")
	}

	paths, err := orphanFinder.Orphans(cmd.Context())
	if err != nil {
		return fmt.Errorf("orphan scan failed: %w", err)
	}

	if len(paths) == 0 {
		cmd.Println("No orphaned files.")
		return nil
	}

	for _, p := range paths {
		cmd.Println(p)
	}
	cmd.Printf("%d orphaned file(s)\n", len(paths))
	return nil
}
