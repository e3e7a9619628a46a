package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errVerifyFailed is returned when the manifest does not match the catalog or the disk.
var errVerifyFailed = errors.New("verification failed")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the manifest against the catalog and the asset root",
	Long: `Reads the manifest and reports slots without an entry, entries whose file
is missing or empty, and entries for slots that are no longer declared.

Exits 1 if any problem is found.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	if verifier == nil {
		return errors.New("verify service not configured")
	}

	report, err := verifier.Verify(cmd.Context(), slots)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if report.OK() {
		cmd.Printf("Manifest %s is consistent (%d entries checked).\n", report.ManifestPath, report.Checked)
		return nil
	}

	cmd.Printf("Manifest %s has %d problem(s):\n", report.ManifestPath, len(report.Problems))
	for _, p := range report.Problems {
		if p.Path != "" {
			cmd.Printf("  %s (%s): %s\n", p.SlotID, p.Path, p.Reason)
		} else {
			cmd.Printf("  %s: %s\n", p.SlotID, p.Reason)
		}
	}
	return errVerifyFailed
}
