package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orson-vision/orson-assets/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long: `Prints the settings in effect after applying the settings file and the
command line flags, in the settings file format.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	data, err := file.MarshalSettings(settings)
	if err != nil {
		return err
	}

	if settingsPath != "" {
		cmd.Printf("# settings file: %s\n", settingsPath)
	}
	cmd.Printf("# catalog: %s\n", catalogSource)
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
