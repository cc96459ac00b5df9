package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSetupCommand(a *app) *cobra.Command {
	var importPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download or import the ECDICT dataset",
		Long: `Install the offline ECDICT dataset lango reads from.

Without flags the ECDICT sqlite release is downloaded into the data
directory. With --import an already downloaded .zip, .db or .csv file is
installed instead.

Examples:
  lango setup
  lango setup --import ~/Downloads/ecdict-sqlite-28.zip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := a.installer(cmd.ErrOrStderr())

			var (
				installed string
				err       error
			)
			if importPath != "" {
				installed, err = inst.Import(cmd.Context(), a.paths.ExpandHome(importPath))
			} else {
				installed, err = inst.Download(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}

			a.recordDataset(installed)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ ECDICT ready: %s\n", installed)
			return nil
		},
	}

	cmd.Flags().StringVar(&importPath, "import", "", "install the dataset from a local .zip, .db or .csv file")
	return cmd
}
