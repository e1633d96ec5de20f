package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createOutputPath string
	createCompact    bool
)

// createCmd derives a manifest and writes it to disk.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Derive and write the package.json manifest",
	Long: `Derive a mip-compatible package.json manifest from the project
configuration and write it to disk.

The output path defaults to the --manifest path when given, otherwise
to package.json next to the project configuration file.

Examples:
  mipgen create
  mipgen create --out dist/package.json
  mipgen create --compact`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newReconciler(cmd)
		if err != nil {
			return err
		}

		written, err := r.Create(createOutputPath, !createCompact)
		if err != nil {
			return err
		}

		if !globalFlags.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Created", written)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&createOutputPath, "out", "",
		"Path to write the manifest to")
	createCmd.Flags().BoolVar(&createCompact, "compact", false,
		"Write compact JSON instead of 4-space indentation")
}
