package cmd

import (
	"github.com/spf13/cobra"

	"github.com/upytools/mipgen/internal/cmd/output"
	"github.com/upytools/mipgen/pkg/manifest"
)

// showCmd prints the derived manifest without writing it.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the derived manifest",
	Long: `Derive the manifest from the project configuration and print it
without writing anything to disk.

Examples:
  mipgen show
  mipgen show -o json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newReconciler(cmd)
		if err != nil {
			return err
		}

		derived, err := r.Derive()
		if err != nil {
			return err
		}

		format := output.Format(globalFlags.Output)
		if format == output.FormatTable {
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), manifestTable(derived))
		}
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), derived)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// manifestTable flattens a manifest into rows for table rendering.
func manifestTable(m *manifest.Manifest) output.Data {
	data := output.Data{Headers: []string{"Field", "Value", "Detail"}}

	data.Rows = append(data.Rows, []string{"version", m.Version, ""})
	for _, dep := range m.Deps {
		data.Rows = append(data.Rows, []string{"dep", dep, ""})
	}
	for _, entry := range m.URLs {
		data.Rows = append(data.Rows, []string{"url", entry.Path, entry.URL})
	}

	return data
}
