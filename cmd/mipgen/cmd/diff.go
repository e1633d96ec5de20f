package cmd

import (
	"github.com/spf13/cobra"

	"github.com/upytools/mipgen/internal/cmd/output"
	"github.com/upytools/mipgen/pkg/differ"
)

// diffCmd reports the structural difference between derived and target
// manifests.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show differences between derived data and the manifest",
	Long: `Compute the structural difference between the manifest derived from
pyproject.toml and an existing package.json manifest. No exclusion
rules apply: every differing field is reported.

Examples:
  mipgen diff -m package.json
  mipgen diff -m package.json -o yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newReconciler(cmd)
		if err != nil {
			return err
		}

		changeset, err := r.Diff()
		if err != nil {
			return err
		}

		format := output.Format(globalFlags.Output)
		if format == output.FormatTable {
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), changesetTable(changeset))
		}
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), changeset)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

// changesetTable flattens a changeset into rows for table rendering.
// Row labels come from the changeset's JSON field names.
func changesetTable(c *differ.Changeset) output.Data {
	data := output.Data{Headers: []string{"Change", "Detail"}}

	if c.Empty() {
		data.Rows = append(data.Rows, []string{"-", c.Summary()})
		return data
	}

	if c.Version != nil {
		data.Rows = append(data.Rows,
			[]string{output.Title("version"), c.Version.Old + " -> " + c.Version.New})
	}
	for _, dep := range c.DepsAdded {
		data.Rows = append(data.Rows, []string{output.Title("deps_added"), dep})
	}
	for _, dep := range c.DepsRemoved {
		data.Rows = append(data.Rows, []string{output.Title("deps_removed"), dep})
	}
	for _, path := range c.URLsAdded {
		data.Rows = append(data.Rows, []string{output.Title("urls_added"), path})
	}
	for _, path := range c.URLsRemoved {
		data.Rows = append(data.Rows, []string{output.Title("urls_removed"), path})
	}
	for _, change := range c.URLsChanged {
		data.Rows = append(data.Rows,
			[]string{output.Title("urls_changed"), change.Path + ": " + change.Old + " -> " + change.New})
	}

	return data
}
