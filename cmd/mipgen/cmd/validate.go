package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upytools/mipgen/pkg/errors"
	"github.com/upytools/mipgen/pkg/reconcile"
)

var (
	ignoreVersion  bool
	ignoreDeps     bool
	ignoreBootMain bool
)

// validateCmd compares the derived manifest against the target manifest.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an existing manifest against the project configuration",
	Long: `Compare the manifest derived from pyproject.toml against an existing
package.json manifest. URL entry order is ignored; everything else must
match exactly unless excluded.

A mismatch exits non-zero, so the command can gate CI runs.

Examples:
  mipgen validate -m package.json
  mipgen validate -m package.json --ignore-version --ignore-deps
  mipgen validate -m package.json -c CHANGELOG.md --ignore-boot-main`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newReconciler(cmd)
		if err != nil {
			return err
		}

		var opts []reconcile.CompareOption
		if ignoreVersion {
			opts = append(opts, reconcile.WithIgnoreVersion())
		}
		if ignoreDeps {
			opts = append(opts, reconcile.WithIgnoreDeps())
		}
		if ignoreBootMain {
			opts = append(opts, reconcile.WithIgnoreBootMain())
		}

		ok, err := r.Validate(opts...)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewValidationError("manifest", nil,
				"package.json does not match the project configuration")
		}

		if !globalFlags.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Manifest is valid")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&ignoreVersion, "ignore-version", false,
		"Ignore the version field during comparison")
	validateCmd.Flags().BoolVar(&ignoreDeps, "ignore-deps", false,
		"Ignore the dependency list during comparison")
	validateCmd.Flags().BoolVar(&ignoreBootMain, "ignore-boot-main", false,
		"Ignore boot.py and main.py URL entries during comparison")
}
