// Package globals provides shared flag structures for CLI commands.
package globals

import "github.com/spf13/cobra"

// Flags holds global common flags across all commands.
type Flags struct {
	Project   string
	Manifest  string
	Changelog string
	Output    string
	Quiet     bool
	Verbose   bool
	NoColor   bool
}

// AddFlags adds common flags to the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVarP(&flags.Project, "project", "p", "pyproject.toml",
		"Path to the project configuration file")
	cmd.PersistentFlags().StringVarP(&flags.Manifest, "manifest", "m", "",
		"Path to an existing package.json manifest")
	cmd.PersistentFlags().StringVarP(&flags.Changelog, "changelog", "c", "",
		"Path to a changelog used as the version source")

	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "",
		"Output format: table, json, yaml")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Minimal output")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Verbose output")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"Disable colored output")

	return flags
}

// Parse extracts global flags from the command hierarchy. Useful for
// subcommands that were not handed the flags struct directly.
func Parse(cmd *cobra.Command) *Flags {
	root := cmd
	for root.Parent() != nil {
		root = root.Parent()
	}

	project, _ := root.PersistentFlags().GetString("project")
	manifestPath, _ := root.PersistentFlags().GetString("manifest")
	changelog, _ := root.PersistentFlags().GetString("changelog")
	output, _ := root.PersistentFlags().GetString("output")
	quiet, _ := root.PersistentFlags().GetBool("quiet")
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	noColor, _ := root.PersistentFlags().GetBool("no-color")

	return &Flags{
		Project:   project,
		Manifest:  manifestPath,
		Changelog: changelog,
		Output:    output,
		Quiet:     quiet,
		Verbose:   verbose,
		NoColor:   noColor,
	}
}
