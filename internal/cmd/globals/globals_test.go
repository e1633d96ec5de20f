package globals_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upytools/mipgen/internal/cmd/globals"
)

func TestAddFlagsDefaults(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	flags := globals.AddFlags(root)

	assert.Equal(t, "pyproject.toml", flags.Project)
	assert.Empty(t, flags.Manifest)
	assert.Empty(t, flags.Changelog)
	assert.False(t, flags.Quiet)
	assert.False(t, flags.Verbose)
}

func TestParseFromSubcommand(t *testing.T) {
	var parsed *globals.Flags
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{
		Use: "child",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed = globals.Parse(cmd)
			return nil
		},
	}
	root.AddCommand(child)
	globals.AddFlags(root)

	root.SetArgs([]string{"child",
		"-p", "other/pyproject.toml",
		"-m", "dist/package.json",
		"-c", "CHANGELOG.md",
		"-o", "json",
		"-q",
	})
	require.NoError(t, root.Execute())

	require.NotNil(t, parsed)
	assert.Equal(t, "other/pyproject.toml", parsed.Project)
	assert.Equal(t, "dist/package.json", parsed.Manifest)
	assert.Equal(t, "CHANGELOG.md", parsed.Changelog)
	assert.Equal(t, "json", parsed.Output)
	assert.True(t, parsed.Quiet)
	assert.False(t, parsed.Verbose)
}
