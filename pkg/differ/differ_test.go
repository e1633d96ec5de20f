package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upytools/mipgen/pkg/differ"
	"github.com/upytools/mipgen/pkg/manifest"
)

func sample() *manifest.Manifest {
	return &manifest.Manifest{
		URLs: []manifest.Entry{
			{Path: "widget/__init__.py", URL: "github:acme/widget/widget/__init__.py"},
			{Path: "widget/core.py", URL: "github:acme/widget/widget/core.py"},
		},
		Deps:    []string{"urequests"},
		Version: "1.0.0",
	}
}

func TestManifestsIdentical(t *testing.T) {
	changeset := differ.Manifests(sample(), sample())
	assert.True(t, changeset.Empty())
	assert.Equal(t, "manifests are identical", changeset.Summary())
}

func TestManifestsVersionChange(t *testing.T) {
	target := sample()
	target.Version = "1.1.0"

	changeset := differ.Manifests(sample(), target)
	require.NotNil(t, changeset.Version)
	assert.Equal(t, "1.0.0", changeset.Version.Old)
	assert.Equal(t, "1.1.0", changeset.Version.New)
	assert.False(t, changeset.Empty())
}

func TestManifestsDeps(t *testing.T) {
	target := sample()
	target.Deps = []string{"micropython-ulogging"}

	changeset := differ.Manifests(sample(), target)
	assert.Equal(t, []string{"micropython-ulogging"}, changeset.DepsAdded)
	assert.Equal(t, []string{"urequests"}, changeset.DepsRemoved)
}

func TestManifestsURLs(t *testing.T) {
	target := sample()
	target.URLs = []manifest.Entry{
		{Path: "widget/__init__.py", URL: "github:acme/widget/widget/__init__.py"},
		{Path: "widget/extra.py", URL: "github:acme/widget/widget/extra.py"},
		{Path: "widget/core.py", URL: "github:other/widget/widget/core.py"},
	}

	changeset := differ.Manifests(sample(), target)
	assert.Equal(t, []string{"widget/extra.py"}, changeset.URLsAdded)
	assert.Empty(t, changeset.URLsRemoved)
	require.Len(t, changeset.URLsChanged, 1)
	assert.Equal(t, "widget/core.py", changeset.URLsChanged[0].Path)
	assert.Equal(t, "github:acme/widget/widget/core.py", changeset.URLsChanged[0].Old)
	assert.Equal(t, "github:other/widget/widget/core.py", changeset.URLsChanged[0].New)
}

func TestManifestsURLRemoved(t *testing.T) {
	target := sample()
	target.URLs = target.URLs[:1]

	changeset := differ.Manifests(sample(), target)
	assert.Equal(t, []string{"widget/core.py"}, changeset.URLsRemoved)
}

func TestEqualIgnoresURLOrder(t *testing.T) {
	a := sample()
	b := sample()
	b.URLs[0], b.URLs[1] = b.URLs[1], b.URLs[0]

	assert.True(t, differ.Equal(a, b))
}

func TestEqualDetectsDepOrder(t *testing.T) {
	a := sample()
	a.Deps = []string{"a", "b"}
	b := sample()
	b.Deps = []string{"b", "a"}

	// Dependency order is significant, only URL order is not.
	assert.False(t, differ.Equal(a, b))
}

func TestSummaryMentionsEveryChange(t *testing.T) {
	target := sample()
	target.Version = "2.0.0"
	target.Deps = nil
	target.URLs = nil

	summary := differ.Manifests(sample(), target).Summary()
	assert.Contains(t, summary, "version 1.0.0 -> 2.0.0")
	assert.Contains(t, summary, "dep(s) removed")
	assert.Contains(t, summary, "url(s) removed")
}
