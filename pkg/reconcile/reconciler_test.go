package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upytools/mipgen/pkg/errors"
	"github.com/upytools/mipgen/pkg/manifest"
	"github.com/upytools/mipgen/pkg/reconcile"
)

const widgetConfig = `
[project]
name = "widget"
dependencies = ["urequests"]

[project.urls]
Source = "https://github.com/acme/widget"

[tool.setuptools]
packages = ["widget"]
`

// widgetProject lays out the canonical example project: one package with
// two source files.
func widgetProject(t *testing.T) string {
	t.Helper()
	return projectWith(t, widgetConfig,
		"widget/__init__.py",
		"widget/core.py",
	)
}

func projectWith(t *testing.T, config string, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# fixture\n"), 0o644))
	}

	path := filepath.Join(root, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path
}

func TestDeriveCanonicalExample(t *testing.T) {
	r, err := reconcile.New(widgetProject(t))
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)

	assert.Equal(t, &manifest.Manifest{
		URLs: []manifest.Entry{
			{Path: "widget/__init__.py", URL: "github:acme/widget/widget/__init__.py"},
			{Path: "widget/core.py", URL: "github:acme/widget/widget/core.py"},
		},
		Deps:    []string{"urequests"},
		Version: "-1.-1.-1",
	}, derived)
}

func TestDeriveEveryEntryIsARealFile(t *testing.T) {
	project := widgetProject(t)
	r, err := reconcile.New(project)
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	require.NotEmpty(t, derived.URLs)

	root := filepath.Dir(project)
	for _, entry := range derived.URLs {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(entry.Path)))
		assert.NoError(t, err, "entry %s should exist under project root", entry.Path)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	r, err := reconcile.New(widgetProject(t))
	require.NoError(t, err)

	first, err := r.Derive()
	require.NoError(t, err)
	second, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveMissingSourceURLAborts(t *testing.T) {
	project := projectWith(t, `
[project]
name = "widget"

[tool.setuptools]
packages = ["widget"]
`, "widget/__init__.py")

	r, err := reconcile.New(project)
	require.NoError(t, err)

	_, err = r.Derive()
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))
}

func TestDeriveVersionFromChangelog(t *testing.T) {
	project := widgetProject(t)
	clPath := filepath.Join(filepath.Dir(project), "CHANGELOG.md")
	require.NoError(t, os.WriteFile(clPath,
		[]byte("# Changelog\n\n## [0.7.1] - 2024-06-01\n"), 0o644))

	r, err := reconcile.New(project, reconcile.WithChangelogPath(clPath))
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, "0.7.1", derived.Version)
}

func TestDeriveVersionFromUnparsableChangelogFallsBack(t *testing.T) {
	project := widgetProject(t)
	clPath := filepath.Join(filepath.Dir(project), "CHANGELOG.md")
	require.NoError(t, os.WriteFile(clPath, []byte("nothing here\n"), 0o644))

	r, err := reconcile.New(project, reconcile.WithChangelogPath(clPath))
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, manifest.UnresolvedVersion, derived.Version)
}

func TestDeriveVersionFromDynamicAttr(t *testing.T) {
	project := projectWith(t, `
[project]
dependencies = []

[project.urls]
Source = "https://github.com/acme/widget"

[tool.setuptools]
packages = ["widget"]

[tool.setuptools.dynamic]
version = {attr = "widget.version.__version__"}
`, "widget/__init__.py")

	versionModule := filepath.Join(filepath.Dir(project), "widget", "version.py")
	require.NoError(t, os.WriteFile(versionModule,
		[]byte("__version__ = \"1.8.2\"\n"), 0o644))

	r, err := reconcile.New(project)
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, "1.8.2", derived.Version)
}

func TestDeriveVersionFromDynamicAttrSrcLayout(t *testing.T) {
	project := projectWith(t, `
[project]
dependencies = []

[project.urls]
Source = "https://github.com/acme/widget"

[tool.setuptools.packages.find]
where = ["src"]

[tool.setuptools.dynamic]
version = {attr = "widget.version.__version__"}
`, "src/widget/__init__.py")

	versionModule := filepath.Join(filepath.Dir(project), "src", "widget", "version.py")
	require.NoError(t, os.WriteFile(versionModule,
		[]byte("__version__ = \"2.3.4\"\n"), 0o644))

	r, err := reconcile.New(project)
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, "2.3.4", derived.Version)
}

func TestDeriveVersionDynamicAttrUnresolvable(t *testing.T) {
	project := projectWith(t, `
[project.urls]
Source = "https://github.com/acme/widget"

[tool.setuptools]
packages = ["widget"]

[tool.setuptools.dynamic]
version = {attr = "widget.version.__version__"}
`, "widget/__init__.py")

	r, err := reconcile.New(project)
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, manifest.UnresolvedVersion, derived.Version)
}

func TestTargetWithoutManifestPath(t *testing.T) {
	r, err := reconcile.New(widgetProject(t))
	require.NoError(t, err)

	_, err = r.Target()
	require.Error(t, err)
	assert.True(t, errors.IsNoManifest(err))

	_, err = r.Validate()
	assert.True(t, errors.IsNoManifest(err))

	_, err = r.Diff()
	assert.True(t, errors.IsNoManifest(err))
}

func TestValidateAgainstOwnOutput(t *testing.T) {
	project := widgetProject(t)
	manifestPath := filepath.Join(filepath.Dir(project), "package.json")

	r, err := reconcile.New(project, reconcile.WithManifestPath(manifestPath))
	require.NoError(t, err)

	written, err := r.Create("", true)
	require.NoError(t, err)
	assert.Equal(t, manifestPath, written)

	ok, err := r.Validate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateIgnoresURLOrder(t *testing.T) {
	project := widgetProject(t)
	manifestPath := filepath.Join(filepath.Dir(project), "package.json")

	target := &manifest.Manifest{
		URLs: []manifest.Entry{
			{Path: "widget/core.py", URL: "github:acme/widget/widget/core.py"},
			{Path: "widget/__init__.py", URL: "github:acme/widget/widget/__init__.py"},
		},
		Deps:    []string{"ignored"},
		Version: "9.9.9",
	}
	require.NoError(t, target.Write(manifestPath, true))

	r, err := reconcile.New(project, reconcile.WithManifestPath(manifestPath))
	require.NoError(t, err)

	ok, err := r.Validate(reconcile.WithIgnoreVersion(), reconcile.WithIgnoreDeps())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateDetectsVersionMismatch(t *testing.T) {
	project := widgetProject(t)
	manifestPath := filepath.Join(filepath.Dir(project), "package.json")

	r, err := reconcile.New(project, reconcile.WithManifestPath(manifestPath))
	require.NoError(t, err)

	_, err = r.Create("", true)
	require.NoError(t, err)

	// Rewrite the target with a different version. The reconciler has
	// not loaded it yet, so the change is visible.
	target, err := manifest.Load(manifestPath)
	require.NoError(t, err)
	target.Version = "1.0.0"
	require.NoError(t, target.Write(manifestPath, true))

	ok, err := r.Validate()
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Validate(reconcile.WithIgnoreVersion())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateIgnoreBootMain(t *testing.T) {
	project := projectWith(t, widgetConfig,
		"widget/__init__.py",
		"widget/core.py",
		"widget/boot.py",
		"widget/main.py",
	)
	manifestPath := filepath.Join(filepath.Dir(project), "package.json")

	// Target published without the entry-point files.
	target := &manifest.Manifest{
		URLs: []manifest.Entry{
			{Path: "widget/__init__.py", URL: "github:acme/widget/widget/__init__.py"},
			{Path: "widget/core.py", URL: "github:acme/widget/widget/core.py"},
		},
		Deps:    []string{"urequests"},
		Version: manifest.UnresolvedVersion,
	}
	require.NoError(t, target.Write(manifestPath, true))

	r, err := reconcile.New(project, reconcile.WithManifestPath(manifestPath))
	require.NoError(t, err)

	ok, err := r.Validate()
	require.NoError(t, err)
	assert.False(t, ok, "boot.py and main.py should break strict validation")

	ok, err = r.Validate(reconcile.WithIgnoreBootMain())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDiffChangeset(t *testing.T) {
	project := widgetProject(t)
	manifestPath := filepath.Join(filepath.Dir(project), "package.json")

	target := &manifest.Manifest{
		URLs: []manifest.Entry{
			{Path: "widget/__init__.py", URL: "github:acme/widget/widget/__init__.py"},
		},
		Deps:    []string{"urequests", "micropython-uasyncio"},
		Version: "1.0.0",
	}
	require.NoError(t, target.Write(manifestPath, true))

	r, err := reconcile.New(project, reconcile.WithManifestPath(manifestPath))
	require.NoError(t, err)

	changeset, err := r.Diff()
	require.NoError(t, err)

	require.NotNil(t, changeset.Version)
	assert.Equal(t, manifest.UnresolvedVersion, changeset.Version.Old)
	assert.Equal(t, "1.0.0", changeset.Version.New)
	assert.Equal(t, []string{"micropython-uasyncio"}, changeset.DepsAdded)
	assert.Equal(t, []string{"widget/core.py"}, changeset.URLsRemoved)
}

func TestCreateDefaultsToProjectRoot(t *testing.T) {
	project := widgetProject(t)

	r, err := reconcile.New(project)
	require.NoError(t, err)

	written, err := r.Create("", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(project), "package.json"), written)

	loaded, err := manifest.Load(written)
	require.NoError(t, err)

	derived, err := r.Derive()
	require.NoError(t, err)
	assert.Equal(t, derived, loaded)
}

func TestCreateExplicitOutputPath(t *testing.T) {
	r, err := reconcile.New(widgetProject(t))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "custom.json")
	written, err := r.Create(out, true)
	require.NoError(t, err)
	assert.Equal(t, out, written)
	assert.FileExists(t, out)
}

func TestCreateMissingSourceURLWritesNothing(t *testing.T) {
	project := projectWith(t, `
[project]
name = "widget"

[tool.setuptools]
packages = ["widget"]
`, "widget/__init__.py")

	r, err := reconcile.New(project)
	require.NoError(t, err)

	_, err = r.Create("", true)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(project), "package.json"))
}

func TestShortenSourceURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://github.com/acme/widget", "github:acme/widget"},
		{"https://github.com/acme/widget/", "github:acme/widget"},
		{"https://gitlab.com/acme/widget", "gitlab:acme/widget"},
		{"https://example.com/acme/widget", "https://example.com/acme/widget"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reconcile.ShortenSourceURL(tt.in))
	}
}
