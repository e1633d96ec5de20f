// Package reconcile derives a mip package manifest from a Python
// project's packaging metadata and reconciles it against a previously
// published manifest. Derivation is best-effort: only the source URL is
// mandatory, every other missing field degrades to a warning and an
// explicit sentinel or empty default.
package reconcile

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/upytools/mipgen/pkg/changelog"
	"github.com/upytools/mipgen/pkg/differ"
	"github.com/upytools/mipgen/pkg/errors"
	"github.com/upytools/mipgen/pkg/logging"
	"github.com/upytools/mipgen/pkg/manifest"
	"github.com/upytools/mipgen/pkg/pyproject"
	"github.com/upytools/mipgen/pkg/pyversion"
)

// DefaultManifestName is the manifest filename used when neither a
// target manifest nor an output path is given.
const DefaultManifestName = "package.json"

// shortHosts maps web-host URL prefixes to the short-host form mip
// resolves natively.
var shortHosts = map[string]string{
	"https://github.com/": "github:",
	"https://gitlab.com/": "gitlab:",
}

// bootMainFiles are the entry-point filenames WithIgnoreBootMain
// excludes from comparison.
var bootMainFiles = []string{"boot.py", "main.py"}

// Reconciler derives manifests from a project configuration and
// compares them against a target manifest. The configuration is parsed
// once at construction; derived data is recomputed on every call.
type Reconciler struct {
	config        *pyproject.Config
	manifestPath  string
	changelogPath string
	versions      pyversion.Provider
	logger        *zerolog.Logger

	// target is loaded at most once and immutable afterwards.
	target *manifest.Manifest
}

// New creates a Reconciler for the project configuration at projectFile.
func New(projectFile string, opts ...Option) (*Reconciler, error) {
	config, err := pyproject.Load(projectFile)
	if err != nil {
		return nil, err
	}

	r := &Reconciler{
		config:   config,
		versions: pyversion.NewStatic(),
		logger:   &logging.Nop,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Config returns the parsed project configuration.
func (r *Reconciler) Config() *pyproject.Config {
	return r.config
}

// Derive computes a manifest from the current project configuration.
// The result is never cached: touching the project between calls is
// reflected immediately.
func (r *Reconciler) Derive() (*manifest.Manifest, error) {
	url, err := r.config.SourceURL()
	if err != nil {
		return nil, err
	}

	files, err := r.config.SourceFiles()
	if err != nil {
		return nil, err
	}

	shortURL := ShortenSourceURL(url)
	urls := make([]manifest.Entry, 0, len(files))
	for _, file := range files {
		entry := manifest.Entry{Path: file, URL: shortURL + "/" + file}
		r.logger.Debug().Str("path", entry.Path).Str("url", entry.URL).Msg("manifest entry")
		urls = append(urls, entry)
	}

	dataFiles, err := r.config.DataFiles()
	if err != nil && !errors.Is(err, errors.ErrNotImplemented) {
		return nil, err
	}
	for _, file := range dataFiles {
		urls = append(urls, manifest.Entry{Path: file, URL: shortURL + "/" + file})
	}

	deps := r.config.Dependencies()
	if deps == nil {
		r.logger.Warn().Msg("no 'dependencies' key found in project configuration")
		deps = []string{}
	}

	return &manifest.Manifest{
		URLs:    urls,
		Deps:    deps,
		Version: r.resolveVersion(),
	}, nil
}

// Target returns the target manifest, loading it on first use. It fails
// with ErrNoManifest when no manifest path was configured.
func (r *Reconciler) Target() (*manifest.Manifest, error) {
	if r.target != nil {
		return r.target, nil
	}
	if r.manifestPath == "" {
		return nil, errors.ErrNoManifest
	}

	target, err := manifest.Load(r.manifestPath)
	if err != nil {
		return nil, err
	}
	r.target = target

	return r.target, nil
}

// Validate compares the derived manifest against the target manifest
// under the given exclusion options and reports structural equality.
func (r *Reconciler) Validate(opts ...CompareOption) (bool, error) {
	options := &compareOptions{}
	for _, opt := range opts {
		opt(options)
	}

	derived, err := r.Derive()
	if err != nil {
		return false, err
	}
	target, err := r.Target()
	if err != nil {
		return false, err
	}

	return differ.Equal(applyExclusions(derived, options), applyExclusions(target, options)), nil
}

// Diff computes the structural changeset between derived and target
// data without any exclusions, for diagnostic reporting.
func (r *Reconciler) Diff() (*differ.Changeset, error) {
	derived, err := r.Derive()
	if err != nil {
		return nil, err
	}
	target, err := r.Target()
	if err != nil {
		return nil, err
	}

	return differ.Manifests(derived, target), nil
}

// Create derives a manifest and writes it to outputPath. An empty
// outputPath falls back to the target-manifest path, then to
// package.json next to the project configuration. Returns the path
// written.
func (r *Reconciler) Create(outputPath string, pretty bool) (string, error) {
	if outputPath == "" {
		if r.manifestPath != "" {
			outputPath = r.manifestPath
		} else {
			outputPath = filepath.Join(r.config.RootDir(), DefaultManifestName)
			r.logger.Info().Str("path", outputPath).
				Msg("no manifest path specified, using project directory")
		}
	}

	derived, err := r.Derive()
	if err != nil {
		return "", err
	}
	if err := derived.Write(outputPath, pretty); err != nil {
		return "", err
	}
	r.logger.Debug().Str("path", outputPath).Msg("created manifest")

	return outputPath, nil
}

// resolveVersion picks the version source: changelog first, then the
// dynamic version attribute. Resolution failures are soft; the sentinel
// marks the version as undeterminable.
func (r *Reconciler) resolveVersion() string {
	if r.changelogPath != "" {
		version, err := changelog.ExtractVersion(r.changelogPath)
		if err != nil {
			r.logger.Warn().Err(err).Msg("unable to extract changelog version")
			return manifest.UnresolvedVersion
		}
		return version
	}

	attr := r.config.DynamicVersionAttr()
	if attr == "" {
		r.logger.Warn().Msg("unable to identify package 'version'")
		return manifest.UnresolvedVersion
	}

	dot := strings.LastIndex(attr, ".")
	if dot <= 0 {
		r.logger.Warn().Str("attr", attr).Msg("dynamic version attribute has no module part")
		return manifest.UnresolvedVersion
	}
	module, name := attr[:dot], attr[dot+1:]

	version, err := r.versions.Resolve(r.config.PackagePath(module)+".py", name)
	if err != nil {
		r.logger.Warn().Err(err).Str("attr", attr).Msg("unable to resolve dynamic version")
		return manifest.UnresolvedVersion
	}
	return version
}

// ShortenSourceURL normalizes a web-host source URL to the short-host
// form mip understands, e.g. https://github.com/acme/widget to
// github:acme/widget. Unknown hosts pass through unchanged.
func ShortenSourceURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	for prefix, short := range shortHosts {
		if strings.HasPrefix(url, prefix) {
			return short + strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

func applyExclusions(m *manifest.Manifest, o *compareOptions) *manifest.Manifest {
	out := m.Clone()
	if o.ignoreVersion {
		out.Version = ""
	}
	if o.ignoreDeps {
		out.Deps = []string{}
	}
	if o.ignoreBootMain {
		out.URLs = excludeFiles(out.URLs, bootMainFiles)
	}
	return out
}

// excludeFiles drops entries whose relative path contains any of the
// exclude names.
func excludeFiles(entries []manifest.Entry, excludes []string) []manifest.Entry {
	kept := make([]manifest.Entry, 0, len(entries))
	for _, entry := range entries {
		excluded := false
		for _, name := range excludes {
			if strings.Contains(entry.Path, name) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, entry)
		}
	}
	return kept
}
