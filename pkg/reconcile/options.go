package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/upytools/mipgen/pkg/pyversion"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithManifestPath sets the target manifest file to validate or diff
// against. Without it, operations needing a target manifest fail with
// ErrNoManifest.
func WithManifestPath(path string) Option {
	return func(r *Reconciler) {
		r.manifestPath = path
	}
}

// WithChangelogPath sets a changelog file as the version source. When
// set, it takes precedence over a dynamic version attribute.
func WithChangelogPath(path string) Option {
	return func(r *Reconciler) {
		r.changelogPath = path
	}
}

// WithVersionProvider replaces the version provider used to resolve a
// dynamic version attribute from module source.
func WithVersionProvider(provider pyversion.Provider) Option {
	return func(r *Reconciler) {
		r.versions = provider
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// CompareOption configures a validation comparison.
type CompareOption func(*compareOptions)

type compareOptions struct {
	ignoreVersion  bool
	ignoreDeps     bool
	ignoreBootMain bool
}

// WithIgnoreVersion drops the version field from both sides before
// comparison.
func WithIgnoreVersion() CompareOption {
	return func(o *compareOptions) {
		o.ignoreVersion = true
	}
}

// WithIgnoreDeps drops the dependency list from both sides before
// comparison.
func WithIgnoreDeps() CompareOption {
	return func(o *compareOptions) {
		o.ignoreDeps = true
	}
}

// WithIgnoreBootMain removes URL entries whose relative path contains
// boot.py or main.py from both sides before comparison. Deployed
// projects often carry these entry-point files without publishing them.
func WithIgnoreBootMain() CompareOption {
	return func(o *compareOptions) {
		o.ignoreBootMain = true
	}
}
