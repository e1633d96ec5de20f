// Package pyproject loads a Python project's declarative configuration
// (pyproject.toml) and resolves the package metadata mipgen derives
// manifests from: dependency specifiers, the source URL, the dynamic
// version pointer and the set of importable source packages.
package pyproject

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/upytools/mipgen/pkg/errors"
)

// Config is the parsed project configuration. It is read-only once loaded.
type Config struct {
	path    string
	rootDir string
	doc     document
}

// document mirrors the pyproject.toml key groups mipgen reads.
type document struct {
	Project projectTable `toml:"project"`
	Tool    toolTable    `toml:"tool"`
}

type projectTable struct {
	Name         string            `toml:"name"`
	Dependencies []string          `toml:"dependencies"`
	URLs         map[string]string `toml:"urls"`
}

type toolTable struct {
	Setuptools setuptoolsTable `toml:"setuptools"`
}

type setuptoolsTable struct {
	// Packages is either an explicit list of dotted package names or a
	// table holding a "find" auto-discovery directive. The two styles are
	// mutually exclusive; an explicit list always wins.
	Packages   any               `toml:"packages"`
	PackageDir map[string]string `toml:"package-dir"`
	Dynamic    dynamicTable      `toml:"dynamic"`
}

type dynamicTable struct {
	Version *attrDirective `toml:"version"`
}

type attrDirective struct {
	Attr string `toml:"attr"`
}

// FindDirective is a [tool.setuptools.packages.find] auto-discovery rule.
type FindDirective struct {
	Where   []string
	Include []string
	Exclude []string
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapIO("resolve", path, err)
	}

	cfg := &Config{
		path:    abs,
		rootDir: filepath.Dir(abs),
	}
	if err := toml.Unmarshal(data, &cfg.doc); err != nil {
		return nil, errors.WrapParse("toml", path, err)
	}

	return cfg, nil
}

// Path returns the absolute path of the configuration file.
func (c *Config) Path() string {
	return c.path
}

// RootDir returns the project root, the directory holding the
// configuration file.
func (c *Config) RootDir() string {
	return c.rootDir
}

// Name returns the declared project name.
func (c *Config) Name() string {
	return c.doc.Project.Name
}

// Dependencies returns the declared dependency specifiers. A missing
// list yields nil; the caller decides whether that is worth a warning.
func (c *Config) Dependencies() []string {
	return c.doc.Project.Dependencies
}

// SourceURL returns the [project.urls] "Source" entry. The field is
// mandatory: a manifest cannot be derived without a download location.
func (c *Config) SourceURL() (string, error) {
	if url, ok := c.doc.Project.URLs["Source"]; ok && url != "" {
		return url, nil
	}
	return "", errors.NewMissingFieldError("urls.Source", c.path)
}

// DynamicVersionAttr returns the dotted module attribute configured as
// the dynamic version source, e.g. "widget.version.__version__", or ""
// when no dynamic version is declared.
func (c *Config) DynamicVersionAttr() string {
	if v := c.doc.Tool.Setuptools.Dynamic.Version; v != nil {
		return v.Attr
	}
	return ""
}

// DataFiles enumerates the project's non-source data files. Deriving
// them is not supported yet; callers tolerate ErrNotImplemented and
// carry no data-file entries.
func (c *Config) DataFiles() ([]string, error) {
	return nil, errors.ErrNotImplemented
}

// PackageDir returns the declared package-dir mapping, defaulting to the
// project root when absent.
func (c *Config) PackageDir() map[string]string {
	if len(c.doc.Tool.Setuptools.PackageDir) == 0 {
		return map[string]string{"": "."}
	}
	return c.doc.Tool.Setuptools.PackageDir
}

// ExplicitPackages returns the explicit [tool.setuptools] packages list,
// when that declaration style is used.
func (c *Config) ExplicitPackages() ([]string, bool) {
	list, ok := c.doc.Tool.Setuptools.Packages.([]any)
	if !ok {
		return nil, false
	}

	packages := make([]string, 0, len(list))
	for _, item := range list {
		if name, ok := item.(string); ok {
			packages = append(packages, name)
		}
	}
	return packages, true
}

// FindDirective returns the [tool.setuptools.packages.find] rule with
// setuptools defaults applied, when that declaration style is used.
func (c *Config) FindDirective() (*FindDirective, bool) {
	table, ok := c.doc.Tool.Setuptools.Packages.(map[string]any)
	if !ok {
		return nil, false
	}

	find, ok := table["find"].(map[string]any)
	if !ok {
		return nil, false
	}

	directive := &FindDirective{
		Where:   stringList(find["where"]),
		Include: stringList(find["include"]),
		Exclude: stringList(find["exclude"]),
	}
	if len(directive.Where) == 0 {
		directive.Where = []string{"."}
	}
	if len(directive.Include) == 0 {
		directive.Include = []string{"*"}
	}

	return directive, true
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
