package pyproject

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/upytools/mipgen/pkg/errors"
)

// Packages resolves the declared packages to their directories, keyed by
// dotted package name. An explicit packages list takes precedence over an
// auto-discovery find directive unconditionally; the two styles never mix.
func (c *Config) Packages() (map[string]string, error) {
	if explicit, ok := c.ExplicitPackages(); ok {
		packageDir := c.PackageDir()
		paths := make(map[string]string, len(explicit))
		for _, name := range explicit {
			paths[name] = FindPackagePath(name, packageDir, c.rootDir)
		}
		return paths, nil
	}

	find, ok := c.FindDirective()
	if !ok {
		// Neither style declared; nothing to discover.
		return map[string]string{}, nil
	}

	paths := make(map[string]string)
	for _, where := range find.Where {
		names, err := findNamespacePackages(filepath.Join(c.rootDir, where), find.Include, find.Exclude)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			paths[name] = FindPackagePath(name, map[string]string{"": where}, c.rootDir)
		}
	}

	return paths, nil
}

// PackagePath resolves a single dotted package or module name to its
// location under the project root. Explicit-list projects resolve
// through the package-dir mapping; find-directive projects resolve the
// name against each search root, the first root holding it winning.
func (c *Config) PackagePath(name string) string {
	find, ok := c.FindDirective()
	if !ok {
		return FindPackagePath(name, c.PackageDir(), c.rootDir)
	}

	first := ""
	for _, where := range find.Where {
		candidate := FindPackagePath(name, map[string]string{"": where}, c.rootDir)
		if first == "" {
			first = candidate
		}
		if moduleExists(candidate) {
			return candidate
		}
	}
	return first
}

// moduleExists reports whether a resolved location exists, either as a
// package directory or as a module source file.
func moduleExists(path string) bool {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return true
	}
	info, err := os.Stat(path + ".py")
	return err == nil && !info.IsDir()
}

// SourceFiles enumerates the *.py files of every discovered package,
// relative to the project root, slash-separated and sorted. Matching the
// setuptools layout contract, only files directly inside a package
// directory count; subdirectories are packages of their own.
func (c *Config) SourceFiles() ([]string, error) {
	packages, err := c.Packages()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	for _, dir := range packages {
		matches, err := filepath.Glob(filepath.Join(dir, "*.py"))
		if err != nil {
			return nil, errors.WrapIO("glob", dir, err)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}

			rel, err := filepath.Rel(c.rootDir, match)
			if err != nil {
				return nil, errors.WrapIO("resolve", match, err)
			}

			rel = filepath.ToSlash(rel)
			if _, dup := seen[rel]; dup {
				continue
			}
			seen[rel] = struct{}{}
			files = append(files, rel)
		}
	}

	sort.Strings(files)
	return files, nil
}

// FindPackagePath resolves a dotted package name against a package-dir
// mapping, following setuptools semantics: the longest dotted prefix with
// a mapping wins, falling back to the "" root entry.
func FindPackagePath(name string, packageDir map[string]string, rootDir string) string {
	parts := strings.Split(name, ".")

	for i := len(parts); i > 0; i-- {
		prefix := strings.Join(parts[:i], ".")
		if dir, ok := packageDir[prefix]; ok {
			return filepath.Join(append([]string{rootDir, dir}, parts[i:]...)...)
		}
	}

	root := packageDir[""]
	return filepath.Join(append([]string{rootDir, root}, parts...)...)
}

// findNamespacePackages walks a search root and returns the dotted names
// of every directory whose path segments are valid Python identifiers,
// filtered by the include and exclude glob patterns. Namespace packages
// need no __init__.py, so plain directories qualify.
func findNamespacePackages(where string, include, exclude []string) ([]string, error) {
	if _, err := os.Stat(where); err != nil {
		return nil, errors.WrapIO("open", where, err)
	}

	var names []string
	err := filepath.WalkDir(where, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == where {
			return nil
		}

		rel, err := filepath.Rel(where, path)
		if err != nil {
			return err
		}

		parts := strings.Split(filepath.ToSlash(rel), "/")
		for _, part := range parts {
			if !isPythonIdentifier(part) {
				return fs.SkipDir
			}
		}

		name := strings.Join(parts, ".")
		if matchesAny(include, name) && !matchesAny(exclude, name) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("walk", where, err)
	}

	sort.Strings(names)
	return names, nil
}

// matchesAny reports whether the dotted package name matches one of the
// glob patterns. Dotted names contain no path separators, so a bare *
// spans the whole name, mirroring fnmatch in setuptools.
func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func isPythonIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
