// Package differ computes structural differences between two package
// manifests for diagnostic reporting. Unlike validation, diffing never
// applies exclusion rules: every differing field is reported.
package differ

import (
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/upytools/mipgen/pkg/manifest"
)

// Manifests compares a derived manifest against a target manifest and
// returns the changeset from derived to target.
func Manifests(derived, target *manifest.Manifest) *Changeset {
	changeset := &Changeset{}

	if derived.Version != target.Version {
		changeset.Version = &FieldChange{Old: derived.Version, New: target.Version}
	}

	changeset.DepsAdded, changeset.DepsRemoved = diffDeps(derived.Deps, target.Deps)
	changeset.URLsAdded, changeset.URLsRemoved, changeset.URLsChanged = diffURLs(derived.URLs, target.URLs)

	return changeset
}

// Equal reports whether two manifests are structurally identical,
// ignoring URL entry order.
func Equal(a, b *manifest.Manifest) bool {
	left := a.Clone()
	right := b.Clone()
	left.SortURLs()
	right.SortURLs()
	return cmp.Equal(left, right)
}

func diffDeps(derived, target []string) (added, removed []string) {
	derivedSet := make(map[string]struct{}, len(derived))
	for _, dep := range derived {
		derivedSet[dep] = struct{}{}
	}
	targetSet := make(map[string]struct{}, len(target))
	for _, dep := range target {
		targetSet[dep] = struct{}{}
	}

	for dep := range targetSet {
		if _, ok := derivedSet[dep]; !ok {
			added = append(added, dep)
		}
	}
	for dep := range derivedSet {
		if _, ok := targetSet[dep]; !ok {
			removed = append(removed, dep)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func diffURLs(derived, target []manifest.Entry) (added, removed []string, changed []URLChange) {
	derivedByPath := make(map[string]string, len(derived))
	for _, entry := range derived {
		derivedByPath[entry.Path] = entry.URL
	}
	targetByPath := make(map[string]string, len(target))
	for _, entry := range target {
		targetByPath[entry.Path] = entry.URL
	}

	for path, url := range targetByPath {
		old, ok := derivedByPath[path]
		switch {
		case !ok:
			added = append(added, path)
		case old != url:
			changed = append(changed, URLChange{Path: path, Old: old, New: url})
		}
	}
	for path := range derivedByPath {
		if _, ok := targetByPath[path]; !ok {
			removed = append(removed, path)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Slice(changed, func(i, j int) bool { return changed[i].Path < changed[j].Path })
	return added, removed, changed
}
