package differ

import (
	"fmt"
	"strings"
)

// FieldChange records an old and new value for a scalar field.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// URLChange records a URL entry whose download location changed for the
// same relative path.
type URLChange struct {
	Path string `json:"path"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// Changeset is the structural difference between a derived manifest and
// a target manifest. Added/Removed follow the target's point of view:
// Added entries exist only in the target, Removed only in the derived
// data.
type Changeset struct {
	Version *FieldChange `json:"version,omitempty"`

	DepsAdded   []string `json:"deps_added,omitempty"`
	DepsRemoved []string `json:"deps_removed,omitempty"`

	URLsAdded   []string    `json:"urls_added,omitempty"`
	URLsRemoved []string    `json:"urls_removed,omitempty"`
	URLsChanged []URLChange `json:"urls_changed,omitempty"`
}

// Empty reports whether the two manifests were structurally identical.
func (c *Changeset) Empty() bool {
	return c.Version == nil &&
		len(c.DepsAdded) == 0 && len(c.DepsRemoved) == 0 &&
		len(c.URLsAdded) == 0 && len(c.URLsRemoved) == 0 &&
		len(c.URLsChanged) == 0
}

// Summary returns a short human-readable account of the changeset.
func (c *Changeset) Summary() string {
	if c.Empty() {
		return "manifests are identical"
	}

	var parts []string
	if c.Version != nil {
		parts = append(parts, fmt.Sprintf("version %s -> %s", c.Version.Old, c.Version.New))
	}
	if n := len(c.DepsAdded); n > 0 {
		parts = append(parts, fmt.Sprintf("%d dep(s) added", n))
	}
	if n := len(c.DepsRemoved); n > 0 {
		parts = append(parts, fmt.Sprintf("%d dep(s) removed", n))
	}
	if n := len(c.URLsAdded); n > 0 {
		parts = append(parts, fmt.Sprintf("%d url(s) added", n))
	}
	if n := len(c.URLsRemoved); n > 0 {
		parts = append(parts, fmt.Sprintf("%d url(s) removed", n))
	}
	if n := len(c.URLsChanged); n > 0 {
		parts = append(parts, fmt.Sprintf("%d url(s) changed", n))
	}
	return strings.Join(parts, ", ")
}
