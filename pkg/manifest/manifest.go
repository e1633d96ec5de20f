// Package manifest defines the MicroPython mip package descriptor and its
// JSON codec. A manifest lists downloadable file URLs, dependency specifiers
// and a version string, in the stable key order mip expects.
package manifest

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/upytools/mipgen/pkg/errors"
)

// UnresolvedVersion is the sentinel used when no version source is
// configured or the configured source cannot be resolved. It is not a
// valid semantic version, so it never collides with a real release.
const UnresolvedVersion = "-1.-1.-1"

// Entry is a single downloadable file: a path relative to the package root
// and the absolute URL it is fetched from. It marshals as a two-element
// JSON array ["relative/path.py", "github:org/repo/relative/path.py"].
type Entry struct {
	Path string
	URL  string
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Path, e.URL})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.NewValidationError("urls", pair,
			"URL entry must be a two-element array")
	}
	e.Path = pair[0]
	e.URL = pair[1]
	return nil
}

// Manifest is a mip-compatible package descriptor.
type Manifest struct {
	URLs    []Entry  `json:"urls"`
	Deps    []string `json:"deps"`
	Version string   `json:"version"`
}

// Load reads and decodes a manifest JSON file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	m.normalize()

	return &m, nil
}

// Write encodes the manifest to path. With pretty set, the document is
// indented with 4 spaces, matching the layout mip package files are
// conventionally published with.
func (m *Manifest) Write(path string, pretty bool) error {
	m.normalize()

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(m, "", "    ")
	} else {
		data, err = json.Marshal(m)
	}
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	clone := &Manifest{
		URLs:    make([]Entry, len(m.URLs)),
		Deps:    make([]string, len(m.Deps)),
		Version: m.Version,
	}
	copy(clone.URLs, m.URLs)
	copy(clone.Deps, m.Deps)
	return clone
}

// SortURLs orders the URL entries by relative path, then URL. Published
// manifests may list entries in any order, so both sides are sorted
// before comparison.
func (m *Manifest) SortURLs() {
	sort.Slice(m.URLs, func(i, j int) bool {
		if m.URLs[i].Path != m.URLs[j].Path {
			return m.URLs[i].Path < m.URLs[j].Path
		}
		return m.URLs[i].URL < m.URLs[j].URL
	})
}

// normalize replaces nil slices so the manifest always marshals with
// "urls" and "deps" as arrays, never null.
func (m *Manifest) normalize() {
	if m.URLs == nil {
		m.URLs = []Entry{}
	}
	if m.Deps == nil {
		m.Deps = []string{}
	}
}
