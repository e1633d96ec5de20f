// Package changelog extracts release versions from keep-a-changelog
// style documents. The latest release is the first second-level heading
// carrying a bracketed semantic version, e.g. "## [1.2.3] - 2024-01-15".
package changelog

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/upytools/mipgen/pkg/errors"
)

var (
	// releaseLineRe matches a changelog release heading.
	releaseLineRe = regexp.MustCompile(`^## \[\d+\.\d+\.\d+`)

	// semverRe is the official semver.org pattern, without anchors so a
	// version can be picked out of a surrounding heading line.
	semverRe = regexp.MustCompile(
		`(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
			`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
			`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?`)
)

// ParseReleaseLine returns the first release heading of the changelog at
// path. Headings are scanned top-down, so the first hit is the latest
// release.
func ParseReleaseLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WrapIO("open", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if releaseLineRe.MatchString(line) {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.WrapIO("read", path, err)
	}

	return "", errors.NewParseError("changelog", path, "no release version line found", nil)
}

// ParseSemverLine extracts the semantic version string from a release
// heading line.
func ParseSemverLine(line string) (string, error) {
	match := semverRe.FindString(line)
	if match == "" {
		return "", errors.NewParseError("changelog", "",
			fmt.Sprintf("no semantic version in line %q", line), nil)
	}
	return match, nil
}

// ExtractVersion returns the latest release version of the changelog at
// path.
func ExtractVersion(path string) (string, error) {
	line, err := ParseReleaseLine(path)
	if err != nil {
		return "", err
	}
	return ParseSemverLine(line)
}
