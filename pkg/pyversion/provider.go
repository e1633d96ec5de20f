// Package pyversion resolves a package version from a Python module's
// source. Rather than importing and executing the module, the default
// provider statically scans the source for the version assignment, so
// reading metadata never runs project code.
package pyversion

import (
	"fmt"
	"os"
	"regexp"

	"github.com/upytools/mipgen/pkg/errors"
)

// Provider resolves the value of a version attribute in a Python module.
type Provider interface {
	// Resolve returns the string value assigned to attr in the module
	// source file at modulePath.
	Resolve(modulePath, attr string) (string, error)
}

// Static is a Provider that scans module source for a plain string
// assignment like `__version__ = "1.2.3"`. Annotated assignments
// (`__version__: str = "1.2.3"`) are handled too.
type Static struct{}

// NewStatic returns a static source-scanning provider.
func NewStatic() *Static {
	return &Static{}
}

// Resolve implements Provider.
func (s *Static) Resolve(modulePath, attr string) (string, error) {
	data, err := os.ReadFile(modulePath)
	if err != nil {
		return "", errors.WrapIO("read", modulePath, err)
	}

	re, err := assignmentPattern(attr)
	if err != nil {
		return "", err
	}

	match := re.FindSubmatch(data)
	if match == nil {
		return "", errors.NewParseError("python", modulePath,
			fmt.Sprintf("no %s assignment found", attr), nil)
	}

	// One of the two quote-style groups captured the value.
	for _, group := range match[1:] {
		if len(group) > 0 {
			return string(group), nil
		}
	}
	return "", errors.NewParseError("python", modulePath,
		fmt.Sprintf("%s is assigned an empty value", attr), nil)
}

func assignmentPattern(attr string) (*regexp.Regexp, error) {
	if attr == "" {
		return nil, errors.NewValidationError("attr", attr, "attribute name is empty")
	}
	// Module-level assignment only, so the match is anchored at column
	// zero. Optionally annotated, single or double quoted.
	expr := fmt.Sprintf(`(?m)^%s[ \t]*(?::[^=\n]+)?=[ \t]*(?:"([^"]+)"|'([^']+)')`,
		regexp.QuoteMeta(attr))
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.NewValidationError("attr", attr, err.Error())
	}
	return re, nil
}
