//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// version is the semantic version of the lox module embedded at build time.
//
//go:embed VERSION
var version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "lox"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Tree-walking interpreter for a small Lox subset"
)

// Version returns the embedded version string with surrounding whitespace
// removed.
func Version() string { return strings.TrimSpace(version) }

// SemVer returns the embedded version parsed as a semantic version.
// It panics if the VERSION file does not hold a valid version, which is a
// build defect.
var SemVer = sync.OnceValue(func() *semver.Version {
	return semver.MustParse(Version())
})

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
