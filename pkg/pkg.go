//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the abmeta module embedded at build
// time, with surrounding whitespace removed.
var Version = strings.TrimSpace(version)

const (
	// Name is the command and module identifier. It appears in help text,
	// default config paths, and the names of generated files.
	Name = "abmeta"
	// Description is a one-line summary used in help output.
	Description = "Package metadata evaluator for autobuild source trees"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
