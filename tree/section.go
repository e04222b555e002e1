package tree

import (
	"slices"
	"strings"
)

// sections are the Debian archive sections accepted in PKGSEC.
var sections = []string{
	"admin", "cli-mono", "comm", "database", "debian-installer", "debug",
	"devel", "doc", "editors", "education", "electronics", "embedded",
	"fonts", "games", "gnome", "gnu-r", "gnustep", "graphics", "hamradio",
	"haskell", "httpd", "interpreters", "introspection", "java",
	"javascript", "kde", "kernel", "libdevel", "libs", "lisp",
	"localization", "mail", "math", "metapackages", "misc", "net", "news",
	"ocaml", "oldlibs", "otherosfs", "perl", "php", "python", "ruby", "rust",
	"science", "shells", "sound", "tasks", "tex", "text", "utils", "vcs",
	"video", "web", "x11", "xfce", "zope",
}

var components = []string{"contrib", "non-free", "non-free-firmware"}

// IsSection reports whether s is a valid PKGSEC value: a known section,
// optionally qualified by an archive component ("non-free/libs").
func IsSection(s string) bool {
	if comp, sec, ok := strings.Cut(s, "/"); ok {
		if !slices.Contains(components, comp) {
			return false
		}

		s = sec
	}

	return slices.Contains(sections, s)
}
