package lang

import (
	"iter"
	"slices"
)

// knownVariables are provided by the build system at build time, so
// declarations may refer to them without defining them.
var knownVariables = func() []string {
	names := []string{
		"PWD", "ABHOST", "ABBUILD", "ARCH", "DPKG_ARCH",
		// build directories
		"SRCDIR", "PKGDIR", "BLDDIR",
		// default paths
		"TMPDIR", "PREFIX", "BINDIR", "LIBDIR", "SYSCONF", "CONFD", "ETCDEF",
		"LDSOCONF", "FCCONF", "LOGROT", "CROND", "SKELDIR", "BINFMTD",
		"X11CONF", "STATDIR", "INCLUDE", "BOOTDIR", "LIBEXEC", "MANDIR",
		"FDOAPP", "FDOICO", "FONTDIR", "USRSRC", "VARLIB", "RUNDIR", "DOCDIR",
		"LICDIR", "SYDDIR", "SYDSCR", "TMPFILE", "PAMDIR", "JAVAMOD",
		"JAVAHOME", "GTKDOC", "GSCHEMAS", "THEMES", "BASHCOMP", "ZSHCOMP",
		"PROFILED", "LOCALES", "VIMDIR", "QT4DIR", "QT5DIR", "QT4BIN",
		"QT5BIN",
		// compiler flags
		"CFLAGS", "CXXFLAGS", "OBJCFLAGS", "OBJCXXFLAGS", "ASFLAGS",
		"CPPFLAGS", "LDFLAGS", "RUSTFLAGS",
		"ABMK",
	}
	slices.Sort(names)

	return names
}()

// IsKnownVariable reports whether name is provided by the build system.
func IsKnownVariable(name string) bool {
	_, found := slices.BinarySearch(knownVariables, name)

	return found
}

// KnownVariables yields the names of the variables provided by the build
// system in sorted order.
func KnownVariables() iter.Seq[string] {
	return slices.Values(knownVariables)
}

// Placeholders are the variables a defines file may use that are normally
// imported from the build environment.
var Placeholders = []string{"SRCDIR", "PKGDIR", "PKGVER", "PKGREL", "ARCH"}

// SeedPlaceholders sets each of names to the empty string so that a file can
// be evaluated outside the build environment.
func SeedPlaceholders(vars Context, names ...string) {
	for _, name := range names {
		vars[name] = ""
	}
}

// RemovePlaceholders deletes each of names from vars.
func RemovePlaceholders(vars Context, names ...string) {
	for _, name := range names {
		delete(vars, name)
	}
}
