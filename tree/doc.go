// Package tree loads the packages of a package tree.
//
// Each package unit is a pair of declaration files: a spec file, naming the
// upstream version and sources, and a defines file, naming the package and
// its dependencies. The defines file usually sits in an autobuild directory
// below the spec file:
//
//	app-admin/acbs/spec
//	app-admin/acbs/autobuild/defines
//
// Both files are evaluated with [lang.Parse] into one context, spec first,
// and the result is checked and assembled into a [Package]. The tree
// directory a unit lives in ("app-admin") gives the package its category
// and section.
package tree
