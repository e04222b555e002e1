// Package cmd implements the abmeta subcommands.
//
// Each command is a kong command struct whose Run method receives the
// context built by package cli. Results go to standard output in the
// format chosen with --format, and evaluation failures are rendered as
// annotated diagnostics on standard error.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"

	// IndexIdentifier is the kong variable identifier containing the path to
	// the default index database.
	IndexIdentifier = "index"
)
