// Package cli contains the command line interface for abmeta.
//
// # Usage
//
//	abmeta [flags] <command> [args]
//
// With no command, the arguments are declaration files to evaluate:
//
//	abmeta app-web/curl/autobuild/defines
//
// # Configuration
//
// Flag defaults are read from $XDG_CONFIG_HOME/abmeta/config, a file in
// the declaration language itself. Each variable sets the flag of the same
// name, upper-cased with hyphens turned into underscores:
//
//	LOG_LEVEL='debug'
//	TREE='/home/user/src/abbs-tree'
//
// The init command writes this file from the current flag values. A JSON
// file at the same path with a ".json" suffix is also read.
//
// # Files
//
// The cache directory, $XDG_CACHE_HOME/abmeta, holds the default index
// database (index.db), the REPL history and profiles. ABMETA_CONFIG_DIR and
// ABMETA_CACHE_DIR replace the two directories. The variable prefix follows
// the executable name, so a binary named abmeta-dev reads ABMETA_DEV_*.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize terminal output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/abmeta/pprof). Each command writes to its own
//     subdirectory, such as pprof/index-sync.
package cli
