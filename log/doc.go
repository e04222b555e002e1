// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("tree loaded", slog.Int("packages", n))
//
// # Configuration
//
// Settings are applied with functional options when the logger is created or
// wrapped:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some settings replaced, and
// [Logger.With] derives one that adds attributes to every message.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is used by the evaluator to report
// every accepted assignment and is normally disabled.
//
// # Package Logger
//
// The package-level functions ([Info], [Warn], ...) write through a shared
// logger that the command-line layer reconfigures with [Config]. Libraries
// accept a [Logger] instead; its zero value discards all output.
//
// # Pretty Output
//
// With [WithPretty] enabled (the default) records are colorized when the
// output is a terminal. [FormatText] renders key=value pairs on one line and
// [FormatJSON] renders one indented key per line.
package log
