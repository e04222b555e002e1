package log

import (
	"fmt"
	"log/slog"
)

// String returns the lower-case name of the level. Levels between the named
// ones are rendered as an offset from the nearest lower name ("info+2").
func (l Level) String() string {
	switch {
	case l < LevelDebug:
		return offsetName("trace", l-LevelTrace)
	case l < LevelInfo:
		return offsetName("debug", l-LevelDebug)
	case l < LevelWarn:
		return offsetName("info", l-LevelInfo)
	case l < LevelError:
		return offsetName("warn", l-LevelWarn)
	default:
		return offsetName("error", l-LevelError)
	}
}

func offsetName(name string, off Level) string {
	if off == 0 {
		return name
	}

	return fmt.Sprintf("%s%+d", name, int(off))
}

// Slog returns the equivalent [slog.Level].
func (l Level) Slog() slog.Level { return slog.Level(l) }

// String returns the lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}
