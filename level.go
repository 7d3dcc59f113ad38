// FILE: loguru/level.go
package loguru

import (
	"strconv"
	"strings"
)

// Level represents the severity of a log record. Levels are totally
// ordered from Trace (least severe) to Critical (most severe).
type Level int32

// Severity levels. The numeric values follow the conventional
// python-style scale so thresholds from other systems map cleanly.
const (
	LevelTrace    Level = 5
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelSuccess  Level = 25
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50

	// LevelOff sits above every real level and is only valid as a
	// threshold. Records are never constructed at this level.
	LevelOff Level = 60
)

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	case LevelOff:
		return "OFF"
	default:
		return "LEVEL(" + strconv.FormatInt(int64(l), 10) + ")"
	}
}

// ANSI color codes per level, used by the console sink and the text
// formatter when colorization is enabled.
const ansiReset = "\x1b[0m"

func (l Level) color() string {
	switch l {
	case LevelTrace:
		return "\x1b[37m" // white
	case LevelDebug:
		return "\x1b[34m" // blue
	case LevelInfo:
		return "\x1b[32m" // green
	case LevelSuccess:
		return "\x1b[36m" // cyan
	case LevelWarning:
		return "\x1b[33m" // yellow
	case LevelError:
		return "\x1b[31m" // red
	case LevelCritical:
		return "\x1b[35m" // purple
	default:
		return ""
	}
}

// ParseLevel converts a level name to its Level constant.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "success":
		return LevelSuccess, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	case "off":
		return LevelOff, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use trace, debug, info, success, warning, error, critical, off)", s)
	}
}

// MarshalText implements encoding.TextMarshaler for config round-trips.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
