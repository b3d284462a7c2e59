package domain

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel is the severity passed to the native runtime's default
// logger.
type LogLevel string

const (
	LogTrace LogLevel = "trace"
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// ParseLogLevel converts a user-supplied level string into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LogTrace:
		return LogTrace, nil
	case LogDebug:
		return LogDebug, nil
	case LogInfo, "":
		return LogInfo, nil
	case LogWarn, "warning":
		return LogWarn, nil
	case LogError:
		return LogError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

// Slog maps the level onto the slog scale. Trace has no slog
// equivalent and maps below debug.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogTrace:
		return slog.LevelDebug - 4
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
