// FILE: loguru/global.go
package loguru

import (
	"sync/atomic"
)

// The global logger slot. Reads before SetGlobal yield a defined no-op
// logger (threshold Off, no sinks) rather than nil, so package-level
// calls are always safe.
var (
	globalSlot atomic.Pointer[Logger]
	noopLogger = NewLogger(LevelOff)
)

// SetGlobal installs l as the process-wide logger. Calling it again
// replaces the instance; records in flight finish against whichever
// logger they started with.
func SetGlobal(l *Logger) {
	if l == nil {
		return
	}
	globalSlot.Store(l)
}

// Global returns the process-wide logger, never nil.
func Global() *Logger {
	if l := globalSlot.Load(); l != nil {
		return l
	}
	return noopLogger
}

// Package-level convenience functions delegating to the global slot.

// Log dispatches a record through the global logger.
func Log(rec *Record) bool {
	return Global().Log(rec)
}

// LogWith dispatches a record with context through the global logger.
func LogWith(rec *Record, stack *ContextStack) bool {
	return Global().LogWith(rec, stack)
}

// Emit builds and dispatches a record through the global logger.
func Emit(level Level, message string, kv ...any) bool {
	return Global().emit(level, message, nil, 2, kv)
}

// Trace logs a message at trace level.
func Trace(message string, kv ...any) bool {
	return Global().emit(LevelTrace, message, nil, 2, kv)
}

// Debug logs a message at debug level.
func Debug(message string, kv ...any) bool {
	return Global().emit(LevelDebug, message, nil, 2, kv)
}

// Info logs a message at info level.
func Info(message string, kv ...any) bool {
	return Global().emit(LevelInfo, message, nil, 2, kv)
}

// Success logs a message at success level.
func Success(message string, kv ...any) bool {
	return Global().emit(LevelSuccess, message, nil, 2, kv)
}

// Warning logs a message at warning level.
func Warning(message string, kv ...any) bool {
	return Global().emit(LevelWarning, message, nil, 2, kv)
}

// Error logs a message at error level.
func Error(message string, kv ...any) bool {
	return Global().emit(LevelError, message, nil, 2, kv)
}

// Critical logs a message at critical level.
func Critical(message string, kv ...any) bool {
	return Global().emit(LevelCritical, message, nil, 2, kv)
}
