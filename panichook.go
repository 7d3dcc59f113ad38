// FILE: loguru/panichook.go
package loguru

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// LogPanics captures a panic unwinding through the calling function,
// logs it at critical level through l (or the global logger when l is
// nil), flushes, and re-raises the original value. Use it in a defer:
//
//	defer loguru.LogPanics(nil)
//
// Capture never interferes with unwinding; if logging itself fails the
// panic still propagates unchanged.
func LogPanics(l *Logger) {
	r := recover()
	if r == nil {
		return
	}

	func() {
		defer func() { _ = recover() }() // capture must never fail

		if l == nil {
			l = Global()
		}
		rec := NewRecord(LevelCritical, fmt.Sprintf("panic: %v", r))
		if file, line := panicSource(); file != "" {
			rec.WithSource(file, line)
		}
		l.Log(rec)
		_ = l.Flush()
	}()

	panic(r)
}

// panicSource walks the stack past the runtime's panic machinery to the
// frame that actually panicked.
func panicSource() (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	seenPanic := false
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.gopanic") ||
			strings.HasPrefix(frame.Function, "runtime.panic") {
			seenPanic = true
		} else if seenPanic {
			return filepath.Base(frame.File), frame.Line
		}
		if !more {
			return "", 0
		}
	}
}
