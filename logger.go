// FILE: loguru/logger.go
package loguru

import (
	"context"
	"sync"
	"sync/atomic"
)

// Logger owns a global severity threshold and an ordered set of sinks,
// and drives dispatch. The hot path (threshold filtering) reads two
// atomics and allocates nothing; administrative mutations take the
// logger mutex and swap the sink list copy-on-write, so in-flight Log
// calls observe either the old or the new configuration, never a mix.
type Logger struct {
	threshold     atomic.Int32
	captureSource atomic.Bool
	sinks         atomic.Value // stores []Sink

	mu sync.Mutex // guards sink list mutations
}

// NewLogger creates a logger with the given threshold and no sinks.
func NewLogger(level Level) *Logger {
	l := &Logger{}
	l.threshold.Store(int32(level))
	l.sinks.Store([]Sink{})
	return l
}

// Level returns the logger's global threshold.
func (l *Logger) Level() Level {
	return Level(l.threshold.Load())
}

// SetLevel changes the threshold for all subsequent Log calls.
func (l *Logger) SetLevel(level Level) {
	l.threshold.Store(int32(level))
}

// SetCaptureSource controls whether the convenience methods record the
// caller's file and line on each record.
func (l *Logger) SetCaptureSource(capture bool) {
	l.captureSource.Store(capture)
}

// AddSink appends a sink; dispatch order is insertion order.
func (l *Logger) AddSink(s Sink) {
	if s == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.sinks.Load().([]Sink)
	next := make([]Sink, len(current), len(current)+1)
	copy(next, current)
	l.sinks.Store(append(next, s))
}

// RemoveSink detaches a previously added sink, matched by identity.
func (l *Logger) RemoveSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current := l.sinks.Load().([]Sink)
	next := make([]Sink, 0, len(current))
	for _, existing := range current {
		if existing != s {
			next = append(next, existing)
		}
	}
	l.sinks.Store(next)
}

// Sinks returns a copy of the current dispatch list.
func (l *Logger) Sinks() []Sink {
	current := l.sinks.Load().([]Sink)
	out := make([]Sink, len(current))
	copy(out, current)
	return out
}

// Log dispatches a record with no ambient context. It returns true iff
// at least one sink emitted the record. A sink failure never aborts
// dispatch to the remaining sinks.
func (l *Logger) Log(rec *Record) bool {
	return l.dispatch(rec, nil)
}

// LogWith dispatches a record with the merged view of the caller's
// context stack attached.
func (l *Logger) LogWith(rec *Record, stack *ContextStack) bool {
	if rec == nil || rec.Level < Level(l.threshold.Load()) {
		return false
	}
	var merged Fields
	if stack != nil {
		merged = stack.Current()
	}
	return l.dispatch(rec, merged)
}

// LogCtx dispatches a record with the context snapshot carried by ctx,
// if any. It is the adoption point for records emitted on goroutines
// spawned with ContextWithSnapshot.
func (l *Logger) LogCtx(ctx context.Context, rec *Record) bool {
	if rec == nil || rec.Level < Level(l.threshold.Load()) {
		return false
	}
	if s, ok := SnapshotFromContext(ctx); ok {
		return l.dispatch(rec, s.Fields())
	}
	return l.dispatch(rec, nil)
}

func (l *Logger) dispatch(rec *Record, ctx Fields) bool {
	if rec == nil {
		return false
	}
	// Dominant path: below-threshold records return before any sink,
	// context merge, or allocation happens.
	if rec.Level < Level(l.threshold.Load()) {
		return false
	}

	sinks := l.sinks.Load().([]Sink)
	if len(sinks) == 0 {
		return false
	}

	emitted := false
	for _, s := range sinks {
		if !s.Enabled() || rec.Level < s.Level() {
			continue
		}
		if s.Handle(rec, ctx) {
			emitted = true
		}
	}
	return emitted
}

// Emit builds and dispatches a record at the given level. kv is an
// alternating key-value list attached as metadata; keys must be
// strings, values are stringified.
func (l *Logger) Emit(level Level, message string, kv ...any) bool {
	return l.emit(level, message, nil, 2, kv)
}

// EmitWith is Emit with the caller's context stack attached.
func (l *Logger) EmitWith(stack *ContextStack, level Level, message string, kv ...any) bool {
	return l.emit(level, message, stack, 2, kv)
}

// emit is the shared convenience path. skip locates the user frame for
// source capture.
func (l *Logger) emit(level Level, message string, stack *ContextStack, skip int, kv []any) bool {
	// Same early exit as dispatch, before the record is even built.
	if level < Level(l.threshold.Load()) {
		return false
	}

	rec := NewRecord(level, message)
	if l.captureSource.Load() {
		if file, line := callerSource(skip); file != "" {
			rec.WithSource(file, line)
		}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		rec.WithMetadata(key, string(appendTextValue(nil, kv[i+1])))
	}
	var merged Fields
	if stack != nil {
		merged = stack.Current()
	}
	return l.dispatch(rec, merged)
}

// Trace logs a message at trace level.
func (l *Logger) Trace(message string, kv ...any) bool {
	return l.emit(LevelTrace, message, nil, 2, kv)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(message string, kv ...any) bool {
	return l.emit(LevelDebug, message, nil, 2, kv)
}

// Info logs a message at info level.
func (l *Logger) Info(message string, kv ...any) bool {
	return l.emit(LevelInfo, message, nil, 2, kv)
}

// Success logs a message at success level.
func (l *Logger) Success(message string, kv ...any) bool {
	return l.emit(LevelSuccess, message, nil, 2, kv)
}

// Warning logs a message at warning level.
func (l *Logger) Warning(message string, kv ...any) bool {
	return l.emit(LevelWarning, message, nil, 2, kv)
}

// Error logs a message at error level.
func (l *Logger) Error(message string, kv ...any) bool {
	return l.emit(LevelError, message, nil, 2, kv)
}

// Critical logs a message at critical level.
func (l *Logger) Critical(message string, kv ...any) bool {
	return l.emit(LevelCritical, message, nil, 2, kv)
}

// Close tears down every sink that supports teardown (FileSink,
// AsyncLogger targets); buffered bytes are flushed on the way out.
func (l *Logger) Close() error {
	var finalErr error
	for _, s := range l.Sinks() {
		if closer, ok := s.(interface{ Close() error }); ok {
			finalErr = combineErrors(finalErr, closer.Close())
		}
	}
	return finalErr
}

// Flush pushes buffered bytes through every sink that buffers.
func (l *Logger) Flush() error {
	var finalErr error
	for _, s := range l.Sinks() {
		if flusher, ok := s.(interface{ Flush() error }); ok {
			finalErr = combineErrors(finalErr, flusher.Flush())
		}
	}
	return finalErr
}
