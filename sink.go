// FILE: loguru/sink.go
package loguru

import (
	"io"
	"sync/atomic"
)

// Sink is a destination that turns an accepted record into externally
// visible output. Handle reports whether the record was emitted; it
// must return false with no side effects when the sink is disabled or
// the record sits below the sink's own level. The ctx argument is the
// caller's merged context view, passed explicitly so sinks stay
// testable without ambient state.
//
// ConsoleSink, FileSink and NullSink are the built-in variants; custom
// implementations only need to satisfy this interface.
type Sink interface {
	Handle(rec *Record, ctx Fields) bool
	Level() Level
	SetLevel(Level)
	Enabled() bool
	SetEnabled(bool)
	Formatter() Formatter
	SetFormatter(Formatter)
}

// formatterBox wraps a Formatter for atomic.Value storage, which
// requires a consistent concrete type.
type formatterBox struct {
	f Formatter
}

// sinkCore carries the state every built-in sink shares. Level and
// enabled sit on the hot filter path and are atomics so dispatch never
// takes a lock to skip a record.
type sinkCore struct {
	level     atomic.Int32
	enabled   atomic.Bool
	formatter atomic.Value // stores formatterBox
}

func (s *sinkCore) init(level Level, f Formatter) {
	s.level.Store(int32(level))
	s.enabled.Store(true)
	s.formatter.Store(formatterBox{f: f})
}

// accepts is the sink-local filter, independent of the logger's global
// threshold.
func (s *sinkCore) accepts(level Level) bool {
	return s.enabled.Load() && level >= Level(s.level.Load())
}

// Level returns the sink's own minimum level.
func (s *sinkCore) Level() Level {
	return Level(s.level.Load())
}

// SetLevel sets the sink's own minimum level.
func (s *sinkCore) SetLevel(level Level) {
	s.level.Store(int32(level))
}

// Enabled reports whether the sink participates in dispatch.
func (s *sinkCore) Enabled() bool {
	return s.enabled.Load()
}

// SetEnabled toggles the sink without detaching it from the logger.
func (s *sinkCore) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// Formatter returns the sink's formatter.
func (s *sinkCore) Formatter() Formatter {
	return s.formatter.Load().(formatterBox).f
}

// SetFormatter swaps the sink's formatter for subsequent records.
func (s *sinkCore) SetFormatter(f Formatter) {
	s.formatter.Store(formatterBox{f: f})
}

// sinkOptions collects construction options; each sink constructor
// documents which options apply to it.
type sinkOptions struct {
	level      Level
	levelSet   bool
	formatter  Formatter
	colors     bool
	target     io.Writer
	rotateSize int64
	retain     int
	rotateSet  bool
	bufferSize int
	bufferSet  bool
	errHandler func(error)
}

// SinkOption configures a sink at construction time.
type SinkOption func(*sinkOptions)

// WithLevel sets the sink's own minimum level (default Trace, so the
// logger threshold alone decides).
func WithLevel(level Level) SinkOption {
	return func(o *sinkOptions) {
		o.level = level
		o.levelSet = true
	}
}

// WithFormatter sets the sink's formatter.
func WithFormatter(f Formatter) SinkOption {
	return func(o *sinkOptions) {
		o.formatter = f
	}
}

// WithColors enables ANSI colorization keyed by level. Console sink only.
func WithColors(colors bool) SinkOption {
	return func(o *sinkOptions) {
		o.colors = colors
	}
}

// WithTarget redirects console output; pass os.Stderr to select the
// error stream, or any writer in tests.
func WithTarget(w io.Writer) SinkOption {
	return func(o *sinkOptions) {
		o.target = w
	}
}

// WithRotation enables size-based rotation on a file sink. The active
// file rolls over once a write would push it past thresholdBytes, and
// at most retain backup files are kept, oldest pruned first. Both
// values must be positive.
func WithRotation(thresholdBytes int64, retain int) SinkOption {
	return func(o *sinkOptions) {
		o.rotateSize = thresholdBytes
		o.retain = retain
		o.rotateSet = true
	}
}

// WithBufferSize sets the file sink's in-memory write buffer in bytes.
func WithBufferSize(n int) SinkOption {
	return func(o *sinkOptions) {
		o.bufferSize = n
		o.bufferSet = true
	}
}

// WithErrorHandler routes I/O and rotation failures somewhere other
// than stderr. The handler must not call back into the same sink.
func WithErrorHandler(h func(error)) SinkOption {
	return func(o *sinkOptions) {
		o.errHandler = h
	}
}

func applySinkOptions(opts []SinkOption) *sinkOptions {
	o := &sinkOptions{level: LevelTrace}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NullSink passes the filter check and emits nothing. It reports true
// whenever a record clears its filter, which makes it the standard
// test double for dispatch behavior.
type NullSink struct {
	sinkCore
}

// NewNullSink accepts WithLevel and WithFormatter; everything else is
// ignored.
func NewNullSink(opts ...SinkOption) *NullSink {
	o := applySinkOptions(opts)
	s := &NullSink{}
	s.init(o.level, o.formatter)
	return s
}

// Handle implements Sink.
func (s *NullSink) Handle(rec *Record, _ Fields) bool {
	return s.accepts(rec.Level)
}
