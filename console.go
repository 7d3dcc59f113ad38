// FILE: loguru/console.go
package loguru

import (
	"io"
	"os"
	"sync"
)

// ConsoleSink writes formatted text to standard output or standard
// error (or any writer supplied with WithTarget). Each record goes out
// as a single Write under the sink mutex, so concurrent callers never
// interleave partial lines on the same destination.
type ConsoleSink struct {
	sinkCore

	mu     sync.Mutex
	w      io.Writer
	report func(error)
}

// NewConsoleSink accepts WithLevel, WithFormatter, WithColors,
// WithTarget and WithErrorHandler. The default target is stdout with
// an uncolored text formatter.
func NewConsoleSink(opts ...SinkOption) *ConsoleSink {
	o := applySinkOptions(opts)

	w := o.target
	if w == nil {
		w = os.Stdout
	}
	f := o.formatter
	if f == nil {
		f = NewTextFormatter().WithColors(o.colors)
	}
	report := o.errHandler
	if report == nil {
		report = stderrReporter
	}

	s := &ConsoleSink{w: w, report: report}
	s.init(o.level, f)
	return s
}

// Handle implements Sink.
func (s *ConsoleSink) Handle(rec *Record, ctx Fields) bool {
	if !s.accepts(rec.Level) {
		return false
	}
	line := formatRecord(s.Formatter(), rec, ctx)

	s.mu.Lock()
	_, err := s.w.Write(line)
	s.mu.Unlock()

	if err != nil {
		s.report(fmtErrorf("console write failed: %w", err))
		return false
	}
	return true
}
