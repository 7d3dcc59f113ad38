// FILE: loguru/file.go
package loguru

import (
	"sync"
)

// defaultFileBufferSize batches file writes without hoarding memory.
const defaultFileBufferSize = 32 * 1024

// FileSink writes formatted records to a file through the rotation and
// retention manager. The active file is always at the configured path;
// rollover renames it to a timestamped backup and prunes the oldest
// backups beyond the retention count.
//
// The buffer-write-and-possibly-rotate critical section is guarded by
// a mutex scoped to this sink only, so unrelated sinks never serialize
// against each other.
type FileSink struct {
	sinkCore

	mu     sync.Mutex
	rot    *rotator
	report func(error)
	closed bool
}

// FileSinkStats is a point-in-time snapshot of the sink's counters.
type FileSinkStats struct {
	Rotations    int64
	Deletions    int64
	BytesWritten int64
}

// NewFileSink opens (or creates) the file at path. It accepts
// WithLevel, WithFormatter, WithRotation, WithBufferSize and
// WithErrorHandler. Invalid rotation or buffer parameters fail here,
// as does an unopenable path; nothing on the emission path fails later
// than this.
func NewFileSink(path string, opts ...SinkOption) (*FileSink, error) {
	o := applySinkOptions(opts)

	if path == "" {
		return nil, fmtErrorf("file sink path cannot be empty")
	}
	if o.rotateSet {
		if o.rotateSize <= 0 {
			return nil, fmtErrorf("rotation threshold must be positive: %d", o.rotateSize)
		}
		if o.retain <= 0 {
			return nil, fmtErrorf("retention count must be positive: %d", o.retain)
		}
	}
	if o.bufferSet && o.bufferSize <= 0 {
		return nil, fmtErrorf("buffer size must be positive: %d", o.bufferSize)
	}

	bufSize := o.bufferSize
	if !o.bufferSet {
		bufSize = defaultFileBufferSize
	}
	report := o.errHandler
	if report == nil {
		report = stderrReporter
	}
	f := o.formatter
	if f == nil {
		f = NewTextFormatter()
	}

	s := &FileSink{report: report}
	s.rot = newRotator(path, o.rotateSize, o.retain, bufSize, report)
	if err := s.rot.open(); err != nil {
		return nil, err
	}
	s.init(o.level, f)
	return s, nil
}

// Handle implements Sink. I/O failures are routed to the error handler
// and reported as a non-emission; they never propagate to the caller.
func (s *FileSink) Handle(rec *Record, ctx Fields) bool {
	if !s.accepts(rec.Level) {
		return false
	}
	line := formatRecord(s.Formatter(), rec, ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if err := s.rot.write(line); err != nil {
		s.report(err)
		return false
	}
	return true
}

// Flush drains the in-memory buffer and syncs the active file.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.rot.flush()
}

// Close flushes and releases the file handle. Subsequent Handle calls
// report false; closing twice is a no-op.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rot.close()
}

// Path returns the configured active file path.
func (s *FileSink) Path() string {
	return s.rot.path
}

// Stats reports rotation activity and bytes written since open.
func (s *FileSink) Stats() FileSinkStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FileSinkStats{
		Rotations:    s.rot.rotations,
		Deletions:    s.rot.deletions,
		BytesWritten: s.rot.total,
	}
}
