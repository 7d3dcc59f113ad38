// FILE: loguru/logger_test.go
package loguru

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records everything it accepts, for dispatch assertions.
type captureSink struct {
	sinkCore
	mu      sync.Mutex
	records []*Record
	ctxs    []Fields
}

func newCaptureSink(level Level) *captureSink {
	s := &captureSink{}
	s.init(level, nil)
	return s
}

func (s *captureSink) Handle(rec *Record, ctx Fields) bool {
	if !s.accepts(rec.Level) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.ctxs = append(s.ctxs, ctx)
	return true
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *captureSink) last() (*Record, Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, nil
	}
	return s.records[len(s.records)-1], s.ctxs[len(s.ctxs)-1]
}

// TestNewLogger verifies initial state
func TestNewLogger(t *testing.T) {
	logger := NewLogger(LevelInfo)

	assert.Equal(t, LevelInfo, logger.Level())
	assert.Empty(t, logger.Sinks())
	assert.False(t, logger.Log(NewRecord(LevelError, "no sinks")))
}

// TestLoggerThreshold verifies global threshold filtering is monotonic
func TestLoggerThreshold(t *testing.T) {
	logger := NewLogger(LevelInfo)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	assert.False(t, logger.Log(NewRecord(LevelDebug, "below")))
	assert.True(t, logger.Log(NewRecord(LevelInfo, "at")))
	assert.True(t, logger.Log(NewRecord(LevelCritical, "above")))
	assert.Equal(t, 2, sink.count())

	logger.SetLevel(LevelOff)
	assert.False(t, logger.Log(NewRecord(LevelCritical, "off")))
	assert.Equal(t, 2, sink.count())
}

// TestLoggerPerSinkLevels verifies the two-stage filter: a record must
// clear the logger threshold and then each sink's own level
func TestLoggerPerSinkLevels(t *testing.T) {
	logger := NewLogger(LevelInfo)
	console := newCaptureSink(LevelWarning)
	file := newCaptureSink(LevelInfo)
	logger.AddSink(console)
	logger.AddSink(file)

	assert.False(t, logger.Log(NewRecord(LevelDebug, "m")))
	assert.Equal(t, 0, console.count())
	assert.Equal(t, 0, file.count())

	// Info clears the threshold and the file sink, not the console.
	assert.True(t, logger.Log(NewRecord(LevelInfo, "m")))
	assert.Equal(t, 0, console.count())
	assert.Equal(t, 1, file.count())

	assert.True(t, logger.Log(NewRecord(LevelWarning, "m")))
	assert.Equal(t, 1, console.count())
	assert.Equal(t, 2, file.count())
}

// TestLoggerDisabledSink verifies a disabled sink is skipped without
// detaching it
func TestLoggerDisabledSink(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	sink.SetEnabled(false)
	assert.False(t, logger.Log(NewRecord(LevelError, "m")))

	sink.SetEnabled(true)
	assert.True(t, logger.Log(NewRecord(LevelError, "m")))
	assert.Equal(t, 1, sink.count())
	assert.Len(t, logger.Sinks(), 1)
}

// TestLoggerAddRemoveSink verifies sink list mutations
func TestLoggerAddRemoveSink(t *testing.T) {
	logger := NewLogger(LevelTrace)
	a := newCaptureSink(LevelTrace)
	b := newCaptureSink(LevelTrace)

	logger.AddSink(a)
	logger.AddSink(b)
	logger.AddSink(nil) // ignored
	assert.Len(t, logger.Sinks(), 2)

	logger.RemoveSink(a)
	assert.Len(t, logger.Sinks(), 1)

	logger.Log(NewRecord(LevelInfo, "m"))
	assert.Equal(t, 0, a.count())
	assert.Equal(t, 1, b.count())
}

// TestLoggerNilRecord verifies a nil record is rejected
func TestLoggerNilRecord(t *testing.T) {
	logger := NewLogger(LevelTrace)
	logger.AddSink(newCaptureSink(LevelTrace))

	assert.False(t, logger.Log(nil))
	assert.False(t, logger.LogWith(nil, NewContextStack()))
}

// TestLoggerLogWith verifies the merged context view reaches sinks
func TestLoggerLogWith(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	stack := NewContextStack()
	stack.Push(Fields{"env": "prod"})
	stack.Push(Fields{"env": "staging", "op": "sync"})

	require.True(t, logger.LogWith(NewRecord(LevelInfo, "m"), stack))
	_, ctx := sink.last()
	assert.Equal(t, "staging", ctx["env"])
	assert.Equal(t, "sync", ctx["op"])

	// Nil stack is valid and yields no context.
	require.True(t, logger.LogWith(NewRecord(LevelInfo, "m"), nil))
	_, ctx = sink.last()
	assert.Empty(t, ctx)
}

// TestLoggerLogCtx verifies snapshot adoption from a context.Context
func TestLoggerLogCtx(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	stack := NewContextStack()
	stack.Push(Fields{"trace": "t-1"})
	ctx := ContextWithSnapshot(context.Background(), stack.Snapshot())

	require.True(t, logger.LogCtx(ctx, NewRecord(LevelInfo, "m")))
	_, got := sink.last()
	assert.Equal(t, "t-1", got["trace"])

	require.True(t, logger.LogCtx(context.Background(), NewRecord(LevelInfo, "m")))
	_, got = sink.last()
	assert.Empty(t, got)
}

// TestLoggerEmit verifies the convenience path builds records with
// metadata from the kv list
func TestLoggerEmit(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	require.True(t, logger.Emit(LevelInfo, "started", "port", 8080, "tls", true))
	rec, _ := sink.last()
	require.NotNil(t, rec)
	assert.Equal(t, "started", rec.Message)

	port, ok := rec.Metadata("port")
	require.True(t, ok)
	assert.Equal(t, "8080", port)
	tls, ok := rec.Metadata("tls")
	require.True(t, ok)
	assert.Equal(t, "true", tls)
}

// TestLoggerLevelMethods verifies each severity method maps to its level
func TestLoggerLevelMethods(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	logger.Trace("m")
	logger.Debug("m")
	logger.Info("m")
	logger.Success("m")
	logger.Warning("m")
	logger.Error("m")
	logger.Critical("m")

	require.Equal(t, 7, sink.count())
	want := []Level{LevelTrace, LevelDebug, LevelInfo, LevelSuccess, LevelWarning, LevelError, LevelCritical}
	for i, rec := range sink.records {
		assert.Equal(t, want[i], rec.Level)
	}
}

// TestLoggerCaptureSource verifies source capture points at the caller
func TestLoggerCaptureSource(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)
	logger.SetCaptureSource(true)

	logger.Info("m")
	rec, _ := sink.last()
	require.NotNil(t, rec)
	assert.Equal(t, "logger_test.go", rec.File)
	assert.Greater(t, rec.Line, 0)

	logger.SetCaptureSource(false)
	logger.Info("m")
	rec, _ = sink.last()
	assert.Empty(t, rec.File)
}

// TestLoggerConcurrentDispatch verifies concurrent Log calls with
// concurrent sink mutation stay consistent
func TestLoggerConcurrentDispatch(t *testing.T) {
	logger := NewLogger(LevelTrace)
	sink := newCaptureSink(LevelTrace)
	logger.AddSink(sink)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logger.Log(NewRecord(LevelInfo, "m"))
			}
		}()
	}
	extra := newCaptureSink(LevelTrace)
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.AddSink(extra)
		logger.RemoveSink(extra)
	}()
	wg.Wait()

	assert.Equal(t, 800, sink.count())
}

// TestLoggerCloseFlushesFileSinks verifies teardown through the logger
// reaches every closable sink
func TestLoggerCloseFlushesFileSinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	fileSink, err := NewFileSink(path, WithFormatter(NewTextFormatter().WithPattern("{message}")))
	require.NoError(t, err)

	logger := NewLogger(LevelTrace)
	logger.AddSink(fileSink)
	logger.Info("persisted")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "persisted\n", string(data))
}

// TestLoggerSinkFailureIsolation verifies one failing sink does not
// stop dispatch to the others
func TestLoggerSinkFailureIsolation(t *testing.T) {
	var discard bytes.Buffer
	logger := NewLogger(LevelTrace)
	failing := NewConsoleSink(WithTarget(failWriter{}), WithErrorHandler(func(error) {}))
	healthy := NewConsoleSink(WithTarget(&discard), WithFormatter(NewTextFormatter().WithPattern("{message}")))
	logger.AddSink(failing)
	logger.AddSink(healthy)

	assert.True(t, logger.Log(NewRecord(LevelInfo, "m")))
	assert.True(t, strings.HasSuffix(discard.String(), "m\n"))
}
