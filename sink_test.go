// FILE: loguru/sink_test.go
package loguru

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failWriter always fails, for exercising the error handler path.
type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

// TestNullSinkFilter verifies Handle mirrors the filter outcome
func TestNullSinkFilter(t *testing.T) {
	s := NewNullSink(WithLevel(LevelWarning))

	assert.False(t, s.Handle(NewRecord(LevelInfo, "m"), nil))
	assert.True(t, s.Handle(NewRecord(LevelWarning, "m"), nil))
	assert.True(t, s.Handle(NewRecord(LevelCritical, "m"), nil))

	s.SetEnabled(false)
	assert.False(t, s.Handle(NewRecord(LevelCritical, "m"), nil))
}

// TestSinkLevelMutation verifies runtime level changes apply
func TestSinkLevelMutation(t *testing.T) {
	s := NewNullSink()
	assert.Equal(t, LevelTrace, s.Level())

	s.SetLevel(LevelError)
	assert.Equal(t, LevelError, s.Level())
	assert.False(t, s.Handle(NewRecord(LevelInfo, "m"), nil))
}

// TestSinkFormatterSwap verifies SetFormatter takes effect on the next
// record
func TestSinkFormatterSwap(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(WithTarget(&buf), WithFormatter(NewTextFormatter().WithPattern("{message}")))

	s.Handle(NewRecord(LevelInfo, "one"), nil)
	s.SetFormatter(NewTextFormatter().WithPattern("[{message}]"))
	s.Handle(NewRecord(LevelInfo, "two"), nil)

	assert.Equal(t, "one\n[two]\n", buf.String())
}

// TestConsoleSinkWrite verifies a record lands on the target writer as
// a single line
func TestConsoleSinkWrite(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(
		WithTarget(&buf),
		WithFormatter(NewTextFormatter().WithPattern("{level} {message}")),
	)

	ok := s.Handle(NewRecord(LevelInfo, "started"), nil)
	require.True(t, ok)
	assert.Equal(t, "INFO started\n", buf.String())
}

// TestConsoleSinkContext verifies the merged context view reaches the
// formatter
func TestConsoleSinkContext(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(
		WithTarget(&buf),
		WithFormatter(NewTextFormatter().WithPattern("{message} {context}")),
	)

	s.Handle(NewRecord(LevelInfo, "m"), Fields{"request": "r1"})
	assert.Equal(t, "m request=r1\n", buf.String())
}

// TestConsoleSinkWriteFailure verifies failures go to the error handler
// and are reported as non-emission
func TestConsoleSinkWriteFailure(t *testing.T) {
	var captured error
	s := NewConsoleSink(
		WithTarget(failWriter{}),
		WithErrorHandler(func(err error) { captured = err }),
	)

	ok := s.Handle(NewRecord(LevelInfo, "m"), nil)
	assert.False(t, ok)
	require.Error(t, captured)
	assert.Contains(t, captured.Error(), "disk on fire")
}

// TestConsoleSinkConcurrentWrites verifies lines never interleave
func TestConsoleSinkConcurrentWrites(t *testing.T) {
	var mu sync.Mutex
	var buf bytes.Buffer
	safe := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	})
	s := NewConsoleSink(WithTarget(safe), WithFormatter(NewTextFormatter().WithPattern("{message}")))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Handle(NewRecord(LevelInfo, "xxxxxxxxxx"), nil)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	mu.Unlock()
	require.Len(t, lines, 16*50)
	for _, line := range lines {
		assert.Equal(t, "xxxxxxxxxx", string(line))
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
