// FILE: loguru/async.go
package loguru

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// minWaitTime is the polling period used while waiting for the worker.
const minWaitTime = 10 * time.Millisecond

// asyncRecord carries one enqueued record plus the context view frozen
// at enqueue time, so the worker formats what the caller saw.
type asyncRecord struct {
	rec             *Record
	ctx             Fields
	unreportedDrops uint64 // nonzero only on drop-report records
}

// AsyncLogger decouples callers from sink I/O: records go into a
// bounded channel and a single worker goroutine drives the wrapped
// Logger. Enqueueing never blocks; when the channel is full the record
// is dropped and counted, and the drop count is reported through the
// wrapped logger once pressure eases.
type AsyncLogger struct {
	target     *Logger
	bufferSize int

	started        atomic.Bool
	shutdownCalled atomic.Bool
	workerExited   atomic.Bool
	activeChan     atomic.Value // stores chan asyncRecord
	dropped        atomic.Uint64

	flushRequestChan chan chan struct{}
	flushMu          sync.Mutex
}

// NewAsyncLogger wraps target with a channel of the given capacity.
func NewAsyncLogger(target *Logger, bufferSize int) (*AsyncLogger, error) {
	if target == nil {
		return nil, fmtErrorf("async logger target cannot be nil")
	}
	if bufferSize <= 0 {
		return nil, fmtErrorf("async buffer size must be positive: %d", bufferSize)
	}

	a := &AsyncLogger{
		target:           target,
		bufferSize:       bufferSize,
		flushRequestChan: make(chan chan struct{}, 1),
	}
	a.workerExited.Store(true)

	// A closed channel up front keeps enqueue safe before Start.
	initial := make(chan asyncRecord)
	close(initial)
	a.activeChan.Store(initial)

	return a, nil
}

// Start launches the worker. Safe to call multiple times.
func (a *AsyncLogger) Start() error {
	if a.shutdownCalled.Load() {
		return fmtErrorf("async logger already shut down")
	}
	if a.started.CompareAndSwap(false, true) {
		ch := make(chan asyncRecord, a.bufferSize)
		a.activeChan.Store(ch)
		a.workerExited.Store(false)
		go a.process(ch)
	}
	return nil
}

// Stop halts the worker after draining buffered records. Can be
// restarted with Start.
func (a *AsyncLogger) Stop(timeout ...time.Duration) error {
	if !a.started.CompareAndSwap(true, false) {
		return nil
	}

	effective := 2 * time.Second
	if len(timeout) > 0 {
		effective = timeout[0]
	}

	ch := a.currentChan()
	closedChan := make(chan asyncRecord)
	close(closedChan)
	a.activeChan.Store(closedChan)
	if ch != nil {
		close(ch)
	}

	deadline := time.Now().Add(effective)
	for time.Now().Before(deadline) {
		if a.workerExited.Load() {
			return nil
		}
		time.Sleep(minWaitTime)
	}
	if !a.workerExited.Load() {
		return fmtErrorf("async worker did not exit within timeout (%v)", effective)
	}
	return nil
}

// Shutdown stops the worker and flushes the wrapped logger's sinks.
// Calling it twice is a no-op.
func (a *AsyncLogger) Shutdown(timeout ...time.Duration) error {
	if !a.shutdownCalled.CompareAndSwap(false, true) {
		return nil
	}
	stopErr := a.Stop(timeout...)
	return combineErrors(stopErr, a.target.Flush())
}

// Flush waits until buffered records are handled and sink buffers are
// synced, or the timeout expires.
func (a *AsyncLogger) Flush(timeout time.Duration) error {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	if !a.started.Load() || a.shutdownCalled.Load() {
		return fmtErrorf("async logger not started or already shut down")
	}

	confirm := make(chan struct{})
	select {
	case a.flushRequestChan <- confirm:
	case <-time.After(minWaitTime):
		return fmtErrorf("failed to send flush request to worker (possible deadlock or high load)")
	}

	select {
	case <-confirm:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Dropped reports records discarded so far and not yet reported.
func (a *AsyncLogger) Dropped() uint64 {
	return a.dropped.Load()
}

// Log enqueues a record with no ambient context.
func (a *AsyncLogger) Log(rec *Record) bool {
	return a.enqueue(rec, nil)
}

// LogWith enqueues a record with the merged view of the caller's stack
// captured immediately, so later stack mutations don't race the worker.
func (a *AsyncLogger) LogWith(rec *Record, stack *ContextStack) bool {
	var ctx Fields
	if stack != nil {
		ctx = stack.Current()
	}
	return a.enqueue(rec, ctx)
}

func (a *AsyncLogger) currentChan() chan asyncRecord {
	return a.activeChan.Load().(chan asyncRecord)
}

// enqueue performs the non-blocking send; a full or closed channel
// counts a drop instead of blocking or panicking the caller.
func (a *AsyncLogger) enqueue(rec *Record, ctx Fields) bool {
	if rec == nil || rec.Level < a.target.Level() {
		return false
	}
	return a.send(asyncRecord{rec: rec, ctx: ctx})
}

func (a *AsyncLogger) send(ar asyncRecord) (ok bool) {
	defer func() {
		if r := recover(); r != nil { // send on closed channel
			a.recordDrop(ar)
			ok = false
		}
	}()

	if a.shutdownCalled.Load() {
		a.recordDrop(ar)
		return false
	}

	select {
	case a.currentChan() <- ar:
		if ar.unreportedDrops == 0 {
			// Channel had room again: surface any accumulated drops.
			if count := a.dropped.Swap(0); count > 0 {
				report := asyncRecord{
					rec: NewRecord(LevelError, "log records were dropped").
						WithMetadata("dropped_count", strconv.FormatUint(count, 10)),
					unreportedDrops: count,
				}
				a.send(report)
			}
		}
		return true
	default:
		a.recordDrop(ar)
		return false
	}
}

// recordDrop restores or increments the drop counter.
func (a *AsyncLogger) recordDrop(ar asyncRecord) {
	amount := uint64(1)
	if ar.unreportedDrops > 0 {
		amount = ar.unreportedDrops
	}
	a.dropped.Add(amount)
}

// process is the worker loop. It exits when the active channel closes,
// after handling whatever was still buffered.
func (a *AsyncLogger) process(ch <-chan asyncRecord) {
	defer a.workerExited.Store(true)

	for {
		select {
		case ar, open := <-ch:
			if !open {
				return
			}
			a.target.dispatch(ar.rec, ar.ctx)
		case confirm := <-a.flushRequestChan:
			a.drain(ch)
			_ = a.target.Flush()
			close(confirm)
		}
	}
}

// drain consumes records already buffered without blocking for new ones.
func (a *AsyncLogger) drain(ch <-chan asyncRecord) {
	for {
		select {
		case ar, open := <-ch:
			if !open {
				return
			}
			a.target.dispatch(ar.rec, ar.ctx)
		default:
			return
		}
	}
}
