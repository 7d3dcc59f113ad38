// FILE: loguru/scope.go
package loguru

import (
	"sync/atomic"
	"time"
)

// ScopeGuard ties a pushed scope to a block of code. Exit pops exactly
// once no matter how many times it runs, so the usual pattern
//
//	guard := loguru.EnterScope(stack, Fields{"op": "sync"})
//	defer guard.Exit()
//
// restores the stack on every exit path, abnormal unwind included.
type ScopeGuard struct {
	stack  *ContextStack
	start  time.Time
	exited atomic.Bool
}

// EnterScope pushes scope onto stack and returns its guard.
func EnterScope(stack *ContextStack, scope Fields) *ScopeGuard {
	stack.Push(scope)
	return &ScopeGuard{
		stack: stack,
		start: time.Now(),
	}
}

// Elapsed reports how long the scope has been active.
func (g *ScopeGuard) Elapsed() time.Duration {
	return time.Since(g.start)
}

// Exit pops the guarded scope. Calling it more than once is harmless.
func (g *ScopeGuard) Exit() {
	if !g.exited.CompareAndSwap(false, true) {
		return
	}
	g.stack.Pop()
}
