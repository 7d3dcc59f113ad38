// FILE: loguru/context.go
package loguru

import (
	"context"
)

// Fields is a set of ambient key-value pairs attached to log records
// during formatting. Values are expected to be one of: string, int64,
// float64, bool, or a nested Fields map. Other types are rendered on a
// best-effort basis by the formatters.
type Fields map[string]any

// clone deep-copies f, including nested Fields values.
func (f Fields) clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		if nested, ok := v.(Fields); ok {
			out[k] = nested.clone()
		} else {
			out[k] = v
		}
	}
	return out
}

// ContextStack is a LIFO stack of scopes owned by a single goroutine.
// It is deliberately unsynchronized: ownership is exclusive and the only
// sanctioned way to move context across goroutines is Snapshot/Adopt,
// which copies rather than shares.
type ContextStack struct {
	scopes []Fields
}

// NewContextStack returns an empty stack.
func NewContextStack() *ContextStack {
	return &ContextStack{}
}

// Push adds a scope on top of the stack. The scope is copied, so later
// caller-side mutation of the map does not leak into the stack.
func (c *ContextStack) Push(scope Fields) {
	c.scopes = append(c.scopes, scope.clone())
}

// Pop removes the topmost scope. Popping an empty stack is a no-op so
// mismatched push/pop during unwind never crashes caller code.
func (c *ContextStack) Pop() {
	if len(c.scopes) == 0 {
		return
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// Set writes a key into the topmost scope only. With an empty stack it
// is a silent no-op: logging context is a side channel and must not
// fail the caller.
func (c *ContextStack) Set(key string, value any) {
	if len(c.scopes) == 0 {
		return
	}
	top := c.scopes[len(c.scopes)-1]
	if nested, ok := value.(Fields); ok {
		top[key] = nested.clone()
	} else {
		top[key] = value
	}
}

// Get returns the value for key from the topmost scope that defines it.
func (c *ContextStack) Get(key string) (any, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Depth reports how many scopes are currently pushed.
func (c *ContextStack) Depth() int {
	return len(c.scopes)
}

// Current merges all scopes bottom-to-top into a fresh map; a key
// pushed later shadows the same key pushed earlier.
func (c *ContextStack) Current() Fields {
	merged := make(Fields)
	for _, scope := range c.scopes {
		for k, v := range scope {
			merged[k] = v
		}
	}
	return merged
}

// Snapshot captures the merged view as an immutable value that can be
// shared across goroutine boundaries.
func (c *ContextStack) Snapshot() Snapshot {
	return Snapshot{fields: c.Current()}
}

// Scoped pushes the scope and returns the matching pop. Intended for
//
//	defer stack.Scoped(Fields{...})()
//
// so the pop runs on every exit path, panics included.
func (c *ContextStack) Scoped(scope Fields) func() {
	c.Push(scope)
	return c.Pop
}

// Snapshot is a frozen merged context view. It is safe to hold from any
// number of goroutines; adopting it copies, so no live linkage exists
// between the propagator and the adopter.
type Snapshot struct {
	fields Fields
}

// Fields returns a copy of the captured view.
func (s Snapshot) Fields() Fields {
	return s.fields.clone()
}

// Adopt installs the snapshot as the base scope of a fresh stack.
// Pushes and Sets on the returned stack never become visible through
// the snapshot or the stack it was taken from, and vice versa.
func Adopt(s Snapshot) *ContextStack {
	c := NewContextStack()
	if len(s.fields) > 0 {
		c.scopes = append(c.scopes, s.fields.clone())
	}
	return c
}

type snapshotCtxKey struct{}

// ContextWithSnapshot attaches a snapshot to a context.Context for
// handoff into spawned goroutines.
func ContextWithSnapshot(ctx context.Context, s Snapshot) context.Context {
	return context.WithValue(ctx, snapshotCtxKey{}, s)
}

// SnapshotFromContext extracts a previously attached snapshot.
func SnapshotFromContext(ctx context.Context) (Snapshot, bool) {
	s, ok := ctx.Value(snapshotCtxKey{}).(Snapshot)
	return s, ok
}

// StackFromContext adopts the snapshot carried by ctx into a new stack.
// Without a snapshot it returns an empty stack, never nil.
func StackFromContext(ctx context.Context) *ContextStack {
	if s, ok := SnapshotFromContext(ctx); ok {
		return Adopt(s)
	}
	return NewContextStack()
}
