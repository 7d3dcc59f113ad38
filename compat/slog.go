// FILE: loguru/compat/slog.go
package compat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/j-raghavan/loguru"
)

// SlogHandler bridges log/slog to a loguru.Logger so libraries that
// take a *slog.Logger share the application's sinks. Attribute groups
// are flattened into dotted metadata keys.
type SlogHandler struct {
	logger *loguru.Logger
	attrs  []loguru.Field
	groups []string
}

// SlogOption allows customizing handler behavior
type SlogOption func(*SlogHandler)

// NewSlogHandler creates a slog.Handler backed by logger
func NewSlogHandler(logger *loguru.Logger, opts ...SlogOption) *SlogHandler {
	h := &SlogHandler{logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// levelFromSlog maps slog's level space onto loguru's
func levelFromSlog(level slog.Level) loguru.Level {
	switch {
	case level < slog.LevelDebug:
		return loguru.LevelTrace
	case level < slog.LevelInfo:
		return loguru.LevelDebug
	case level < slog.LevelWarn:
		return loguru.LevelInfo
	case level < slog.LevelError:
		return loguru.LevelWarning
	default:
		return loguru.LevelError
	}
}

// Enabled implements slog.Handler
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return levelFromSlog(level) >= h.logger.Level()
}

// Handle implements slog.Handler
func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := loguru.NewRecord(levelFromSlog(r.Level), r.Message)
	if !r.Time.IsZero() {
		rec.Time = r.Time
	}
	for _, f := range h.attrs {
		rec.WithMetadata(f.Key, f.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		flattenAttr(h.groups, a, func(key, value string) {
			rec.WithMetadata(key, value)
		})
		return true
	})
	h.logger.LogCtx(ctx, rec)
	return nil
}

// flattenAttr expands one attribute into dotted-key string fields,
// recursing into groups.
func flattenAttr(groups []string, a slog.Attr, emit func(key, value string)) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		nested := groups
		if a.Key != "" {
			nested = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range v.Group() {
			flattenAttr(nested, ga, emit)
		}
		return
	}
	key := a.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}
	emit(key, fmt.Sprint(v.Any()))
}

// WithAttrs implements slog.Handler
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		flattenAttr(h.groups, a, func(key, value string) {
			next.attrs = append(next.attrs, loguru.Field{Key: key, Value: value})
		})
	}
	return next
}

// WithGroup implements slog.Handler
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *SlogHandler) clone() *SlogHandler {
	return &SlogHandler{
		logger: h.logger,
		attrs:  append([]loguru.Field(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}
