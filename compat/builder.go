// FILE: loguru/compat/builder.go

// Package compat adapts a loguru.Logger to the logging interfaces of
// third-party servers and to the standard library's log/slog.
package compat

import (
	"fmt"

	"github.com/j-raghavan/loguru"
)

// Builder provides a flexible way to create configured logger adapters
// It can use an existing *loguru.Logger instance or create a new one
// from a *loguru.Config
type Builder struct {
	logger *loguru.Logger
	logCfg *loguru.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *loguru.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("loguru/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
// This is used only if an existing logger is NOT provided via WithLogger
// If neither WithLogger nor WithConfig is used, a default logger is created
func (b *Builder) WithConfig(cfg *loguru.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*loguru.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger != nil {
		return b.logger, nil
	}

	l, err := loguru.NewBuilder().WithConfig(b.logCfg).Build()
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
// It can be used for servers that require a standard gnet logger
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildSlogHandler creates a log/slog handler backed by the logger
func (b *Builder) BuildSlogHandler(opts ...SlogOption) (*SlogHandler, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewSlogHandler(l, opts...), nil
}

// GetLogger returns the underlying *loguru.Logger instance
// If a logger has not been provided or created yet, it will be initialized
func (b *Builder) GetLogger() (*loguru.Logger, error) {
	return b.getLogger()
}
