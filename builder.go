// FILE: loguru/builder.go
package loguru

import (
	"os"
)

// Builder provides a fluent API for constructing a configured Logger.
// It wraps a Config and provides chainable methods for setting values;
// errors accumulate and surface at Build. Call order defines
// precedence: FromFile, then FromEnv, then explicit setters.
type Builder struct {
	cfg   *Config
	sinks []Sink // extra sinks attached verbatim
	err   error
}

// NewBuilder creates a builder seeded with the default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithConfig replaces the builder's configuration wholesale. A nil cfg
// resets to defaults. The config is cloned, later setter calls do not
// mutate the caller's copy.
func (b *Builder) WithConfig(cfg *Config) *Builder {
	if cfg == nil {
		b.cfg = DefaultConfig()
		return b
	}
	b.cfg = cfg.Clone()
	return b
}

// FromFile layers TOML file settings over the current configuration.
func (b *Builder) FromFile(path string) *Builder {
	if b.err != nil {
		return b
	}
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// FromEnv layers LOGURU_* environment variables over the current
// configuration.
func (b *Builder) FromEnv() *Builder {
	if b.err != nil {
		return b
	}
	applyEnvOverrides(b.cfg)
	return b
}

// Level sets the logger threshold.
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the logger threshold from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = level
	return b
}

// CaptureSource toggles caller file/line capture on the convenience
// methods.
func (b *Builder) CaptureSource(capture bool) *Builder {
	b.cfg.CaptureSource = capture
	return b
}

// UseColors toggles console colorization.
func (b *Builder) UseColors(colors bool) *Builder {
	b.cfg.UseColors = colors
	return b
}

// Format sets the text pattern.
func (b *Builder) Format(pattern string) *Builder {
	b.cfg.Format = pattern
	return b
}

// Encoder selects "text" or "json" output.
func (b *Builder) Encoder(encoder string) *Builder {
	b.cfg.Encoder = encoder
	return b
}

// EnableConsole toggles the console sink.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// File enables the file sink at the given path.
func (b *Builder) File(path string) *Builder {
	b.cfg.EnableFile = true
	b.cfg.FilePath = path
	return b
}

// RotationSizeKB sets the rotation threshold; 0 disables rotation.
func (b *Builder) RotationSizeKB(size int64) *Builder {
	b.cfg.RotationSizeKB = size
	return b
}

// RetentionCount sets how many rotated backups are kept.
func (b *Builder) RetentionCount(count int) *Builder {
	b.cfg.RetentionCount = count
	return b
}

// BufferSizeKB sets the file sink's write buffer size.
func (b *Builder) BufferSizeKB(size int) *Builder {
	b.cfg.BufferSizeKB = size
	return b
}

// AddSink attaches an externally constructed sink in addition to the
// configured built-ins.
func (b *Builder) AddSink(s Sink) *Builder {
	if s != nil {
		b.sinks = append(b.sinks, s)
	}
	return b
}

// Config returns a copy of the builder's current configuration.
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Build validates the configuration and constructs the Logger with its
// sinks attached.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}

	level, err := ParseLevel(b.cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(level)
	logger.SetCaptureSource(b.cfg.CaptureSource)

	if b.cfg.EnableConsole {
		var opts []SinkOption
		if b.cfg.ConsoleTarget == "stderr" {
			opts = append(opts, WithTarget(os.Stderr))
		}
		if b.cfg.Encoder == "json" {
			opts = append(opts, WithFormatter(NewJSONFormatter()))
		} else {
			opts = append(opts, WithFormatter(
				NewTextFormatter().WithPattern(b.cfg.Format).WithColors(b.cfg.UseColors)))
		}
		logger.AddSink(NewConsoleSink(opts...))
	}

	if b.cfg.EnableFile {
		opts := []SinkOption{
			WithBufferSize(b.cfg.BufferSizeKB * 1024),
		}
		// File output never carries ANSI codes.
		if b.cfg.Encoder == "json" {
			opts = append(opts, WithFormatter(NewJSONFormatter()))
		} else {
			opts = append(opts, WithFormatter(NewTextFormatter().WithPattern(b.cfg.Format)))
		}
		if b.cfg.RotationSizeKB > 0 {
			opts = append(opts, WithRotation(b.cfg.RotationSizeKB*1024, b.cfg.RetentionCount))
		}
		fileSink, err := NewFileSink(b.cfg.FilePath, opts...)
		if err != nil {
			return nil, err
		}
		logger.AddSink(fileSink)
	}

	for _, s := range b.sinks {
		logger.AddSink(s)
	}

	return logger, nil
}
