// FILE: loguru/config.go
package loguru

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds every construction-time setting. It is a plain struct:
// file and environment loading produce one, the Builder consumes one.
// Precedence is defaults < file < environment < explicit builder calls.
type Config struct {
	// Basic settings
	Level         string `toml:"level"`
	CaptureSource bool   `toml:"capture_source"`
	UseColors     bool   `toml:"use_colors"`
	Format        string `toml:"format"`  // pattern string for the text encoder
	Encoder       string `toml:"encoder"` // "text" or "json"

	// Console sink
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// File sink
	EnableFile     bool   `toml:"enable_file"`
	FilePath       string `toml:"file_path"`
	RotationSizeKB int64  `toml:"rotation_size_kb"` // 0 disables rotation
	RetentionCount int    `toml:"retention_count"`
	BufferSizeKB   int    `toml:"buffer_size_kb"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:         "info",
	CaptureSource: true,
	UseColors:     true,
	Format:        DefaultPattern,
	Encoder:       "text",

	EnableConsole: true,
	ConsoleTarget: "stdout",

	EnableFile:     false,
	FilePath:       "./logs/app.log",
	RotationSizeKB: 10240,
	RetentionCount: 5,
	BufferSizeKB:   32,
}

// DefaultConfig returns a copy of the default configuration.
func DefaultConfig() *Config {
	copied := defaultConfig
	return &copied
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	copied := *c
	return &copied
}

// validate performs validation on the configuration.
func (c *Config) validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Encoder != "text" && c.Encoder != "json" {
		return fmtErrorf("invalid encoder: '%s' (use text or json)", c.Encoder)
	}
	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}
	if strings.TrimSpace(c.Format) == "" {
		return fmtErrorf("format cannot be empty")
	}
	if c.EnableFile && strings.TrimSpace(c.FilePath) == "" {
		return fmtErrorf("file_path cannot be empty when file output is enabled")
	}
	if c.RotationSizeKB < 0 {
		return fmtErrorf("rotation_size_kb cannot be negative: %d", c.RotationSizeKB)
	}
	if c.RotationSizeKB > 0 && c.RetentionCount <= 0 {
		return fmtErrorf("retention_count must be positive when rotation is enabled: %d", c.RetentionCount)
	}
	if c.BufferSizeKB <= 0 {
		return fmtErrorf("buffer_size_kb must be positive: %d", c.BufferSizeKB)
	}
	return nil
}

// NewConfigFromFile loads configuration from a TOML file on top of the
// defaults and returns a validated Config. A missing file is not an
// error: defaults apply.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmt.Errorf("loguru: failed to register config struct: %w", err)
	}
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loguru: failed to load config from %s: %w", path, err)
	}
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmt.Errorf("loguru: failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// extractConfig copies values from the loader into cfg, keyed by each
// field's toml tag.
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}
		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}
		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// setFieldValue sets a reflect.Value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int, reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

// applyEnvOverrides applies LOGURU_* environment variables on top of
// cfg. Environment beats file-based settings, explicit builder calls
// beat both.
func applyEnvOverrides(cfg *Config) {
	if level, ok := os.LookupEnv("LOGURU_LEVEL"); ok {
		if _, err := ParseLevel(level); err == nil {
			cfg.Level = level
		}
	}
	if capture, ok := os.LookupEnv("LOGURU_CAPTURE_SOURCE"); ok {
		cfg.CaptureSource = isEnvTrue(capture)
	}
	if colors, ok := os.LookupEnv("LOGURU_USE_COLORS"); ok {
		cfg.UseColors = isEnvTrue(colors)
	}
	if format, ok := os.LookupEnv("LOGURU_FORMAT"); ok && format != "" {
		cfg.Format = format
	}
}

func isEnvTrue(s string) bool {
	switch s {
	case "1", "true", "TRUE", "True":
		return true
	default:
		return false
	}
}
