// FILE: loguru/compat/compat_test.go
package compat

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-raghavan/loguru"
)

// newTestLogger wires a trace-level logger to a buffer so adapter
// output can be inspected.
func newTestLogger(pattern string) (*loguru.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := loguru.NewLogger(loguru.LevelTrace)
	logger.AddSink(loguru.NewConsoleSink(
		loguru.WithTarget(&buf),
		loguru.WithFormatter(loguru.NewTextFormatter().WithPattern(pattern)),
	))
	return logger, &buf
}

// TestBuilderWithLogger verifies adapter construction around an
// existing logger
func TestBuilderWithLogger(t *testing.T) {
	logger, _ := newTestLogger("{message}")

	b := NewBuilder().WithLogger(logger)
	gnetAdapter, err := b.BuildGnet()
	require.NoError(t, err)
	assert.NotNil(t, gnetAdapter)

	fasthttpAdapter, err := b.BuildFastHTTP()
	require.NoError(t, err)
	assert.NotNil(t, fasthttpAdapter)

	got, err := b.GetLogger()
	require.NoError(t, err)
	assert.Same(t, logger, got)
}

// TestBuilderNilLogger verifies the recorded error surfaces at build
func TestBuilderNilLogger(t *testing.T) {
	_, err := NewBuilder().WithLogger(nil).BuildGnet()
	assert.Error(t, err)
}

// TestBuilderWithConfig verifies a fresh logger is created from config
// and cached across builds
func TestBuilderWithConfig(t *testing.T) {
	cfg := loguru.DefaultConfig()
	cfg.Level = "error"
	cfg.EnableConsole = false

	b := NewBuilder().WithConfig(cfg)
	first, err := b.GetLogger()
	require.NoError(t, err)
	assert.Equal(t, loguru.LevelError, first.Level())

	second, err := b.GetLogger()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

// TestGnetAdapterLevels verifies each printf method maps to its level
func TestGnetAdapterLevels(t *testing.T) {
	logger, buf := newTestLogger("{level} {message}")
	adapter := NewGnetAdapter(logger)

	adapter.Debugf("conn %d", 1)
	adapter.Infof("listening on %s", ":9000")
	adapter.Warnf("slow accept")
	adapter.Errorf("accept failed")

	out := buf.String()
	assert.Contains(t, out, "DEBUG conn 1")
	assert.Contains(t, out, "INFO listening on :9000")
	assert.Contains(t, out, "WARNING slow accept")
	assert.Contains(t, out, "ERROR accept failed")
	assert.Contains(t, out, "source=gnet")
}

// TestGnetAdapterFatalf verifies the fatal handler fires after logging
func TestGnetAdapterFatalf(t *testing.T) {
	logger, buf := newTestLogger("{level} {message}")

	var fatalMsg string
	adapter := NewGnetAdapter(logger, WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))

	adapter.Fatalf("listener died: %v", "EMFILE")
	assert.Equal(t, "listener died: EMFILE", fatalMsg)
	assert.Contains(t, buf.String(), "CRITICAL listener died: EMFILE")
}

// TestFastHTTPAdapterDetection verifies level detection from message
// content
func TestFastHTTPAdapterDetection(t *testing.T) {
	logger, buf := newTestLogger("{level} {message}")
	adapter := NewFastHTTPAdapter(logger)

	adapter.Printf("error serving conn")
	adapter.Printf("warning: deprecated option")
	adapter.Printf("debug dump follows")
	adapter.Printf("request handled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ERROR"))
	assert.True(t, strings.HasPrefix(lines[1], "WARNING"))
	assert.True(t, strings.HasPrefix(lines[2], "DEBUG"))
	assert.True(t, strings.HasPrefix(lines[3], "INFO"))
}

// TestFastHTTPAdapterOptions verifies default level and custom detector
func TestFastHTTPAdapterOptions(t *testing.T) {
	logger, buf := newTestLogger("{level} {message}")
	adapter := NewFastHTTPAdapter(logger,
		WithDefaultLevel(loguru.LevelSuccess),
		WithLevelDetector(func(string) loguru.Level { return 0 }),
	)

	adapter.Printf("anything at all")
	assert.True(t, strings.HasPrefix(buf.String(), "SUCCESS"))
}

// TestDetectLogLevel verifies the stock keyword heuristics
func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg  string
		want loguru.Level
	}{
		{"connection FAILED", loguru.LevelError},
		{"panic recovered", loguru.LevelError},
		{"Warning: retrying", loguru.LevelWarning},
		{"deprecated API used", loguru.LevelWarning},
		{"trace enabled", loguru.LevelDebug},
		{"plain message", loguru.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLogLevel(tt.msg), tt.msg)
	}
}

// TestSlogHandler verifies the slog bridge maps levels and flattens
// attributes
func TestSlogHandler(t *testing.T) {
	logger, buf := newTestLogger("{level} {message} {metadata}")
	sl := slog.New(NewSlogHandler(logger))

	sl.Info("request done", "status", 200)
	sl.Error("request failed", slog.Group("req", slog.String("method", "GET")))

	out := buf.String()
	assert.Contains(t, out, "INFO request done")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "ERROR request failed")
	assert.Contains(t, out, "req.method=GET")
}

// TestSlogHandlerWithAttrsAndGroup verifies accumulated attrs carry the
// group prefix onto every record
func TestSlogHandlerWithAttrsAndGroup(t *testing.T) {
	logger, buf := newTestLogger("{message} {metadata}")
	sl := slog.New(NewSlogHandler(logger)).
		With("service", "api").
		WithGroup("conn").
		With("id", 42)

	sl.Warn("slow", "elapsed_ms", 130)

	out := buf.String()
	assert.Contains(t, out, "service=api")
	assert.Contains(t, out, "conn.id=42")
	assert.Contains(t, out, "conn.elapsed_ms=130")
}

// TestSlogHandlerWithAttrsGroupValue verifies group-valued attrs bound
// ahead of time flatten into dotted keys the same way record attrs do
func TestSlogHandlerWithAttrsGroupValue(t *testing.T) {
	logger, buf := newTestLogger("{message} {metadata}")
	sl := slog.New(NewSlogHandler(logger)).
		With(slog.Group("db", slog.String("driver", "pgx"), slog.Int("pool", 8))).
		WithGroup("query")

	sl.Info("executed", "rows", 3)

	out := buf.String()
	assert.Contains(t, out, "db.driver=pgx")
	assert.Contains(t, out, "db.pool=8")
	assert.Contains(t, out, "query.rows=3")
	assert.NotContains(t, out, "db=[")
}

// TestSlogHandlerEnabled verifies threshold mapping
func TestSlogHandlerEnabled(t *testing.T) {
	logger := loguru.NewLogger(loguru.LevelWarning)
	h := NewSlogHandler(logger)

	ctx := t.Context()
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))
}
