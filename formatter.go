// FILE: loguru/formatter.go
package loguru

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
)

// Formatter turns one record plus the caller's merged context into the
// bytes a sink emits. Implementations must be pure: no shared mutable
// state, one line (or one document) out per call.
type Formatter interface {
	Format(rec *Record, ctx Fields) []byte
}

// DefaultPattern mirrors the library's stock text layout.
const DefaultPattern = "{time} {level} {message}"

// defaultTimeFormat keeps millisecond precision without the noise of
// full nanosecond timestamps.
const defaultTimeFormat = "2006-01-02 15:04:05.000"

// formatRecord runs the formatter with the guarantees the error policy
// demands: a failed payload serialization or a panicking formatter
// degrades to the minimal fallback line instead of dropping the record.
func formatRecord(f Formatter, rec *Record, ctx Fields) (out []byte) {
	fallback := func() []byte {
		return append([]byte(rec.String()), '\n')
	}
	if rec.payloadErr != nil {
		return fallback()
	}
	if f == nil {
		return fallback()
	}
	defer func() {
		if r := recover(); r != nil {
			out = fallback()
		}
	}()
	out = f.Format(rec, ctx)
	if len(out) == 0 {
		out = fallback()
	}
	return out
}

// TextFormatter renders records through a pattern string. Recognized
// tokens: {time}, {level}, {module}, {location}, {message}, {metadata},
// {context}, {payload}. Unknown tokens pass through verbatim; an
// unterminated token makes the whole pattern malformed and the record
// falls back to the minimal format.
type TextFormatter struct {
	Pattern    string
	TimeFormat string
	Colors     bool
}

// NewTextFormatter returns a text formatter with the default pattern
// and no colorization.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		Pattern:    DefaultPattern,
		TimeFormat: defaultTimeFormat,
	}
}

// WithPattern sets the pattern string.
func (f *TextFormatter) WithPattern(pattern string) *TextFormatter {
	f.Pattern = pattern
	return f
}

// WithColors toggles ANSI colorization of the level token.
func (f *TextFormatter) WithColors(colors bool) *TextFormatter {
	f.Colors = colors
	return f
}

// WithTimeFormat sets the timestamp layout.
func (f *TextFormatter) WithTimeFormat(layout string) *TextFormatter {
	f.TimeFormat = layout
	return f
}

// Format implements Formatter.
func (f *TextFormatter) Format(rec *Record, ctx Fields) []byte {
	pattern := f.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	layout := f.TimeFormat
	if layout == "" {
		layout = defaultTimeFormat
	}

	buf := make([]byte, 0, 128+len(rec.Message))
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c != '{' {
			buf = append(buf, c)
			i++
			continue
		}
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			// Unterminated token: malformed pattern.
			panic("loguru: unterminated pattern token")
		}
		token := pattern[i+1 : i+end]
		i += end + 1

		switch token {
		case "time":
			buf = rec.Time.AppendFormat(buf, layout)
		case "level":
			if f.Colors {
				buf = append(buf, rec.Level.color()...)
				buf = append(buf, rec.Level.String()...)
				buf = append(buf, ansiReset...)
			} else {
				buf = append(buf, rec.Level.String()...)
			}
		case "module":
			buf = append(buf, rec.Module...)
		case "location":
			if rec.File != "" {
				buf = append(buf, rec.File...)
				buf = append(buf, ':')
				buf = strconv.AppendInt(buf, int64(rec.Line), 10)
			}
		case "message":
			buf = append(buf, rec.Message...)
		case "metadata":
			buf = appendMetadata(buf, rec.Meta)
		case "context":
			buf = appendContext(buf, ctx)
		case "payload":
			if len(rec.Payload) > 0 {
				buf = append(buf, rec.payloadKey...)
				buf = append(buf, '=')
				buf = append(buf, rec.Payload...)
			}
		default:
			// Unknown tokens pass through so templating stays forgiving.
			buf = append(buf, '{')
			buf = append(buf, token...)
			buf = append(buf, '}')
		}
	}

	// Appendices not covered by the pattern keep records self-contained.
	if !strings.Contains(pattern, "{metadata}") && len(rec.Meta) > 0 {
		buf = append(buf, ' ')
		buf = appendMetadata(buf, rec.Meta)
	}
	if !strings.Contains(pattern, "{context}") && len(ctx) > 0 {
		buf = append(buf, ' ')
		buf = appendContext(buf, ctx)
	}
	if !strings.Contains(pattern, "{payload}") && len(rec.Payload) > 0 {
		buf = append(buf, ' ')
		buf = append(buf, rec.payloadKey...)
		buf = append(buf, '=')
		buf = append(buf, rec.Payload...)
	}

	buf = append(buf, '\n')
	return buf
}

// appendMetadata writes key=value pairs in insertion order.
func appendMetadata(buf []byte, meta []Field) []byte {
	for i, kv := range meta {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, kv.Key...)
		buf = append(buf, '=')
		buf = appendTextValue(buf, kv.Value)
	}
	return buf
}

// appendContext writes context key=value pairs sorted by key so output
// is deterministic regardless of map iteration order.
func appendContext(buf []byte, ctx Fields) []byte {
	if len(ctx) == 0 {
		return buf
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = appendTextValue(buf, ctx[k])
	}
	return buf
}

// appendTextValue converts a value to its text representation. Types
// outside the supported set are dumped through spew so structure
// survives without corrupting the line.
func appendTextValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		if len(val) == 0 || strings.ContainsRune(val, ' ') {
			buf = append(buf, '"')
			buf = appendEscaped(buf, val)
			buf = append(buf, '"')
		} else {
			buf = append(buf, val...)
		}
	case int:
		buf = strconv.AppendInt(buf, int64(val), 10)
	case int64:
		buf = strconv.AppendInt(buf, val, 10)
	case uint:
		buf = strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		buf = strconv.AppendUint(buf, val, 10)
	case float32:
		buf = strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		buf = strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		buf = strconv.AppendBool(buf, val)
	case nil:
		buf = append(buf, "null"...)
	case time.Time:
		buf = val.AppendFormat(buf, time.RFC3339Nano)
	case error:
		buf = append(buf, '"')
		buf = appendEscaped(buf, val.Error())
		buf = append(buf, '"')
	case fmt.Stringer:
		buf = append(buf, val.String()...)
	case Fields:
		// Nested scopes render as compact JSON.
		if data, err := json.Marshal(val); err == nil {
			buf = append(buf, data...)
		} else {
			buf = append(buf, "{}"...)
		}
	default:
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		buf = append(buf, bytes.TrimSpace(b.Bytes())...)
	}
	return buf
}

// JSONFormatter renders records as one JSON document per line. Metadata
// keeps insertion order; context keys are sorted by the JSON encoder.
type JSONFormatter struct {
	TimeFormat string
}

// NewJSONFormatter returns a JSON formatter using RFC3339Nano timestamps.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimeFormat: time.RFC3339Nano}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(rec *Record, ctx Fields) []byte {
	layout := f.TimeFormat
	if layout == "" {
		layout = time.RFC3339Nano
	}

	buf := make([]byte, 0, 192+len(rec.Message))
	buf = append(buf, `{"time":"`...)
	buf = rec.Time.AppendFormat(buf, layout)
	buf = append(buf, `","level":"`...)
	buf = append(buf, rec.Level.String()...)
	buf = append(buf, `","message":"`...)
	buf = appendEscaped(buf, rec.Message)
	buf = append(buf, '"')

	if rec.Module != "" {
		buf = append(buf, `,"module":"`...)
		buf = appendEscaped(buf, rec.Module)
		buf = append(buf, '"')
	}
	if rec.File != "" {
		buf = append(buf, `,"source":"`...)
		buf = appendEscaped(buf, rec.File)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(rec.Line), 10)
		buf = append(buf, '"')
	}

	if len(rec.Meta) > 0 {
		buf = append(buf, `,"metadata":{`...)
		for i, kv := range rec.Meta {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '"')
			buf = appendEscaped(buf, kv.Key)
			buf = append(buf, `":"`...)
			buf = appendEscaped(buf, kv.Value)
			buf = append(buf, '"')
		}
		buf = append(buf, '}')
	}

	if len(ctx) > 0 {
		if data, err := json.Marshal(ctx); err == nil {
			buf = append(buf, `,"context":`...)
			buf = append(buf, data...)
		} else {
			buf = append(buf, `,"context_error":"`...)
			buf = appendEscaped(buf, err.Error())
			buf = append(buf, '"')
		}
	}

	if len(rec.Payload) > 0 {
		buf = append(buf, `,"`...)
		buf = appendEscaped(buf, rec.payloadKey)
		buf = append(buf, `":`...)
		buf = append(buf, rec.Payload...)
	}

	buf = append(buf, '}', '\n')
	return buf
}

const hexChars = "0123456789abcdef"

// appendEscaped appends str with JSON special characters escaped.
func appendEscaped(buf []byte, str string) []byte {
	for i := 0; i < len(str); {
		if c := str[i]; c < ' ' || c == '"' || c == '\\' {
			switch c {
			case '\\', '"':
				buf = append(buf, '\\', c)
			case '\n':
				buf = append(buf, '\\', 'n')
			case '\r':
				buf = append(buf, '\\', 'r')
			case '\t':
				buf = append(buf, '\\', 't')
			case '\b':
				buf = append(buf, '\\', 'b')
			case '\f':
				buf = append(buf, '\\', 'f')
			default:
				buf = append(buf, `\u00`...)
				buf = append(buf, hexChars[c>>4], hexChars[c&0xF])
			}
			i++
		} else {
			start := i
			for i < len(str) && str[i] >= ' ' && str[i] != '"' && str[i] != '\\' {
				i++
			}
			buf = append(buf, str[start:i]...)
		}
	}
	return buf
}
