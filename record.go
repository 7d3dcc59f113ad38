// FILE: loguru/record.go
package loguru

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Field is one metadata key-value pair. Metadata preserves insertion
// order, which a plain map cannot guarantee.
type Field struct {
	Key   string
	Value string
}

// Record is a single log occurrence. It is built by the caller, chained
// through the With* methods, and becomes read-only once handed to
// Logger.Log: dispatch never mutates it.
type Record struct {
	Level   Level
	Message string
	Module  string
	File    string
	Line    int

	// Time carries both wall clock and monotonic readings, which is
	// what time.Now returns.
	Time time.Time

	Meta []Field

	// Payload is an optional serialized JSON document attached via
	// WithStructured. payloadErr remembers a failed serialization so
	// formatting can fall back instead of dropping the record.
	Payload    []byte
	payloadKey string
	payloadErr error
}

// NewRecord creates a record at the given level with the current time
// and no metadata.
func NewRecord(level Level, message string) *Record {
	return &Record{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	}
}

// WithModule sets the originating module name.
func (r *Record) WithModule(module string) *Record {
	r.Module = module
	return r
}

// WithSource sets the source file and line the record originated from.
func (r *Record) WithSource(file string, line int) *Record {
	r.File = file
	r.Line = line
	return r
}

// WithMetadata appends a key-value pair. Calling it twice with the same
// key keeps both entries; formatters emit them in insertion order and
// Metadata lookup returns the latest.
func (r *Record) WithMetadata(key, value string) *Record {
	r.Meta = append(r.Meta, Field{Key: key, Value: value})
	return r
}

// WithStructured serializes v to JSON and attaches it as the record's
// structured payload under the given key. A serialization failure does
// not drop the record: the failure is remembered and the record is
// emitted with the fallback minimal format.
func (r *Record) WithStructured(key string, v any) *Record {
	r.payloadKey = key
	data, err := json.Marshal(v)
	if err != nil {
		r.payloadErr = err
		return r
	}
	r.Payload = data
	return r
}

// Metadata returns the last value recorded for key, and whether the key
// is present at all.
func (r *Record) Metadata(key string) (string, bool) {
	for i := len(r.Meta) - 1; i >= 0; i-- {
		if r.Meta[i].Key == key {
			return r.Meta[i].Value, true
		}
	}
	return "", false
}

// PayloadKey returns the key the structured payload was attached under.
func (r *Record) PayloadKey() string {
	return r.payloadKey
}

// String renders the record in the minimal fallback format. The same
// format is used when a configured formatter fails.
func (r *Record) String() string {
	buf := make([]byte, 0, 64+len(r.Message))
	buf = r.Time.AppendFormat(buf, time.RFC3339Nano)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	if r.File != "" {
		buf = append(buf, ' ')
		buf = append(buf, r.File...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(r.Line), 10)
	}
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	return string(buf)
}
