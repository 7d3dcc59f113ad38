// FILE: loguru/util.go
package loguru

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// fmtErrorf wrapper, keeps every error from this package greppable.
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "loguru: ") {
		format = "loguru: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// callerSource reports the file (base name) and line of the caller,
// skip frames above this function.
func callerSource(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

// stderrReporter is the default sink error handler: failures on the
// emission path are never allowed to crash the host, so they go to
// stderr, prefixed for grepping.
func stderrReporter(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "loguru: ") {
		msg = "loguru: " + msg
	}
	fmt.Fprintln(os.Stderr, msg)
}
