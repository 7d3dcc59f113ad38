// FILE: loguru/rotation.go
package loguru

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// rotator owns one logical log destination: the active file handle,
// the byte counter that drives rollover, and the retention policy over
// rotated backups. All methods assume the owning sink's mutex is held.
type rotator struct {
	path string
	dir  string
	base string // filename without extension
	ext  string // extension including the dot, may be empty

	threshold int64 // 0 disables rotation
	retain    int

	file    *os.File
	w       *bufio.Writer
	bufSize int
	written int64 // bytes in the active file
	total   int64 // bytes written across rotations

	report func(error)

	rotations int64
	deletions int64
}

func newRotator(path string, threshold int64, retain, bufSize int, report func(error)) *rotator {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return &rotator{
		path:      path,
		dir:       dir,
		base:      strings.TrimSuffix(name, ext),
		ext:       ext,
		threshold: threshold,
		retain:    retain,
		bufSize:   bufSize,
		report:    report,
	}
}

// open creates or appends the active file at the configured path and
// seeds the byte counter from its current size.
func (r *rotator) open() error {
	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open log file '%s': %w", r.path, err)
	}
	r.file = file
	r.w = bufio.NewWriterSize(file, r.bufSize)
	r.written = 0
	if fi, errStat := file.Stat(); errStat == nil {
		r.written = fi.Size()
	}
	return nil
}

// write appends p to the active file, rotating first when the write
// would push the file past the threshold. The rotation that a write
// triggers always completes (or degrades) before that write lands.
func (r *rotator) write(p []byte) error {
	if r.file == nil {
		if err := r.open(); err != nil {
			return err
		}
	}
	if r.threshold > 0 && r.written > 0 && r.written+int64(len(p)) > r.threshold {
		r.rotate()
		// Rotation can degrade to no open handle. Retry the open so the
		// triggering write either lands in a fresh file or fails loudly.
		if r.file == nil {
			if err := r.open(); err != nil {
				return err
			}
		}
	}
	n, err := r.w.Write(p)
	r.written += int64(n)
	r.total += int64(n)
	if err != nil {
		return fmtErrorf("failed to write log file '%s': %w", r.path, err)
	}
	return nil
}

// rotate closes the active file, renames it to a timestamped backup,
// prunes old backups past the retention count, and opens a fresh file
// at the original path. On rename failure the original file is
// reopened and writing continues past the size bound: availability
// wins over strict limits, and the failure goes to the error handler.
func (r *rotator) rotate() {
	if err := r.w.Flush(); err != nil {
		r.report(fmtErrorf("flush before rotation failed: %w", err))
	}
	if err := r.file.Close(); err != nil {
		r.report(fmtErrorf("close before rotation failed: %w", err))
	}

	backup := filepath.Join(r.dir, r.backupName(time.Now()))
	if err := os.Rename(r.path, backup); err != nil {
		r.report(fmtErrorf("failed to rotate '%s' to '%s': %w", r.path, backup, err))
		// Reopen and keep the oversized file rather than lose records.
		file, openErr := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if openErr != nil {
			r.report(fmtErrorf("failed to reopen '%s' after rotation failure: %w", r.path, openErr))
			r.file = nil
			r.w = nil
			return
		}
		r.file = file
		r.w = bufio.NewWriterSize(file, r.bufSize)
		return
	}

	r.prune()

	if err := r.open(); err != nil {
		r.report(err)
		r.file = nil
		r.w = nil
		return
	}
	r.rotations++
}

// prune deletes the oldest backups until at most retain remain.
func (r *rotator) prune() {
	backups, err := r.listBackups()
	if err != nil {
		r.report(err)
		return
	}
	for len(backups) > r.retain {
		victim := backups[0]
		backups = backups[1:]
		if err := os.Remove(filepath.Join(r.dir, victim.name)); err != nil {
			r.report(fmtErrorf("failed to remove old log file '%s': %w", victim.name, err))
			continue
		}
		r.deletions++
	}
}

type backupMeta struct {
	name    string
	modTime time.Time
}

// listBackups returns rotated files for this destination, oldest first.
func (r *rotator) listBackups() ([]backupMeta, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmtErrorf("failed to read log directory '%s': %w", r.dir, err)
	}

	activeName := filepath.Base(r.path)
	prefix := r.base + "_"
	var backups []backupMeta
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == activeName || !strings.HasPrefix(name, prefix) {
			continue
		}
		if r.ext != "" && filepath.Ext(name) != r.ext {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		backups = append(backups, backupMeta{name: name, modTime: info.ModTime()})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].modTime.Equal(backups[j].modTime) {
			return backups[i].name < backups[j].name
		}
		return backups[i].modTime.Before(backups[j].modTime)
	})
	return backups, nil
}

// backupName builds the timestamped filename rotation renames into.
// The fixed-width nanosecond field keeps names unique and sortable.
func (r *rotator) backupName(ts time.Time) string {
	stamp := ts.Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%09d%s", r.base, stamp, ts.Nanosecond(), r.ext)
}

// flush pushes buffered bytes to the OS and syncs the file.
func (r *rotator) flush() error {
	if r.file == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		return fmtErrorf("failed to flush log file '%s': %w", r.path, err)
	}
	if err := r.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", r.path, err)
	}
	return nil
}

// close flushes and releases the handle. Flushing happens even when
// the close itself fails, so buffered records always get their chance
// to reach disk on teardown.
func (r *rotator) close() error {
	if r.file == nil {
		return nil
	}
	flushErr := r.flush()
	closeErr := r.file.Close()
	r.file = nil
	r.w = nil
	if closeErr != nil {
		closeErr = fmtErrorf("failed to close log file '%s': %w", r.path, closeErr)
	}
	return combineErrors(flushErr, closeErr)
}
