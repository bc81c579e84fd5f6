// Package writer persists generated changelog documents with safety
// features: an existing file is backed up before being replaced, and the
// replacement itself is a write-to-temp-then-rename so a crash mid-write
// never leaves a truncated changelog behind.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer writes changelog documents to disk.
type Writer struct {
	// Backup controls whether an existing file is renamed to a
	// timestamped backup before being replaced.
	Backup bool
	// now is overridable for tests; defaults to time.Now.
	now func() time.Time
}

// New creates a writer. Backups are enabled by default.
func New(backup bool) *Writer {
	return &Writer{Backup: backup, now: time.Now}
}

// Write stores content at path. When backups are enabled and the file
// already exists, it is first renamed to <name>.backup.<timestamp>.
// Returns the backup path, or "" when no backup was made.
func (w *Writer) Write(path, content string) (string, error) {
	backupPath := ""

	if w.Backup {
		bp, err := w.backupExisting(path)
		if err != nil {
			return "", err
		}
		backupPath = bp
	}

	if err := atomicWrite(path, content); err != nil {
		return "", err
	}

	return backupPath, nil
}

// backupExisting renames an existing file out of the way. A missing file
// is not an error; there is simply nothing to back up.
func (w *Writer) backupExisting(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("checking existing file: %w", err)
	}

	timestamp := w.clock()().Format("20060102_150405")
	backupPath := fmt.Sprintf("%s.backup.%s", path, timestamp)

	if err := os.Rename(path, backupPath); err != nil {
		return "", fmt.Errorf("backing up %s: %w", path, err)
	}
	return backupPath, nil
}

func (w *Writer) clock() func() time.Time {
	if w.now == nil {
		return time.Now
	}
	return w.now
}

// atomicWrite writes to a temp file in the target directory and renames
// it into place. Rename is atomic on POSIX filesystems.
func atomicWrite(path, content string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
