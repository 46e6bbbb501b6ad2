package yw7

import (
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"

	"github.com/plotloom/plotloom/core/errors"
)

// Fingerprint returns the hex BLAKE3 digest of raw document bytes. It lets
// callers detect whether a project changed on disk since it was loaded.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsLocked reports whether an advisory lock file exists beside the project.
// yWriter and its companion tools create the lock while a project is open.
func (f *File) IsLocked() bool {
	_, err := os.Stat(f.Path + lockSuffix)
	return err == nil
}

// Read loads and parses the project from disk.
func (f *File) Read() error {
	if f.IsLocked() {
		return &errors.LockedError{Path: f.Path}
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return &errors.IOError{Op: "read", Path: f.Path, Err: err}
	}
	return f.ReadBytes(data)
}

// Write renders the Novel and replaces the file on disk. The previous file
// is kept as a backup and restored if the write fails partway.
func (f *File) Write() error {
	if f.IsLocked() {
		return &errors.LockedError{Path: f.Path}
	}
	data, err := f.WriteBytes()
	if err != nil {
		return err
	}

	backup := f.Path + backupSuffix
	backedUp := false
	if _, err := os.Stat(f.Path); err == nil {
		if err := os.Rename(f.Path, backup); err != nil {
			return &errors.IOError{Op: "backup", Path: f.Path, Err: err}
		}
		backedUp = true
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		if backedUp {
			os.Rename(backup, f.Path)
		}
		return &errors.IOError{Op: "write", Path: f.Path, Err: err}
	}
	return nil
}
