// Package reportfile persists the plain-text run report.
//
// The report is fully overwritten on every run. The write holds an exclusive
// advisory lock on a sibling ".lock" file so two runs sharing a state
// directory cannot interleave their reports, and it goes through a temporary
// file and a rename so a reader never sees a half-written report.
package reportfile

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/musiclib/libsync/pkg/errors"
)

// LockPath returns the lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// Write replaces the report at path with content.
func Write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to create report directory for %s", path).
			WithDetail("path", path)
	}

	lock := flock.New(LockPath(path))
	locked, err := lock.TryLock()
	if err != nil {
		return errors.Wrapf(err, errors.ErrReportLock, "failed to lock report %s", path).
			WithDetail("path", path)
	}
	if !locked {
		return errors.Newf(errors.ErrReportLock, "report %s is locked by another run", path).
			WithDetail("path", path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to write report %s", path).
			WithDetail("path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrReportWrite, "failed to replace report %s", path).
			WithDetail("path", path)
	}
	return nil
}
