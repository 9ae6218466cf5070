package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// backupSuffix is appended to a keg path to get its backup location.
const backupSuffix = ".reinstall"

// KegState is where a keg sits in the reinstall lifecycle.
type KegState int

const (
	KegAbsent KegState = iota
	KegInstalled
	KegBackedUp
)

func (s KegState) String() string {
	switch s {
	case KegInstalled:
		return "installed"
	case KegBackedUp:
		return "backed-up"
	default:
		return "absent"
	}
}

// Keg is an installed formula version directory, e.g.
// <prefix>/Cellar/foo/1.2.3, as resolved through its opt link.
type Keg struct {
	Path string
}

// BackupPath returns the reserved backup location for a keg path.
func BackupPath(path string) string {
	return path + backupSuffix
}

// FindKeg resolves optPrefix to the keg it points at. It returns nil when
// there is no keg directory behind it.
func FindKeg(optPrefix string) (*Keg, error) {
	info, err := os.Stat(optPrefix)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", optPrefix, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	path, err := filepath.EvalSymlinks(optPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", optPrefix, err)
	}
	return &Keg{Path: path}, nil
}

// BackupPath returns this keg's backup location.
func (k *Keg) BackupPath() string {
	return BackupPath(k.Path)
}

// State inspects the filesystem. A backup takes precedence: while it exists
// the keg counts as backed up even if a new install occupies Path.
func (k *Keg) State() KegState {
	if isDir(k.BackupPath()) {
		return KegBackedUp
	}
	if isDir(k.Path) {
		return KegInstalled
	}
	return KegAbsent
}

// HasBackup reports whether a backup directory exists.
func (k *Keg) HasBackup() bool {
	return isDir(k.BackupPath())
}

// moveToBackup renames the keg to its backup path, clearing any stale backup
// first so only one backup exists per keg.
func (k *Keg) moveToBackup() error {
	backup := k.BackupPath()
	if err := os.RemoveAll(backup); err != nil {
		return fmt.Errorf("failed to clear stale backup %s: %w", backup, err)
	}
	if err := os.Rename(k.Path, backup); err != nil {
		return fmt.Errorf("failed to back up %s: %w", k.Path, err)
	}
	return nil
}

// restoreBackup moves the backup back to the keg path, discarding anything a
// failed install left there. It reports whether a backup was restored.
func (k *Keg) restoreBackup() (bool, error) {
	backup := k.BackupPath()
	if !isDir(backup) {
		return false, nil
	}
	if err := os.RemoveAll(k.Path); err != nil {
		return false, fmt.Errorf("failed to clear partial install at %s: %w", k.Path, err)
	}
	if err := os.Rename(backup, k.Path); err != nil {
		return false, fmt.Errorf("failed to restore %s: %w", backup, err)
	}
	return true, nil
}

// discardBackup deletes the backup permanently.
func (k *Keg) discardBackup() error {
	backup := k.BackupPath()
	if err := os.RemoveAll(backup); err != nil {
		return fmt.Errorf("failed to remove backup %s: %w", backup, err)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
