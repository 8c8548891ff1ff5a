package fsutil

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/reparse/pkg/progress"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the file with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is the suffix used for sidecar backup files.
const BackupSuffix = ".reparse.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the defaults: sidecar mode, disabled.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// BackupPath returns the backup path for path, or "" when mode disables
// backups. Unknown modes behave like sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup copies path to its backup location unless a backup already
// exists there. It reports whether a backup was written. An existing backup
// is never overwritten, so repeated edits keep the first original.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}
	if err := progress.Canceled(ctx); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	if _, err := os.Stat(backupPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat original for backup: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, stat.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// BackupExists reports whether a backup exists for path.
func BackupExists(path string, mode BackupMode) bool {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false
	}
	_, err := os.Stat(backupPath)
	return err == nil
}
