// Package fsutil provides the file handling behind "reparse edit --write":
// snapshot reads, external modification checks, sidecar backups and atomic
// writes.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yaklabco/reparse/pkg/progress"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrModified indicates the file changed on disk after it was read.
	ErrModified = errors.New("file modified since it was read")
)

// FileInfo captures the state of a file when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the content.
	Hash [32]byte
}

// ReadFile reads a file and returns its content with a snapshot of its
// metadata for later modification checks.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := progress.Canceled(ctx); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// CheckModified reports whether the file changed since info was taken.
// Mod time and size are compared first; if they match the content is
// re-hashed. A deleted file counts as modified.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	changed, err := CheckModifiedQuick(ctx, info)
	if err != nil || changed {
		return changed, err
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// CheckModifiedQuick compares only mod time and size.
func CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := progress.Canceled(ctx); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	return !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size, nil
}

// WriteResult describes what SafeWrite did.
type WriteResult struct {
	Written    bool
	BackupPath string
}

// SafeWrite replaces the file described by info with content. It refuses
// with ErrModified when the file changed on disk since info was taken,
// creates a backup per backup, and skips the write when the content is
// unchanged. The original file mode is kept.
func SafeWrite(ctx context.Context, info *FileInfo, content []byte, backup BackupConfig) (WriteResult, error) {
	var result WriteResult

	modified, err := CheckModified(ctx, info)
	if err != nil {
		return result, err
	}
	if modified {
		return result, fmt.Errorf("%w: %s", ErrModified, info.Path)
	}
	if sha256.Sum256(content) == info.Hash {
		return result, nil
	}

	created, err := CreateBackup(ctx, info.Path, backup)
	if err != nil {
		return result, err
	}
	if created {
		result.BackupPath = BackupPath(info.Path, backup.Mode)
	}

	if err := WriteAtomic(ctx, info.Path, content, info.Mode.Perm()); err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}
