package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/pkg/fsutil"
	"github.com/yaklabco/reparse/pkg/progress"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("hello"), 0))

		assert.Equal(t, "hello", readFile(t, path))
		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
	})

	t.Run("overwrites and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.md")
		writeFile(t, path, "original")

		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("updated"), 0o600))
		assert.Equal(t, "updated", readFile(t, path))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "doc.md")
		require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "doc.md"), []byte("x"), 0)
		require.ErrorIs(t, err, progress.ErrCanceled)
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, written, "missing file is written")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, written, "same content is skipped")

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "b", readFile(t, path))
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	writeFile(t, path, "content")

	content, info, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
	assert.Equal(t, path, info.Path)
	assert.EqualValues(t, 7, info.Size)

	_, _, err = fsutil.ReadFile(ctx, filepath.Join(dir, "missing.md"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "same")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("same size and time but different content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "aaaa")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		writeFile(t, path, "bbbb")
		require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))

		quick, err := fsutil.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.False(t, quick)

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "x")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, path, "first")

	created, err := fsutil.CreateBackup(ctx, path, fsutil.DefaultBackupConfig())
	require.NoError(t, err)
	assert.False(t, created, "backups are off by default")

	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
	assert.Equal(t, "first", readFile(t, path+fsutil.BackupSuffix))

	writeFile(t, path, "second")
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created, "existing backup is kept")
	assert.Equal(t, "first", readFile(t, path+fsutil.BackupSuffix))

	assert.Empty(t, fsutil.BackupPath(path, fsutil.BackupModeNone))
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeNone))
}

func TestSafeWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("writes with backup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "old")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		result, err := fsutil.SafeWrite(ctx, info, []byte("new"), fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.Equal(t, path+fsutil.BackupSuffix, result.BackupPath)
		assert.Equal(t, "new", readFile(t, path))
		assert.Equal(t, "old", readFile(t, result.BackupPath))
	})

	t.Run("unchanged content is not written", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "same")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		result, err := fsutil.SafeWrite(ctx, info, []byte("same"), fsutil.DefaultBackupConfig())
		require.NoError(t, err)
		assert.False(t, result.Written)
	})

	t.Run("refuses when changed on disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, path, "old")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		writeFile(t, path, "someone else")
		later := info.ModTime.Add(time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		_, err = fsutil.SafeWrite(ctx, info, []byte("new"), fsutil.DefaultBackupConfig())
		require.ErrorIs(t, err, fsutil.ErrModified)
		assert.Equal(t, "someone else", readFile(t, path))
	})
}
