// files.go implements the rolling backup and atomic swap of media files.
//
// Each media file gets at most one backup, named by inserting
// "_original" before the extension (video.mp4 -> video_original.mp4).
// The backup is created lazily before the first destructive edit and
// deleted once no crop gaps remain.

package resync

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// backupSuffix is inserted before the file extension.
const backupSuffix = "_original"

// BackupPath returns the rolling backup path for a media file.
func BackupPath(file string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + backupSuffix + ext
}

// IsBackup reports whether a path names a rolling backup file.
func IsBackup(file string) bool {
	ext := filepath.Ext(file)
	return strings.HasSuffix(strings.TrimSuffix(file, ext), backupSuffix)
}

// EnsureBackup creates the backup copy if it doesn't exist yet.
func EnsureBackup(file string) error {
	backup := BackupPath(file)
	if _, err := os.Stat(backup); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return copyFile(file, backup)
}

// HasBackup reports whether a backup exists for the file.
func HasBackup(file string) bool {
	_, err := os.Stat(BackupPath(file))
	return err == nil
}

// RestoreBackup copies the backup back over the file. A missing backup
// is a no-op: nothing was ever composed, so the file is already
// original.
func RestoreBackup(file string) error {
	backup := BackupPath(file)
	if _, err := os.Stat(backup); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	return copyFile(backup, file)
}

// RemoveBackup deletes the backup if present.
func RemoveBackup(file string) {
	_ = os.Remove(BackupPath(file))
}

// Swap atomically replaces dst with src. Rename is atomic when both
// live on the same filesystem, which holds since composed output is
// written next to the session media.
func Swap(src, dst string) error {
	return os.Rename(src, dst)
}

// copyFile copies src to a temp file beside dst, then renames it into
// place so a crash never leaves a torn copy.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
