//go:build linux

package utils

import (
	"fmt"
	"path/filepath"
	"syscall"
)

// CheckDiskSpace verifies the filesystem holding path's parent directory
// has room for a whisper model (checked once at startup against
// model_path; the chunk queue and worker IPC write nothing comparably
// large afterward).
func CheckDiskSpace(path string) error {
	dir := filepath.Dir(path)
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return err
	}

	available := stat.Bavail * uint64(stat.Bsize)
	const requiredSpace uint64 = 100 * 1024 * 1024
	if available < requiredSpace {
		return fmt.Errorf("insufficient disk space: %d bytes available, %d required", available, requiredSpace)
	}
	return nil
}
