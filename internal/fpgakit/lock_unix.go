//go:build !windows

package fpgakit

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// withDownloadLock holds an exclusive flock on <path>.lock around fn,
// so a second fpgakit process downloading the same archive blocks
// instead of corrupting the file.
func withDownloadLock(path string, fn func() error) error {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire lock for download: %w", err)
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)
	defer os.Remove(lockPath)

	return fn()
}
