//go:build windows

package fpgakit

// No flock on Windows; the exclusive-write open in the downloader is
// the only guard there.
func withDownloadLock(path string, fn func() error) error {
	return fn()
}
