package fpgakit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"
)

// defaultMirrorURL is where package archives and the release index are
// published; FPGAKIT_MIRROR points installs elsewhere.
const defaultMirrorURL = "https://releases.fpgakit.dev"

// mirrorIndexFile is the JSON index at the mirror root.
const mirrorIndexFile = "index.json"

// mirrorPackage describes one package release on the mirror.
type mirrorPackage struct {
	Version string `json:"version"`
	// Files maps a platform string (e.g. "linux_x86_64") to the
	// archive file name for that platform.
	Files map[string]string `json:"files"`
	// Checksums maps an archive file name to its BLAKE3 digest.
	Checksums map[string]string `json:"checksums"`
}

// mirrorIndex is the top-level mirror catalog.
type mirrorIndex struct {
	// Latest is the newest released fpgakit version.
	Latest   string                   `json:"latest"`
	Packages map[string]mirrorPackage `json:"packages"`
}

// fetchMirrorIndex downloads and decodes the mirror catalog.
func fetchMirrorIndex(mirror string) (*mirrorIndex, error) {
	url := mirror + "/" + mirrorIndexFile

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("connection to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &unrecognizedStatusError{Code: resp.StatusCode, URL: url}
	}

	var index mirrorIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, fmt.Errorf("failed to decode mirror index from %s: %w", url, err)
	}
	return &index, nil
}

// platformString returns the platform identifier used in release file
// names, e.g. linux_x86_64, darwin_arm64, windows_amd64.
func platformString() string {
	arch := runtime.GOARCH
	if runtime.GOOS != "windows" {
		switch arch {
		case "amd64":
			arch = "x86_64"
		case "386":
			arch = "i686"
		case "arm64":
			arch = "aarch64"
		}
	} else if arch == "386" {
		arch = "x86"
	}
	return runtime.GOOS + "_" + arch
}
