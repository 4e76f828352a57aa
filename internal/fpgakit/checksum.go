package fpgakit

import (
	"fmt"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// blake3SumFile computes the BLAKE3 digest (32-byte output, no key) of
// a file, hex encoded.
func blake3SumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer file.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// verifyChecksum compares a file against its expected BLAKE3 digest
// from the mirror index.
func verifyChecksum(path, expected string) error {
	got, err := blake3SumFile(path)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", path, expected, got)
	}
	return nil
}
