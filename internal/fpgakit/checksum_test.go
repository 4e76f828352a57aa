package fpgakit

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"lukechampine.com/blake3"
)

func TestBlake3SumFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	data := []byte("toolchain release payload")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	sum := blake3.Sum256(data)
	want := hex.EncodeToString(sum[:])

	got, err := blake3SumFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("blake3SumFile = %s, want %s", got, want)
	}

	if err := verifyChecksum(path, want); err != nil {
		t.Errorf("verifyChecksum rejected a matching digest: %v", err)
	}
	if err := verifyChecksum(path, "deadbeef"); err == nil {
		t.Error("verifyChecksum accepted a wrong digest")
	}
}

func TestBlake3SumFileMissing(t *testing.T) {
	if _, err := blake3SumFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("blake3SumFile succeeded on a missing file")
	}
}
