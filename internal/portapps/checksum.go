package portapps

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"lukechampine.com/blake3"
)

// b3sumFile hashes a file with BLAKE3 (32-byte output, no key).
func b3sumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyArchive compares an archive against its optional <path>.b3sum
// sidecar. A missing sidecar only warns; a mismatch is fatal since a
// truncated archive would otherwise extract partially.
func VerifyArchive(path string) error {
	sidecar := path + ".b3sum"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		cPrintf(colWarn, "no checksum file for %s, skipping verification\n", path)
		return nil
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return fmt.Errorf("checksum file %s is empty", sidecar)
	}
	expected := strings.ToLower(fields[0])

	actual, err := b3sumFile(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("checksum mismatch for %s (expected %s, got %s)", path, expected, actual)
	}
	debugf("checksum verified for %s\n", path)
	return nil
}
