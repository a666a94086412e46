package uploadrules

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the hex xxhash64 of the file at path. It is a
// correlation key for logs, not a security checksum.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return FingerprintReader(f)
}

// FingerprintReader returns the hex xxhash64 of everything read from r.
func FingerprintReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to calculate fingerprint: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
