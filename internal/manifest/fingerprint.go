package manifest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a hex-encoded SHA-256 digest of the exact byte
// content of the manifest text. It is used only for change detection:
// the caller keeps the last fingerprint and skips re-processing when an
// identical manifest is submitted again.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Changed reports whether text differs from the manifest that produced
// the previous fingerprint. An empty previous fingerprint always counts
// as changed.
func Changed(previous, text string) bool {
	if previous == "" {
		return true
	}
	return Fingerprint(text) != previous
}
