// Package fingerprint hashes article body text for content-based
// duplicate detection.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// DefaultLength is the number of hex characters kept from the digest.
const DefaultLength = 16

// Hash returns the SHA-256 hex digest of content (UTF-8 bytes), truncated
// to length characters. A length of zero or less returns the full
// 64-character digest.
func Hash(content string, length int) string {
	sum := sha256.Sum256([]byte(content))
	digest := hex.EncodeToString(sum[:])
	if length > 0 && length < len(digest) {
		return digest[:length]
	}
	return digest
}
