// Package hash computes content digests for plans and export files.
//
// A saved plan carries the SHA-256 of its slots, archives repeat it in their
// header, and every export reports the digest of the file it wrote.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher computes hex-encoded content digests.
type Hasher interface {
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes computes the SHA-256 hash of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
