// Package hash computes content fingerprints for catalog assets.
//
// Fingerprints are hex-encoded SHA-256 digests. They are stored on every
// catalog entry and used by the sync collaborator to decide whether a file
// under .github/ still matches its upstream copy.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher fingerprints files and in-memory content.
type Hasher interface {
	// HashFile computes the fingerprint of the file at path.
	HashFile(path string) (string, error)

	// HashBytes computes the fingerprint of data.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile streams the file at path through SHA-256.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	sum := sha256.New()
	if _, err := io.Copy(sum, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// HashBytes returns the SHA-256 digest of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher returns canned fingerprints for tests.
type FakeHasher struct {
	files   map[string]string
	content map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		files:   make(map[string]string),
		content: make(map[string]string),
	}
}

// SetHash pins the fingerprint returned for path.
func (h *FakeHasher) SetHash(path, hash string) {
	h.files[path] = hash
}

// SetContentHash pins the fingerprint returned for data.
func (h *FakeHasher) SetContentHash(data []byte, hash string) {
	h.content[string(data)] = hash
}

// HashFile returns the pinned fingerprint for path, or "fakehash".
func (h *FakeHasher) HashFile(path string) (string, error) {
	if v, ok := h.files[path]; ok {
		return v, nil
	}
	return "fakehash", nil
}

// HashBytes returns the pinned fingerprint for data, or "fakehash".
func (h *FakeHasher) HashBytes(data []byte) string {
	if v, ok := h.content[string(data)]; ok {
		return v
	}
	return "fakehash"
}
