// Package hash provides content digests for copy verification.
//
// Copy verification compares the SHA-256 digest of every source item with the
// digest of its copy. The package provides a real implementation reading
// through any FileReader and a fake implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher provides an abstraction for file hashing operations.
type Hasher interface {
	// HashFile computes the hash of the file at the given path.
	HashFile(path string) (string, error)
}

// FileReader is the subset of fsops.FS a hasher needs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct {
	reader FileReader
}

// NewSHA256Hasher creates a SHA256Hasher that streams files from the OS.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// NewSHA256HasherFor creates a SHA256Hasher that reads files through r.
func NewSHA256HasherFor(r FileReader) *SHA256Hasher {
	return &SHA256Hasher{reader: r}
}

// HashFile computes the SHA-256 hash of the file at the given path.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	if h.reader != nil {
		data, err := h.reader.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return HashBytes(data), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with predetermined hashes for testing.
type FakeHasher struct {
	hashes map[string]string
	errs   map[string]error
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		hashes: make(map[string]string),
		errs:   make(map[string]error),
	}
}

// SetHash sets the hash returned for path.
func (h *FakeHasher) SetHash(path, hash string) {
	h.hashes[path] = hash
}

// SetError makes HashFile fail for path.
func (h *FakeHasher) SetError(path string, err error) {
	h.errs[path] = err
}

// HashFile returns the predetermined hash for the given path, or a digest of
// the path itself, so distinct unset paths never compare equal.
func (h *FakeHasher) HashFile(path string) (string, error) {
	if err, ok := h.errs[path]; ok {
		return "", err
	}
	if hash, ok := h.hashes[path]; ok {
		return hash, nil
	}
	return HashBytes([]byte(path)), nil
}
