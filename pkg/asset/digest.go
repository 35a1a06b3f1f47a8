package asset

import (
	"io"
	"regexp"

	"github.com/opencontainers/go-digest"
)

// HashAlgorithm is the digest algorithm of asset hashes.
const HashAlgorithm = digest.SHA256

// MinHashLength is the minimum length of an encoded hash. Hash-bucketed
// layouts use the first MinHashLength characters as the bucket name.
const MinHashLength = 10

var hashPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// Digest computes the asset hash of the content.
func Digest(r io.Reader) (string, error) {
	d, err := HashAlgorithm.FromReader(r)
	if err != nil {
		return "", err
	}
	return d.Encoded(), nil
}

// DigestBytes computes the asset hash of the bytes.
func DigestBytes(p []byte) string {
	return HashAlgorithm.FromBytes(p).Encoded()
}

// NewDigester returns a digester to compute the asset hash while streaming.
func NewDigester() digest.Digester {
	return HashAlgorithm.Digester()
}

// ValidHash reports whether hash looks like an encoded asset hash.
func ValidHash(hash string) bool {
	return len(hash) >= MinHashLength && hashPattern.MatchString(hash)
}

// SameContent reports whether both readers yield the same bytes by comparing
// their digests.
func SameContent(a, b io.Reader) (bool, error) {
	da, err := Digest(a)
	if err != nil {
		return false, err
	}
	db, err := Digest(b)
	if err != nil {
		return false, err
	}
	return da == db, nil
}
