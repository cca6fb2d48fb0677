package adapter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/minio/highwayhash"
)

// fingerprintKey is fixed so fingerprints are stable across builds.
var fingerprintKey = []byte("veilpack-fingerprint-key-0123456")

// Fingerprint returns the hex HighwayHash-64 of data.
func Fingerprint(data []byte) (string, error) {
	return FingerprintReader(bytes.NewReader(data))
}

// FingerprintReader returns the hex HighwayHash-64 of everything read from r.
func FingerprintReader(r io.Reader) (string, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(hash, r); err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	return fmt.Sprintf("%016x", hash.Sum64()), nil
}
