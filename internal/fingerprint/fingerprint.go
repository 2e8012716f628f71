// Package fingerprint computes the content hash used for exact-duplicate
// detection. The hash covers every attribute except the pixel payload, so
// re-encoded pixels still deduplicate against the original.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"pseudonym/internal/dataset"
)

// Compute clears the pixel-data payload, hashes the canonical encoding of
// what remains, and returns the hex digest together with the detached pixel
// bytes. The caller restores the payload with Restore. Datasets with equal
// non-pixel content yield equal hashes.
func Compute(ds *dataset.Dataset) (string, []byte, error) {
	var pixel []byte
	if e, ok := ds.Get(dataset.TagPixelData); ok {
		pixel = e.Bytes
		e.Bytes = nil
	}

	encoded, err := dataset.Marshal(ds)
	if err != nil {
		return "", nil, fmt.Errorf("fingerprint: %w", err)
	}

	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), pixel, nil
}

// Restore reattaches the pixel payload detached by Compute.
func Restore(ds *dataset.Dataset, pixel []byte) {
	if pixel == nil {
		return
	}
	if e, ok := ds.Get(dataset.TagPixelData); ok {
		e.Bytes = pixel
		return
	}
	ds.SetBytes(dataset.TagPixelData, pixel)
}
