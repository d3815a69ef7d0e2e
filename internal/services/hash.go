package services

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var contentHashKey = []byte("tenderhub-upload-dedupe-key-0001")

// ContentHash fingerprints an upload so repeated files can be recognised.
func ContentHash(data []byte) (string, error) {
	h, err := highwayhash.New64(contentHashKey)
	if err != nil {
		return "", fmt.Errorf("failed to init hash: %w", err)
	}
	if _, err := h.Write(data); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
