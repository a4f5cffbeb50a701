package cache

import (
	"github.com/minio/highwayhash"
)

var key = []byte("elemstage-partition-cache-key-01")

// ContentHash creates a 64-bit content hash used for change detection.
func ContentHash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	if _, err = h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
