package cache

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash fingerprints file content with a 64-bit keyed highway hash, rendered
// as fixed-width hex so documents stay diff-friendly.
func Hash(data []byte) string {
	hasher, err := highwayhash.New64(key)
	if err != nil {
		return ""
	}
	_, _ = hasher.Write(data)
	return fmt.Sprintf("%016x", hasher.Sum64())
}
