package export

import (
	"hash/fnv"
)

// shardIndex assigns a row key to one of n workers.
func shardIndex(rowKey []byte, n int) int {
	if n <= 1 {
		return 0
	}

	// Use FNV-1a hash algorithm for distributing keys
	h := fnv.New32a()
	_, _ = h.Write(rowKey)
	hash := h.Sum32()

	return int(hash % uint32(n))
}
