package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeKey generates a deterministic cache key for a chord token and the
// number of neighbours requested for it.
func ComputeKey(token string, count int) string {
	input := fmt.Sprintf("%s:%d", token, count)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
