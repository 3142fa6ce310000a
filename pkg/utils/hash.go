package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest collapses an arbitrary normalized query into a short fixed-width
// hex string suitable for a cache key. Not for anything security-relevant.
func Digest(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
