package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "morphcorp:v1:"

// Key derives a cache key from its parts, e.g. the analyzer identity and the
// analyzed word. Parts are separated so ("ab","c") and ("a","bc") differ.
func Key(parts ...string) string {
	sum := xxhash.Sum64String(strings.Join(parts, "\x00"))
	return keyPrefix + strconv.FormatUint(sum, 16)
}
