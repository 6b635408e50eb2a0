// Package cache provides per-process caching of retrieval results. Pattern
// tables and templates are immutable and never cached; only external
// retrieval responses pass through here.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface for serialized retrieval results.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the expanded query and scheme filter.
func Key(query, scheme string) string {
	hash := sha256.Sum256([]byte(query + "\x00" + scheme))
	return "fundfaq:v1:" + hex.EncodeToString(hash[:])
}
