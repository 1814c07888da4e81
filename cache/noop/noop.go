package noop

import (
	"time"

	"github.com/storeqa/api-common/cache"
)

// Ensure NoOpCache implements cache.Cache
var _ cache.Cache = (*NoOpCache)(nil)

// NoOpCache is a no-operation cache implementation for disabled caches
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() cache.Cache {
	return &NoOpCache{}
}

func (n *NoOpCache) Get(key string) (*cache.Entry, bool) {
	return nil, false
}

func (n *NoOpCache) Set(key string, val []byte, ttl time.Duration) {
}

func (n *NoOpCache) Delete(key string) {
}
