package l1

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/storeqa/api-common/cache"
)

// Ensure BigCache implements cache.Cache
var _ cache.Cache = (*BigCache)(nil)

// BigCache implements the response cache using BigCache
type BigCache struct {
	cache        *bigcache.BigCache
	logger       cache.Logger
	maxEntrySize int
}

// Option is a functional option for configuring BigCache
type Option func(*BigCache)

// WithLogger sets the logger for BigCache
func WithLogger(logger cache.Logger) Option {
	return func(bc *BigCache) {
		bc.logger = logger
	}
}

// NewBigCache creates a new BigCache instance
func NewBigCache(cfg *cache.BigCacheConfig, opts ...Option) (cache.Cache, error) {
	cfg.ApplyDefaults()

	config := bigcache.DefaultConfig(cfg.DefaultTTL)
	config.HardMaxCacheSize = cfg.Size
	config.Verbose = false
	config.MaxEntrySize = cfg.MaxEntrySize
	config.Shards = cfg.Shards

	c, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:        c,
		logger:       cache.NoopLogger{},
		maxEntrySize: cfg.MaxEntrySize,
	}

	for _, opt := range opts {
		opt(bc)
	}

	return bc, nil
}

// Get retrieves a non-expired entry from the cache
func (bc *BigCache) Get(key string) (*cache.Entry, bool) {
	data, err := bc.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal cache entry", "key", key, "error", err)
		_ = bc.cache.Delete(key)
		return nil, false
	}

	if entry.IsExpired() {
		_ = bc.cache.Delete(key)
		return nil, false
	}

	return &entry, true
}

// Set stores a value in the cache with the given TTL
func (bc *BigCache) Set(key string, val []byte, ttl time.Duration) {
	now := time.Now().Unix()

	entry := cache.Entry{
		Data:      val,
		CreatedAt: now,
		ExpiresAt: now + int64(ttl.Seconds()),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		bc.logger.Error("Failed to marshal cache entry", "key", key, "error", err)
		return
	}

	if len(data) > bc.maxEntrySize {
		bc.logger.Warn("Cache entry too large, skipping cache",
			"key", key,
			"size", len(data),
			"max_size", bc.maxEntrySize)
		return
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set cache entry", "key", key, "error", err)
	}
}

// Delete removes an entry from the cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// Close closes the cache
func (bc *BigCache) Close() error {
	return bc.cache.Close()
}
