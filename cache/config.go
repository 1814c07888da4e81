package cache

import "time"

// BigCacheConfig represents the in-memory response cache configuration
type BigCacheConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	Size         int           `yaml:"size" json:"size"` // hard cap in MB
	MaxEntrySize int           `yaml:"max_entry_size" json:"max_entry_size"`
	Shards       int           `yaml:"shards" json:"shards"` // must be power of 2
	DefaultTTL   time.Duration `yaml:"default_ttl" json:"default_ttl"`
}

func (c *BigCacheConfig) ApplyDefaults() {
	if c.Size == 0 {
		c.Size = 50
	}
	if c.MaxEntrySize == 0 {
		c.MaxEntrySize = 1048576
	}
	if c.Shards == 0 {
		c.Shards = 64 // power of 2
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = 10 * time.Minute
	}
}
