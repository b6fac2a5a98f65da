package cache

import "time"

// MemoryConfig holds in-memory cache configuration.
type MemoryConfig struct {
	MaxSize         int
	CleanupInterval time.Duration
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryConfig)

// WithMaxSize sets the maximum number of cached entries.
func WithMaxSize(size int) MemoryOption {
	return func(cfg *MemoryConfig) {
		if size > 0 {
			cfg.MaxSize = size
		}
	}
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(interval time.Duration) MemoryOption {
	return func(cfg *MemoryConfig) {
		if interval > 0 {
			cfg.CleanupInterval = interval
		}
	}
}
