package config

import "time"

// CacheConfig defines settings for the response cache middleware.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// Responses larger than MaxBodyBytes are served but not stored.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

func loadCacheConfig(l *loader) CacheConfig {
	return CacheConfig{
		Enabled:      l.boolean("CACHE_ENABLED", true),
		TTL:          l.duration("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: l.integer("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
