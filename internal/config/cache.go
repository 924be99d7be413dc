package config

import (
    "os"
    "time"
)

// CacheConfig defines settings for the places lookup cache.  When Enabled is
// false or no Redis client is configured, caching is disabled and every
// search hits the Google Maps API directly.  TTL controls how long a cached
// result set is served before a fresh lookup is performed.  Prefix
// namespaces the cache keys so the database can be shared.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled: getenv("CACHE_ENABLED", "true") == "true",
        TTL:     parseDur(getenv("CACHE_TTL", "5m")),
        Prefix:  getenv("CACHE_PREFIX", "places"),
    }
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}
