package places

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-finder/internal/config"
)

// CachedFinder decorates a Finder with a Redis result cache so that
// repeated searches for the same city or coordinates do not hit the
// Google APIs every time.  Cache errors are never surfaced: a failed read
// falls through to the inner finder and a failed write is dropped.
type CachedFinder struct {
	inner Finder
	rdb   *redis.Client
	ttl   time.Duration
	pfx   string
}

// NewCachedFinder wraps inner with a Redis cache.  When the config
// disables caching or rdb is nil, inner is returned unchanged.
func NewCachedFinder(inner Finder, rdb *redis.Client, cfg config.CacheConfig) Finder {
	if !cfg.Enabled || rdb == nil {
		return inner
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedFinder{inner: inner, rdb: rdb, ttl: ttl, pfx: cfg.Prefix}
}

// cacheKey builds a stable key from the query.  City and coordinate
// searches hash to distinct keys even when a city name happens to look
// like a coordinate pair.
func (f *CachedFinder) cacheKey(q Query) string {
	tail := "city:" + q.City
	if q.City == "" {
		tail = "ll:" + strconv.FormatFloat(q.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(q.Lng, 'f', -1, 64)
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", f.pfx, sum[:])
}

// FindRestaurants serves the query from Redis when possible, otherwise
// delegates to the inner finder and stores the result.  Empty result sets
// are cached too; only errors are not.
func (f *CachedFinder) FindRestaurants(ctx context.Context, q Query) ([]Restaurant, error) {
	key := f.cacheKey(q)

	if bs, err := f.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []Restaurant
		if err := json.Unmarshal(bs, &cached); err == nil {
			return cached, nil
		}
	}

	out, err := f.inner.FindRestaurants(ctx, q)
	if err != nil {
		return nil, err
	}

	if bs, err := json.Marshal(out); err == nil {
		_ = f.rdb.SetEx(context.Background(), key, bs, f.ttl).Err()
	}
	return out, nil
}
