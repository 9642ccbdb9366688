package assetcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"toolscout/internal/kvstore"
	"toolscout/internal/metrics"
)

// DefaultTTL is how long a resolved logo URL stays valid.
const DefaultTTL = 7 * 24 * time.Hour

const storageKey = "logo_cache"

type entry struct {
	URL       string    `json:"url"`
	Timestamp time.Time `json:"ts"`
}

// Cache is a TTL cache for resolved asset URLs, persisted as one serialized
// map in the backing store. Expired entries are ignored on read, not swept;
// the map is bounded by catalog size. Storage failures degrade the cache to
// always-miss rather than surfacing errors to callers.
type Cache struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time

	mu sync.Mutex
}

type Option func(*Cache)

// WithTTL overrides the default 7-day expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects the time source, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(store kvstore.Store, opts ...Option) *Cache {
	c := &Cache{store: store, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached URL for key. A physically present entry older than
// the TTL is a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load(ctx)
	e, ok := entries[key]
	if !ok {
		metrics.AssetCacheMissesTotal.Inc()
		return "", false
	}
	if c.now().Sub(e.Timestamp) >= c.ttl {
		metrics.AssetCacheMissesTotal.Inc()
		return "", false
	}
	metrics.AssetCacheHitsTotal.Inc()
	return e.URL, true
}

// Put stores url under key with a fresh timestamp, overwriting any previous
// entry. Storage errors are logged and swallowed.
func (c *Cache) Put(ctx context.Context, key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load(ctx)
	entries[key] = entry{URL: url, Timestamp: c.now()}

	raw, err := json.Marshal(entries)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to serialize asset cache map")
		return
	}
	if err := c.store.Set(ctx, storageKey, string(raw)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Asset cache write failed, entry dropped")
	}
}

func (c *Cache) load(ctx context.Context) map[string]entry {
	raw, err := c.store.Get(ctx, storageKey)
	if err != nil {
		if err != kvstore.ErrNotFound {
			log.Warn().Err(err).Msg("Asset cache read failed, treating as empty")
		}
		return make(map[string]entry)
	}
	entries := make(map[string]entry)
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt map: fall back to empty, the next Put rewrites it.
		log.Warn().Err(err).Msg("Asset cache map corrupt, resetting")
		return make(map[string]entry)
	}
	return entries
}
