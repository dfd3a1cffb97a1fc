package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// TTL is an in-memory cache whose entries expire a fixed duration after they
// are stored. Expired entries are evicted lazily when read.
type TTL[V any] struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]entry[V]
	gen     uint64
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Option configures a TTL cache.
type Option func(*config)

type config struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a cache with the default TTL applied by Set.
func New[V any](ttl time.Duration, opts ...Option) *TTL[V] {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TTL[V]{
		ttl:     ttl,
		now:     cfg.now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns a live entry.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value with the default TTL.
func (c *TTL[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with an explicit TTL. A non-positive TTL is a no-op.
func (c *TTL[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Generation changes every time entries are removed by Delete, DeletePrefix
// or Clear. Capture it before loading a value and pass it to SetIfCurrent.
func (c *TTL[V]) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// SetIfCurrent stores value only when no invalidation happened since gen was
// read. It reports whether the value was stored.
func (c *TTL[V]) SetIfCurrent(key string, value V, ttl time.Duration, gen uint64) bool {
	if c == nil || ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.entries[key] = entry[V]{value: value, expires: c.now().Add(ttl)}
	return true
}

// GetOrLoad returns a cached entry or loads and stores a new one. Errors are
// not cached, and neither is a value loaded across an invalidation.
func (c *TTL[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	gen := c.Generation()
	v, err := load()
	if err != nil {
		return v, err
	}
	c.SetIfCurrent(key, v, c.ttl, gen)
	return v, nil
}

// Delete removes a single key.
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen++
	c.mu.Unlock()
}

// DeletePrefix removes every key starting with prefix and reports how many
// were removed.
func (c *TTL[V]) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Clear drops everything.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.gen++
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until they are read.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Hash returns a deterministic digest of v's JSON encoding. Map keys are
// sorted by encoding/json, so equal maps hash equally.
func Hash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	if string(b) == "null" || string(b) == "{}" {
		return "empty"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
