package mockapi

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-demodata/components/cache"
	"github.com/goliatone/go-demodata/components/synth"
	"github.com/goliatone/go-demodata/components/telemetry"
)

// DefaultCacheTTL applies when Options.CacheTTL is zero.
const DefaultCacheTTL = 5 * time.Minute

// Handler resolves one endpoint.
type Handler func(ctx context.Context, params Params) (any, error)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Client.
type Options struct {
	Handlers     map[string]Handler
	PostHandlers map[string]Handler
	Conditions   *Conditions
	CacheTTL     time.Duration
	Random       *synth.Random
	Sleep        SleepFunc
	Clock        func() time.Time
	Telemetry    telemetry.Recorder
}

// Client simulates a remote analytics API over in-process handlers. Reads are
// cached per endpoint and params; concurrent identical reads share one call.
type Client struct {
	mu         sync.RWMutex
	handlers   map[string]Handler
	post       map[string]Handler
	conditions Conditions

	rngMu sync.Mutex
	rng   *synth.Random

	cache     *cache.TTL[any]
	ttl       time.Duration
	group     singleflight.Group
	sleep     SleepFunc
	telemetry telemetry.Recorder
}

// New builds a client with safe defaults.
func New(opts Options) *Client {
	conditions := DefaultConditions()
	if opts.Conditions != nil {
		conditions = *opts.Conditions
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	rng := opts.Random
	if rng == nil {
		rng = synth.NewRandom(time.Now().UnixNano())
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = contextSleep
	}
	var cacheOpts []cache.Option
	if opts.Clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(opts.Clock))
	}
	c := &Client{
		handlers:   map[string]Handler{},
		post:       map[string]Handler{},
		conditions: conditions,
		rng:        rng,
		cache:      cache.New[any](ttl, cacheOpts...),
		ttl:        ttl,
		sleep:      sleep,
		telemetry:  telemetry.Normalize(opts.Telemetry),
	}
	for k, h := range opts.Handlers {
		c.handlers[k] = h
	}
	for k, h := range opts.PostHandlers {
		c.post[k] = h
	}
	return c
}

// Register adds or replaces a read endpoint.
func (c *Client) Register(endpoint string, h Handler) {
	c.mu.Lock()
	c.handlers[endpoint] = h
	c.mu.Unlock()
}

// RegisterAll adds every handler in hs.
func (c *Client) RegisterAll(hs map[string]Handler) {
	c.mu.Lock()
	for k, h := range hs {
		c.handlers[k] = h
	}
	c.mu.Unlock()
}

// RegisterPost adds or replaces a write endpoint.
func (c *Client) RegisterPost(endpoint string, h Handler) {
	c.mu.Lock()
	c.post[endpoint] = h
	c.mu.Unlock()
}

// Endpoints lists registered read endpoints in sorted order.
func (c *Client) Endpoints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.handlers))
	for k := range c.handlers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get resolves endpoint with the default cache TTL.
func (c *Client) Get(ctx context.Context, endpoint string, params Params) (any, error) {
	return c.GetWithTTL(ctx, endpoint, params, 0)
}

// GetWithTTL resolves endpoint, caching a success for ttl (the default TTL
// when ttl is zero). Offline fails first; a cache hit then skips latency and
// failure injection. Identical concurrent reads share one round trip that
// outlives any single caller; each caller still returns when its own ctx is
// done.
func (c *Client) GetWithTTL(ctx context.Context, endpoint string, params Params, ttl time.Duration) (any, error) {
	conditions := c.Conditions()
	if !conditions.Online {
		return nil, c.fail(ctx, newError(KindNetworkUnavailable, endpoint))
	}

	key := CacheKey(endpoint, params)
	if v, ok := c.cache.Get(key); ok {
		c.telemetry.Record(ctx, "mockapi.cache_hit", map[string]any{"endpoint": endpoint})
		return v, nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		gen := c.cache.Generation()
		result, err := c.roundTrip(detached, endpoint, params, conditions, c.lookup(c.handlers, endpoint))
		if err != nil {
			return nil, err
		}
		c.cache.SetIfCurrent(key, result, ttl, gen)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c.telemetry.Record(ctx, "mockapi.request", map[string]any{"endpoint": endpoint, "shared": res.Shared})
		return res.Val, nil
	}
}

// Post sends payload to a write endpoint. Writes are never cached.
func (c *Client) Post(ctx context.Context, endpoint string, payload Params) (any, error) {
	conditions := c.Conditions()
	if !conditions.Online {
		return nil, c.fail(ctx, newError(KindNetworkUnavailable, endpoint))
	}
	result, err := c.roundTrip(ctx, endpoint, payload, conditions, c.lookup(c.post, endpoint))
	if err != nil {
		return nil, err
	}
	c.telemetry.Record(ctx, "mockapi.post", map[string]any{"endpoint": endpoint})
	return result, nil
}

func (c *Client) lookup(table map[string]Handler, endpoint string) Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return table[endpoint]
}

// roundTrip injects a failure before any delay, waits, then dispatches.
func (c *Client) roundTrip(ctx context.Context, endpoint string, params Params, conditions Conditions, h Handler) (any, error) {
	failed, delay := c.draw(conditions)
	if failed {
		return nil, c.fail(ctx, newError(KindSimulatedNetwork, endpoint))
	}
	if err := c.sleep(ctx, delay); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, c.fail(ctx, newError(KindEndpointNotFound, endpoint))
	}
	return h(ctx, params)
}

func (c *Client) draw(conditions Conditions) (bool, time.Duration) {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	if c.rng.Float() < conditions.ErrorRate {
		return true, 0
	}
	window := float64(conditions.MaxLatency - conditions.MinLatency)
	return false, conditions.MinLatency + time.Duration(c.rng.Float()*window)
}

func (c *Client) fail(ctx context.Context, err *Error) error {
	c.telemetry.Record(ctx, "mockapi.error", map[string]any{
		"endpoint": err.Endpoint,
		"kind":     string(err.Kind),
		"status":   err.Status,
	})
	return err
}

// Conditions returns the current network conditions.
func (c *Client) Conditions() Conditions {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conditions
}

// SetConditions replaces the network conditions.
func (c *Client) SetConditions(conditions Conditions) error {
	if err := conditions.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.conditions = conditions
	c.mu.Unlock()
	return nil
}

// ApplyPreset switches to a named preset.
func (c *Client) ApplyPreset(name string) error {
	conditions, err := Preset(name)
	if err != nil {
		return err
	}
	return c.SetConditions(conditions)
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// Invalidate drops cached responses whose endpoint starts with prefix.
func (c *Client) Invalidate(prefix string) int {
	return c.cache.DeletePrefix(prefix)
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
