package insights

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-demodata/components/cache"
	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/synth"
	"github.com/goliatone/go-demodata/components/telemetry"
)

// Cache lifetimes of the projections.
const (
	DefaultCacheTTL   = 5 * time.Minute
	QuickStatsTTL     = time.Minute
	keyKPIs           = "kpis"
	keyCategoryChart  = "chart.categories"
	keyRevenueChart   = "chart.revenue"
	keyStockChart     = "chart.stock"
	keyPerformance    = "performance"
	keyQuickStats     = "quick-stats"
	defaultStockLimit = 10
)

// ErrNoSource is returned when a projector has nothing to read from.
var ErrNoSource = errors.New("insights: product source is required")

// ProductSource supplies the current product list. catalog.Store satisfies it.
type ProductSource interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Options configures a Projector.
type Options struct {
	Source        ProductSource
	Random        *synth.Random
	Clock         func() time.Time
	Telemetry     telemetry.Recorder
	CacheTTL      time.Duration
	QuickStatsTTL time.Duration
}

// Projector derives dashboard views from the live catalog. Results are
// cached until they expire or a catalog change invalidates them.
type Projector struct {
	source    ProductSource
	cache     *cache.TTL[any]
	ttl       time.Duration
	quickTTL  time.Duration
	now       func() time.Time
	telemetry telemetry.Recorder

	rngMu sync.Mutex
	rng   *synth.Random
}

// NewProjector builds a projector with safe defaults.
func NewProjector(opts Options) *Projector {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	quick := opts.QuickStatsTTL
	if quick <= 0 {
		quick = QuickStatsTTL
	}
	rng := opts.Random
	if rng == nil {
		rng = synth.NewRandom(time.Now().UnixNano())
	}
	return &Projector{
		source:    opts.Source,
		cache:     cache.New[any](ttl, cache.WithClock(now)),
		ttl:       ttl,
		quickTTL:  quick,
		now:       now,
		telemetry: telemetry.Normalize(opts.Telemetry),
		rng:       rng,
	}
}

// Invalidate drops every cached projection.
func (p *Projector) Invalidate() {
	p.cache.Clear()
}

// ProductsChanged satisfies catalog.ChangeHook.
func (p *Projector) ProductsChanged(ctx context.Context, event catalog.ChangeEvent) error {
	p.Invalidate()
	p.telemetry.Record(ctx, "insights.invalidated", map[string]any{"reason": event.Reason})
	return nil
}

var _ catalog.ChangeHook = (*Projector)(nil)

func (p *Projector) products(ctx context.Context) ([]catalog.Product, error) {
	if p.source == nil {
		return nil, ErrNoSource
	}
	return p.source.Products(ctx)
}

func (p *Projector) perturb(current, minPct, maxPct float64) float64 {
	p.rngMu.Lock()
	v := p.rng.FloatRange(minPct, maxPct)
	p.rngMu.Unlock()
	return max(0, roundHalfUp(current*(1-v/100)))
}

func (p *Projector) noise(min, max float64) float64 {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.FloatRange(min, max)
}

// project caches the result of build under key. Failed builds are not
// cached, and neither is a build whose read overlapped an invalidation.
func project[T any](ctx context.Context, p *Projector, key string, ttl time.Duration, build func([]catalog.Product) T) (T, error) {
	if v, ok := p.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	var zero T
	gen := p.cache.Generation()
	products, err := p.products(ctx)
	if err != nil {
		return zero, err
	}
	out := build(products)
	p.cache.SetIfCurrent(key, out, ttl, gen)
	return out, nil
}
