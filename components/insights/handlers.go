package insights

import (
	"context"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/mockapi"
)

// Endpoints served from the live catalog.
const (
	EndpointKPIs          = "/api/real/kpis"
	EndpointCategoryChart = "/api/real/charts/categories"
	EndpointRevenueChart  = "/api/real/charts/revenue"
	EndpointStockChart    = "/api/real/charts/stock"
	EndpointPerformance   = "/api/real/performance"
	EndpointQuickStats    = "/api/real/quick-stats"

	// EndpointPrefix matches every endpoint above.
	EndpointPrefix = "/api/real/"
)

// Handlers exposes the projections as mock API handlers.
func Handlers(p *Projector) map[string]mockapi.Handler {
	wrap := func(fn func(context.Context) (any, error)) mockapi.Handler {
		return func(ctx context.Context, _ mockapi.Params) (any, error) { return fn(ctx) }
	}
	return map[string]mockapi.Handler{
		EndpointKPIs:          wrap(func(ctx context.Context) (any, error) { return p.KPIs(ctx) }),
		EndpointCategoryChart: wrap(func(ctx context.Context) (any, error) { return p.CategoryChart(ctx) }),
		EndpointRevenueChart:  wrap(func(ctx context.Context) (any, error) { return p.RevenueChart(ctx) }),
		EndpointStockChart:    wrap(func(ctx context.Context) (any, error) { return p.StockChart(ctx) }),
		EndpointPerformance:   wrap(func(ctx context.Context) (any, error) { return p.Performance(ctx) }),
		EndpointQuickStats:    wrap(func(ctx context.Context) (any, error) { return p.QuickStats(ctx) }),
	}
}

// ClientInvalidator drops cached /api/real responses from a mock API client
// whenever the catalog changes, so the next read reaches the projector.
type ClientInvalidator struct {
	Client *mockapi.Client
}

// ProductsChanged satisfies catalog.ChangeHook.
func (c ClientInvalidator) ProductsChanged(context.Context, catalog.ChangeEvent) error {
	if c.Client != nil {
		c.Client.Invalidate(EndpointPrefix)
	}
	return nil
}
