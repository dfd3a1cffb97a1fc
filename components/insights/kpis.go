package insights

import (
	"context"
	"fmt"
	"math"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/synth"
)

// KPIs are computed from the live catalog. The previous values are
// fabricated by perturbing the current ones, which ComparisonIsSynthetic
// makes explicit to consumers.
type KPIs struct {
	Revenue               synth.KPI `json:"revenue"`
	Orders                synth.KPI `json:"orders"`
	Products              synth.KPI `json:"products"`
	Categories            synth.KPI `json:"categories"`
	AveragePrice          synth.KPI `json:"averagePrice"`
	LowStock              synth.KPI `json:"lowStock"`
	ComparisonIsSynthetic bool      `json:"comparisonIsSynthetic"`
}

// perturbation bounds, in percent, of each fabricated previous value.
var (
	revenueSpread    = [2]float64{-15, 25}
	ordersSpread     = [2]float64{-10, 20}
	productsSpread   = [2]float64{-5, 30}
	categoriesSpread = [2]float64{-10, 20}
	avgPriceSpread   = [2]float64{-8, 12}
	lowStockSpread   = [2]float64{-30, 50}
)

// KPIs returns the headline figures. Orders uses total stock as a proxy.
func (p *Projector) KPIs(ctx context.Context) (KPIs, error) {
	return project(ctx, p, keyKPIs, p.ttl, p.buildKPIs)
}

func (p *Projector) buildKPIs(products []catalog.Product) KPIs {
	out := KPIs{ComparisonIsSynthetic: true}
	if len(products) == 0 {
		zero := compare(0, 0)
		out.Revenue, out.Orders, out.Products = zero, zero, zero
		out.Categories, out.AveragePrice, out.LowStock = zero, zero, zero
		return out
	}
	stats := catalog.ComputeStats(products)
	totalStock := 0
	for _, pr := range products {
		totalStock += pr.Stock
	}
	kpi := func(current float64, spread [2]float64) synth.KPI {
		return compare(current, p.perturb(current, spread[0], spread[1]))
	}
	out.Revenue = kpi(stats.TotalValue, revenueSpread)
	out.Orders = kpi(float64(totalStock), ordersSpread)
	out.Products = kpi(float64(stats.Total), productsSpread)
	out.Categories = kpi(float64(stats.Categories), categoriesSpread)
	out.AveragePrice = kpi(stats.AveragePrice, avgPriceSpread)
	out.LowStock = kpi(float64(stats.LowStock), lowStockSpread)
	return out
}

// compare builds a three-state KPI. A zero previous value reports "100.0"
// when the current value is positive.
func compare(current, previous float64) synth.KPI {
	trend := synth.TrendNeutral
	switch {
	case current > previous:
		trend = synth.TrendUp
	case current < previous:
		trend = synth.TrendDown
	}
	change := "0.0"
	switch {
	case previous != 0:
		change = fmt.Sprintf("%.1f", (current-previous)/previous*100)
	case current > 0:
		change = "100.0"
	}
	return synth.KPI{Current: current, Previous: previous, Change: change, Trend: trend}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
