package insights

import (
	"context"
	"math"
	"sort"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/synth"
)

// EmptyLabel stands in for categories and stock bars of an empty catalog.
const EmptyLabel = "No products"

var (
	categoryPalette = []string{
		"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6",
		"#06b6d4", "#84cc16", "#f97316", "#ec4899", "#64748b",
	}
	emptyColor    = "#e5e7eb"
	lowStockColor = "#ef4444"
	okStockColor  = "#3b82f6"
	revenueMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
)

// CategoryChart counts products per category in first-seen order.
func (p *Projector) CategoryChart(ctx context.Context) (synth.ChartData, error) {
	return project(ctx, p, keyCategoryChart, p.ttl, buildCategoryChart)
}

func buildCategoryChart(products []catalog.Product) synth.ChartData {
	const label = "Products by Category"
	if len(products) == 0 {
		return synth.ChartData{
			Labels:   []string{EmptyLabel},
			Datasets: []synth.Dataset{{Label: label, Data: []float64{1}, Colors: []string{emptyColor}}},
		}
	}
	var labels []string
	counts := map[string]float64{}
	for _, pr := range products {
		if _, seen := counts[pr.Category]; !seen {
			labels = append(labels, pr.Category)
		}
		counts[pr.Category]++
	}
	data := make([]float64, len(labels))
	for i, c := range labels {
		data[i] = counts[c]
	}
	colors := categoryPalette
	if len(labels) < len(colors) {
		colors = colors[:len(labels)]
	}
	return synth.ChartData{
		Labels:   labels,
		Datasets: []synth.Dataset{{Label: label, Data: data, Colors: append([]string(nil), colors...)}},
	}
}

// RevenueChart projects six months of revenue from the current inventory
// value, with a target line 15% above the estimate.
func (p *Projector) RevenueChart(ctx context.Context) (synth.ChartData, error) {
	return project(ctx, p, keyRevenueChart, p.ttl, p.buildRevenueChart)
}

func (p *Projector) buildRevenueChart(products []catalog.Product) synth.ChartData {
	base := catalog.ComputeStats(products).TotalValue
	labels := append([]string(nil), revenueMonths...)
	if base == 0 {
		return synth.ChartData{
			Labels:   labels,
			Datasets: []synth.Dataset{{Label: "Revenue", Data: make([]float64, len(labels)), Fill: true}},
		}
	}
	estimate := make([]float64, len(labels))
	target := make([]float64, len(labels))
	for i := range labels {
		seasonality := math.Sin(float64(i)*math.Pi/3)*0.2 + 1
		growth := float64(i)*0.05 + 1
		estimate[i] = roundHalfUp(base * seasonality * growth * p.noise(0.85, 1.15))
		target[i] = roundHalfUp(estimate[i] * 1.15)
	}
	return synth.ChartData{
		Labels: labels,
		Datasets: []synth.Dataset{
			{Label: "Estimated Revenue", Data: estimate, Fill: true},
			{Label: "Target", Data: target, Dashed: true},
		},
	}
}

// StockChart shows the ten most valuable stock positions. Low-stock bars are
// colored red.
func (p *Projector) StockChart(ctx context.Context) (synth.ChartData, error) {
	return project(ctx, p, keyStockChart, p.ttl, buildStockChart)
}

func buildStockChart(products []catalog.Product) synth.ChartData {
	const label = "Stock (units)"
	if len(products) == 0 {
		return synth.ChartData{
			Labels:   []string{EmptyLabel},
			Datasets: []synth.Dataset{{Label: label, Data: []float64{0}, Colors: []string{emptyColor}}},
		}
	}
	ranked := byValueDesc(products)
	if len(ranked) > defaultStockLimit {
		ranked = ranked[:defaultStockLimit]
	}
	out := synth.ChartData{Labels: make([]string, len(ranked))}
	ds := synth.Dataset{Label: label, Data: make([]float64, len(ranked)), Colors: make([]string, len(ranked))}
	for i, pr := range ranked {
		out.Labels[i] = truncate(pr.Name, 15)
		ds.Data[i] = float64(pr.Stock)
		ds.Colors[i] = okStockColor
		if pr.IsLowStock() {
			ds.Colors[i] = lowStockColor
		}
	}
	out.Datasets = []synth.Dataset{ds}
	return out
}

func byValueDesc(products []catalog.Product) []catalog.Product {
	out := append([]catalog.Product(nil), products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value() > out[j].Value() })
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
