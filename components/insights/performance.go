package insights

import (
	"context"
	"sort"
	"time"

	"github.com/goliatone/go-demodata/components/catalog"
)

// RankedProduct is a top product by inventory value.
type RankedProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Stock    int     `json:"stock"`
}

// LowStockProduct is an active product at or below its minimum stock.
type LowStockProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	MinStock int    `json:"minStock"`
	Category string `json:"category"`
}

// CategoryStats aggregates one category. AveragePrice is value per unit in
// stock, zero when the category has no stock.
type CategoryStats struct {
	Count          int     `json:"count"`
	TotalValue     float64 `json:"totalValue"`
	TotalStock     int     `json:"totalStock"`
	AveragePrice   float64 `json:"averagePrice"`
	ActiveProducts int     `json:"activeProducts"`
}

// Performance ranks the catalog.
type Performance struct {
	TopProducts      []RankedProduct          `json:"topProducts"`
	LowStockProducts []LowStockProduct        `json:"lowStockProducts"`
	CategoryStats    map[string]CategoryStats `json:"categoryStats"`
}

// Performance returns the five most valuable active products, up to five
// active low-stock products by ascending stock, and per-category stats.
func (p *Projector) Performance(ctx context.Context) (Performance, error) {
	return project(ctx, p, keyPerformance, p.ttl, buildPerformance)
}

func buildPerformance(products []catalog.Product) Performance {
	out := Performance{
		TopProducts:      []RankedProduct{},
		LowStockProducts: []LowStockProduct{},
		CategoryStats:    CategoryBreakdown(products),
	}
	for _, pr := range byValueDesc(products) {
		if pr.Status != catalog.StatusActive {
			continue
		}
		out.TopProducts = append(out.TopProducts, RankedProduct{
			ID: pr.ID, Name: pr.Name, Category: pr.Category, Value: pr.Value(), Stock: pr.Stock,
		})
		if len(out.TopProducts) == 5 {
			break
		}
	}

	var low []catalog.Product
	for _, pr := range products {
		if pr.Status == catalog.StatusActive && pr.IsLowStock() {
			low = append(low, pr)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	for _, pr := range low {
		out.LowStockProducts = append(out.LowStockProducts, LowStockProduct{
			ID: pr.ID, Name: pr.Name, Stock: pr.Stock, MinStock: pr.MinStock, Category: pr.Category,
		})
		if len(out.LowStockProducts) == 5 {
			break
		}
	}
	return out
}

// CategoryBreakdown aggregates products per category.
func CategoryBreakdown(products []catalog.Product) map[string]CategoryStats {
	stats := map[string]CategoryStats{}
	for _, pr := range products {
		s := stats[pr.Category]
		s.Count++
		s.TotalValue += pr.Value()
		s.TotalStock += pr.Stock
		if pr.Status == catalog.StatusActive {
			s.ActiveProducts++
		}
		stats[pr.Category] = s
	}
	for k, s := range stats {
		if s.TotalStock > 0 {
			s.AveragePrice = s.TotalValue / float64(s.TotalStock)
		}
		stats[k] = s
	}
	return stats
}

// QuickStats is the compact summary shown above the dashboard.
type QuickStats struct {
	TotalProducts   int       `json:"totalProducts"`
	ActiveProducts  int       `json:"activeProducts"`
	TotalValue      float64   `json:"totalValue"`
	CategoriesCount int       `json:"categoriesCount"`
	LowStockAlerts  int       `json:"lowStockAlerts"`
	OutOfStock      int       `json:"outOfStock"`
	AveragePrice    float64   `json:"averagePrice"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// QuickStats is cached for a shorter time than the other projections.
func (p *Projector) QuickStats(ctx context.Context) (QuickStats, error) {
	return project(ctx, p, keyQuickStats, p.quickTTL, func(products []catalog.Product) QuickStats {
		stats := catalog.ComputeStats(products)
		out := QuickStats{
			TotalProducts:   stats.Total,
			ActiveProducts:  stats.ActiveProducts,
			TotalValue:      stats.TotalValue,
			CategoriesCount: stats.Categories,
			LowStockAlerts:  stats.LowStock,
			AveragePrice:    stats.AveragePrice,
			LastUpdated:     p.now().UTC(),
		}
		for _, pr := range products {
			if pr.Stock == 0 {
				out.OutOfStock++
			}
		}
		return out
	})
}
