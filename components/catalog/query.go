package catalog

import (
	"sort"
	"strings"
)

// Sort keys accepted by Query.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "createdAt"
	SortByStock     = "stock"
	SortByValue     = "value"
)

// Query filters and orders a product listing.
type Query struct {
	Search    string `json:"search,omitempty" query:"search"`
	Category  string `json:"category,omitempty" query:"category"`
	Status    Status `json:"status,omitempty" query:"status"`
	LowStock  bool   `json:"lowStock,omitempty" query:"lowStock"`
	SortBy    string `json:"sortBy,omitempty" query:"sortBy"`
	SortOrder string `json:"sortOrder,omitempty" query:"sortOrder"`
}

// Apply returns the matching products in the requested order. An empty or
// "all" category matches every product. Names sort case-insensitively.
func (q Query) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Search != "" && !p.Matches(q.Search) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(q.Category, "all") && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.LowStock && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	desc := strings.EqualFold(q.SortOrder, "desc")
	less := lessFor(q.SortBy)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFor(key string) func(a, b Product) bool {
	switch key {
	case SortByPrice:
		return func(a, b Product) bool { return a.Price < b.Price }
	case SortByCreatedAt:
		return func(a, b Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByStock:
		return func(a, b Product) bool { return a.Stock < b.Stock }
	case SortByValue:
		return func(a, b Product) bool { return a.Value() < b.Value() }
	default:
		return func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
}

// Stats are derived from the current product list on demand.
type Stats struct {
	Total          int     `json:"total"`
	TotalValue     float64 `json:"totalValue"`
	Categories     int     `json:"categories"`
	LowStock       int     `json:"lowStock"`
	ActiveProducts int     `json:"activeProducts"`
	AveragePrice   float64 `json:"averagePrice"`
	AverageValue   float64 `json:"averageValue"`
}

// ComputeStats aggregates products. TotalValue is summed in list order.
func ComputeStats(products []Product) Stats {
	s := Stats{Total: len(products)}
	categories := map[string]bool{}
	priceSum := 0.0
	for _, p := range products {
		s.TotalValue += p.Value()
		priceSum += p.Price
		categories[p.Category] = true
		if p.IsLowStock() {
			s.LowStock++
		}
		if p.Status == StatusActive {
			s.ActiveProducts++
		}
	}
	s.Categories = len(categories)
	if s.Total > 0 {
		s.AveragePrice = priceSum / float64(s.Total)
		s.AverageValue = s.TotalValue / float64(s.Total)
	}
	return s
}

// DistinctCategories returns the categories in use, sorted.
func DistinctCategories(products []Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}
