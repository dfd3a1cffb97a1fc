package queries

import (
	"context"
	"testing"

	"github.com/goliatone/go-demodata/components/catalog"
)

func newStore(t *testing.T) *catalog.Store {
	t.Helper()
	store := catalog.NewStore(catalog.Options{DisableLatency: true})
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	return store
}

func TestListProductsQuery(t *testing.T) {
	query := NewListProductsQuery(newStore(t))
	products, err := query.Query(context.Background(), catalog.Query{Category: "Electronics", SortBy: catalog.SortByPrice})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 electronics, got %d", len(products))
	}
	if products[0].Price > products[2].Price {
		t.Fatalf("expected ascending price order")
	}
}

func TestProductQuery(t *testing.T) {
	store := newStore(t)
	all, _ := store.Products(context.Background())
	query := NewProductQuery(store)
	p, err := query.Query(context.Background(), ProductInput{ID: all[0].ID})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if p.ID != all[0].ID {
		t.Fatalf("expected %s, got %s", all[0].ID, p.ID)
	}
}

func TestStatsQuery(t *testing.T) {
	stats, err := NewStatsQuery(newStore(t)).Query(context.Background(), StatsInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if stats.Total != 5 {
		t.Fatalf("expected 5 products, got %d", stats.Total)
	}
}
