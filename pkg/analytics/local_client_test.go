package analytics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/insights"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/synth"
)

func TestLocalClientFetchesJSON(t *testing.T) {
	client := NewLocalClient(newLocalAPI(), "tester")
	raw, err := client.Fetch(context.Background(), mockapi.EndpointCategoryChart, nil)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var chart synth.ChartData
	if err := json.Unmarshal(raw, &chart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(chart.Labels) == 0 || len(chart.Datasets) != 1 {
		t.Fatalf("unexpected chart %#v", chart)
	}
}

func TestLocalClientCatalogRoundTrip(t *testing.T) {
	client := NewLocalClient(newLocalAPI(), "tester")
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, validInput("Yoga Mat"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedBy != "tester" {
		t.Fatalf("expected actor to be recorded, got %q", created.CreatedBy)
	}
	if err := client.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stats, err := client.Stats(ctx)
	if err != nil || stats.Total != 5 {
		t.Fatalf("stats: %#v %v", stats, err)
	}
}

func TestLocalClientWithoutAPI(t *testing.T) {
	client := NewLocalClient(nil, "")
	if _, err := client.Products(context.Background(), catalog.Query{}); err == nil {
		t.Fatalf("expected error without api")
	}
}

func TestProductSourceFeedsProjector(t *testing.T) {
	client := NewLocalClient(newLocalAPI(), "")
	projector := insights.NewProjector(insights.Options{
		Source: NewProductSource(client),
		Random: synth.NewRandom(9),
	})
	stats, err := projector.QuickStats(context.Background())
	if err != nil {
		t.Fatalf("quick stats: %v", err)
	}
	if stats.TotalProducts != 5 || stats.CategoriesCount != 3 {
		t.Fatalf("unexpected quick stats %#v", stats)
	}
}
