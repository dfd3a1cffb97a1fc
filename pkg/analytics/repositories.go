package analytics

import (
	"context"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/insights"
)

// NewProductSource adapts a catalog client into an insights product source,
// so projections can run against a remote catalog. Products are requested in
// creation order to match the store's own ordering.
func NewProductSource(client CatalogClient) insights.ProductSource {
	return &productSource{client: client}
}

type productSource struct {
	client CatalogClient
}

func (s *productSource) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.client.Products(ctx, catalog.Query{SortBy: catalog.SortByCreatedAt})
}
