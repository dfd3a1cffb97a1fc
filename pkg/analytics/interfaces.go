package analytics

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-demodata/components/catalog"
)

// EndpointClient reads mock API endpoints. Payloads are returned as raw JSON
// so local and remote clients look the same to callers.
type EndpointClient interface {
	Endpoints(ctx context.Context) ([]string, error)
	Fetch(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error)
}

// CatalogClient manages products.
type CatalogClient interface {
	Products(ctx context.Context, query catalog.Query) ([]catalog.Product, error)
	Product(ctx context.Context, id string) (catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.Input) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Stats(ctx context.Context) (catalog.Stats, error)
}

// Client is a convenience union for services that implement every call.
type Client interface {
	EndpointClient
	CatalogClient
}
