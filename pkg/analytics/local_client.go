package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/httpapi"
	"github.com/goliatone/go-demodata/components/mockapi"
)

var errNoAPI = errors.New("analytics: local api is required")

// LocalClient implements Client in process, without a server.
type LocalClient struct {
	api     *httpapi.API
	actorID string
}

// NewLocalClient wraps api. actorID is attached to catalog writes.
func NewLocalClient(api *httpapi.API, actorID string) *LocalClient {
	return &LocalClient{api: api, actorID: actorID}
}

var _ Client = (*LocalClient)(nil)

func (c *LocalClient) Endpoints(context.Context) ([]string, error) {
	if c.api == nil || c.api.Mock == nil {
		return nil, errNoAPI
	}
	return c.api.Mock.Endpoints(), nil
}

func (c *LocalClient) Fetch(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	if c.api == nil {
		return nil, errNoAPI
	}
	p := make(mockapi.Params, len(params))
	for k, v := range params {
		p[k] = v
	}
	data, err := c.api.Fetch(ctx, endpoint, p)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("analytics: encode %s: %w", endpoint, err)
	}
	return raw, nil
}

func (c *LocalClient) Products(ctx context.Context, query catalog.Query) ([]catalog.Product, error) {
	if c.api == nil {
		return nil, errNoAPI
	}
	return c.api.ListProducts(ctx, query)
}

func (c *LocalClient) Product(ctx context.Context, id string) (catalog.Product, error) {
	if c.api == nil {
		return catalog.Product{}, errNoAPI
	}
	return c.api.GetProduct(ctx, id)
}

func (c *LocalClient) CreateProduct(ctx context.Context, in catalog.Input) (catalog.Product, error) {
	if c.api == nil {
		return catalog.Product{}, errNoAPI
	}
	return c.api.CreateProduct(ctx, in, c.actorID)
}

func (c *LocalClient) DeleteProduct(ctx context.Context, id string) error {
	if c.api == nil {
		return errNoAPI
	}
	return c.api.DeleteProduct(ctx, id)
}

func (c *LocalClient) Stats(ctx context.Context) (catalog.Stats, error) {
	if c.api == nil {
		return catalog.Stats{}, errNoAPI
	}
	return c.api.ProductStats(ctx)
}
