package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-demodata/components/catalog"
)

type listService interface {
	List(ctx context.Context, q catalog.Query) ([]catalog.Product, error)
}

// ListProductsQuery filters and sorts the catalog.
type ListProductsQuery struct {
	store listService
}

// NewListProductsQuery builds the query.
func NewListProductsQuery(store listService) *ListProductsQuery {
	return &ListProductsQuery{store: store}
}

var _ gocommand.Querier[catalog.Query, []catalog.Product] = (*ListProductsQuery)(nil)

// Query returns the matching products.
func (q *ListProductsQuery) Query(ctx context.Context, in catalog.Query) ([]catalog.Product, error) {
	return q.store.List(ctx, in)
}

// ProductInput identifies one product.
type ProductInput struct {
	ID string `json:"id"`
}

type getService interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// ProductQuery fetches one product by id.
type ProductQuery struct {
	store getService
}

// NewProductQuery builds the query.
func NewProductQuery(store getService) *ProductQuery {
	return &ProductQuery{store: store}
}

var _ gocommand.Querier[ProductInput, catalog.Product] = (*ProductQuery)(nil)

func (q *ProductQuery) Query(ctx context.Context, in ProductInput) (catalog.Product, error) {
	return q.store.Get(ctx, in.ID)
}

// StatsInput is the empty message of StatsQuery.
type StatsInput struct{}

type statsService interface {
	Stats(ctx context.Context) (catalog.Stats, error)
}

// StatsQuery aggregates the catalog.
type StatsQuery struct {
	store statsService
}

// NewStatsQuery builds the query.
func NewStatsQuery(store statsService) *StatsQuery {
	return &StatsQuery{store: store}
}

var _ gocommand.Querier[StatsInput, catalog.Stats] = (*StatsQuery)(nil)

func (q *StatsQuery) Query(ctx context.Context, _ StatsInput) (catalog.Stats, error) {
	return q.store.Stats(ctx)
}
