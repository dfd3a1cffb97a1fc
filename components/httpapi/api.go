package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/catalog/commands"
	"github.com/goliatone/go-demodata/components/catalog/queries"
	"github.com/goliatone/go-demodata/components/charts"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/telemetry"
)

var (
	ErrNoMockAPI  = errors.New("httpapi: mock api is not configured")
	ErrNoCatalog  = errors.New("httpapi: catalog is not configured")
	ErrNoRenderer = errors.New("httpapi: chart renderer is not configured")
)

// API is the transport-neutral core shared by the net/http and go-router
// transports.
type API struct {
	Mock      *mockapi.Client
	Commands  Executor
	Queries   Queries
	Charts    *charts.Renderer
	Broadcast *catalog.BroadcastHook
	Telemetry telemetry.Recorder
}

// Fetch reads a mock API endpoint.
func (a *API) Fetch(ctx context.Context, endpoint string, params mockapi.Params) (any, error) {
	if a.Mock == nil {
		return nil, ErrNoMockAPI
	}
	return a.Mock.Get(ctx, endpoint, params)
}

// Send posts to a mock API write endpoint.
func (a *API) Send(ctx context.Context, endpoint string, payload mockapi.Params) (any, error) {
	if a.Mock == nil {
		return nil, ErrNoMockAPI
	}
	return a.Mock.Post(ctx, endpoint, payload)
}

// ApplyPreset switches the simulated network conditions.
func (a *API) ApplyPreset(name string) (mockapi.Conditions, error) {
	if a.Mock == nil {
		return mockapi.Conditions{}, ErrNoMockAPI
	}
	if err := a.Mock.ApplyPreset(name); err != nil {
		return mockapi.Conditions{}, err
	}
	return a.Mock.Conditions(), nil
}

// RenderChart fetches endpoint and renders it as kind.
func (a *API) RenderChart(ctx context.Context, endpoint, kind string, params mockapi.Params) (string, error) {
	if a.Charts == nil {
		return "", ErrNoRenderer
	}
	v, err := a.Fetch(ctx, endpoint, params)
	if err != nil {
		return "", err
	}
	return a.Charts.RenderValue(endpoint, kind, "", v)
}

func (a *API) ListProducts(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	if a.Queries.List == nil {
		return nil, ErrNoCatalog
	}
	return a.Queries.List.Query(ctx, q)
}

func (a *API) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	if a.Queries.Get == nil {
		return catalog.Product{}, ErrNoCatalog
	}
	return a.Queries.Get.Query(ctx, queries.ProductInput{ID: id})
}

func (a *API) ProductStats(ctx context.Context) (catalog.Stats, error) {
	if a.Queries.Stats == nil {
		return catalog.Stats{}, ErrNoCatalog
	}
	return a.Queries.Stats.Query(ctx, queries.StatsInput{})
}

func (a *API) CreateProduct(ctx context.Context, in catalog.Input, actor string) (catalog.Product, error) {
	if a.Commands == nil {
		return catalog.Product{}, ErrNoCatalog
	}
	var out catalog.Product
	err := a.Commands.Create(ctx, commands.CreateProductInput{Product: in, ActorID: actor, Result: &out})
	return out, err
}

func (a *API) UpdateProduct(ctx context.Context, id string, in catalog.Input, actor string) (catalog.Product, error) {
	if a.Commands == nil {
		return catalog.Product{}, ErrNoCatalog
	}
	var out catalog.Product
	err := a.Commands.Update(ctx, commands.UpdateProductInput{ID: id, Changes: in, ActorID: actor, Result: &out})
	return out, err
}

func (a *API) DeleteProduct(ctx context.Context, id string) error {
	if a.Commands == nil {
		return ErrNoCatalog
	}
	return a.Commands.Delete(ctx, commands.DeleteProductInput{ID: id})
}

// BulkRequest is the body of the bulk endpoints.
type BulkRequest struct {
	IDs    []string       `json:"ids"`
	Status catalog.Status `json:"status,omitempty"`
}

// BulkResponse reports how many products changed.
type BulkResponse struct {
	Affected int `json:"affected"`
}

func (a *API) BulkDelete(ctx context.Context, req BulkRequest) (BulkResponse, error) {
	if a.Commands == nil {
		return BulkResponse{}, ErrNoCatalog
	}
	var n int
	err := a.Commands.BulkDelete(ctx, commands.BulkInput{IDs: req.IDs, Affected: &n})
	return BulkResponse{Affected: n}, err
}

func (a *API) BulkStatus(ctx context.Context, req BulkRequest) (BulkResponse, error) {
	if a.Commands == nil {
		return BulkResponse{}, ErrNoCatalog
	}
	var n int
	err := a.Commands.BulkStatus(ctx, commands.BulkInput{IDs: req.IDs, Status: req.Status, Affected: &n})
	return BulkResponse{Affected: n}, err
}

func (a *API) ImportProducts(ctx context.Context, inputs []catalog.Input, actor string) (catalog.ImportResult, error) {
	if a.Commands == nil {
		return catalog.ImportResult{}, ErrNoCatalog
	}
	var out catalog.ImportResult
	err := a.Commands.Import(ctx, commands.ImportInput{Products: inputs, ActorID: actor, Result: &out})
	return out, err
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var validation *catalog.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.Is(err, catalog.ErrInvalidProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mockapi.ErrEndpointNotFound):
		return http.StatusNotFound
	case errors.Is(err, mockapi.ErrNetworkUnavailable), errors.Is(err, mockapi.ErrSimulatedNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, mockapi.ErrUnknownPreset), errors.Is(err, charts.ErrUnsupportedKind):
		return http.StatusBadRequest
	case errors.Is(err, charts.ErrNotChartable), errors.Is(err, charts.ErrEmptyChart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewErrorBody includes per-field messages for validation failures.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var validation *catalog.ValidationError
	if errors.As(err, &validation) {
		body.Fields = validation.Fields
	}
	return body
}

// ParamsFromValues turns a query string into mock API params. Single values
// become strings; repeated keys keep every value.
func ParamsFromValues(values url.Values) mockapi.Params {
	params := mockapi.Params{}
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			params[k] = vs[0]
		default:
			params[k] = append([]string(nil), vs...)
		}
	}
	return params
}

// QueryFromValues reads search, category, status, lowStock, sortBy and
// sortOrder.
func QueryFromValues(values url.Values) catalog.Query {
	low, _ := strconv.ParseBool(values.Get("lowStock"))
	return catalog.Query{
		Search:    strings.TrimSpace(values.Get("search")),
		Category:  values.Get("category"),
		Status:    catalog.Status(values.Get("status")),
		LowStock:  low,
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
	}
}
