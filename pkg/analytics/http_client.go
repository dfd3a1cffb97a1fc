package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/httpapi"
	"github.com/goliatone/go-demodata/components/mockapi"
)

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	ActorID    string
	HTTPClient *http.Client
}

// HTTPClient talks to a running demo data server.
type HTTPClient struct {
	baseURL string
	apiKey  string
	actorID string
	client  *http.Client
}

// RemoteError is a non-2xx reply. It unwraps to the matching domain
// sentinel so callers can use errors.Is across the wire.
type RemoteError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("analytics: remote error %d: %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		if strings.Contains(e.Message, "endpoint") {
			return mockapi.ErrEndpointNotFound
		}
		return catalog.ErrNotFound
	case http.StatusConflict:
		return catalog.ErrDuplicateSKU
	case http.StatusUnprocessableEntity:
		return catalog.ErrInvalidProduct
	case http.StatusServiceUnavailable:
		return mockapi.ErrNetworkUnavailable
	case http.StatusBadRequest:
		if strings.Contains(e.Message, "preset") {
			return mockapi.ErrUnknownPreset
		}
	}
	return nil
}

// NewHTTPClient builds a client for the server at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		actorID: cfg.ActorID,
		client:  httpClient,
	}, nil
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Endpoints(ctx context.Context) ([]string, error) {
	var resp struct {
		Endpoints []string `json:"endpoints"`
	}
	if err := c.do(ctx, http.MethodGet, "/endpoints", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Endpoints, nil
}

// Fetch calls GET endpoint with params as the query string.
func (c *HTTPClient) Fetch(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	if !strings.HasPrefix(endpoint, "/api/") {
		return nil, fmt.Errorf("analytics: endpoint %q must start with /api/", endpoint)
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	path := endpoint
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) Products(ctx context.Context, query catalog.Query) ([]catalog.Product, error) {
	values := url.Values{}
	set := func(k, v string) {
		if v != "" {
			values.Set(k, v)
		}
	}
	set("search", query.Search)
	set("category", query.Category)
	set("status", string(query.Status))
	set("sortBy", query.SortBy)
	set("sortOrder", query.SortOrder)
	if query.LowStock {
		values.Set("lowStock", "true")
	}
	path := "/products"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	var out []catalog.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Product(ctx context.Context, id string) (catalog.Product, error) {
	var out catalog.Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *HTTPClient) CreateProduct(ctx context.Context, in catalog.Input) (catalog.Product, error) {
	var out catalog.Product
	err := c.do(ctx, http.MethodPost, "/products", in, &out)
	return out, err
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) Stats(ctx context.Context) (catalog.Stats, error) {
	var out catalog.Stats
	err := c.do(ctx, http.MethodGet, "/products/stats", nil, &out)
	return out, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("analytics: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.actorID != "" {
		req.Header.Set(httpapi.ActorHeader, c.actorID)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return decodeRemoteError(resp)
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

func decodeRemoteError(resp *http.Response) error {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	remote := &RemoteError{Status: resp.StatusCode, Message: strings.TrimSpace(buf.String())}
	var body httpapi.ErrorBody
	if err := json.Unmarshal(buf.Bytes(), &body); err == nil && body.Error != "" {
		remote.Message = body.Error
		remote.Fields = body.Fields
	}
	return remote
}
