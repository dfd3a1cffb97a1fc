package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/httpapi"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/synth"
)

func TestHTTPClientFetchSendsParamsAndAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/top" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "3" {
			t.Fatalf("expected limit=3, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected auth header, got %s", got)
		}
		_, _ = w.Write([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/", APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	raw, err := client.Fetch(context.Background(), "/api/products/top", map[string]string{"limit": "3"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) != 3 {
		t.Fatalf("unexpected payload %s (%v)", raw, err)
	}
}

func TestHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func TestHTTPClientRejectsNonAPIEndpoint(t *testing.T) {
	client, err := NewHTTPClient(HTTPConfig{BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "/products", nil); err == nil {
		t.Fatalf("expected error for non api endpoint")
	}
}

func TestHTTPClientAgainstServer(t *testing.T) {
	api := newLocalAPI()
	server := httptest.NewServer(httpapi.NewHandlers(api).Routes())
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, ActorID: "cli"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	endpoints, err := client.Endpoints(ctx)
	if err != nil || len(endpoints) == 0 {
		t.Fatalf("endpoints: %v %v", endpoints, err)
	}

	products, err := client.Products(ctx, catalog.Query{Category: "Electronics"})
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 electronics, got %d", len(products))
	}

	created, err := client.CreateProduct(ctx, validInput("Camping Stove"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := client.Product(ctx, created.ID)
	if err != nil || got.Name != "Camping Stove" {
		t.Fatalf("product: %#v %v", got, err)
	}
	stats, err := client.Stats(ctx)
	if err != nil || stats.Total != 6 {
		t.Fatalf("stats: %#v %v", stats, err)
	}
	if err := client.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = client.Product(ctx, created.ID)
	var remote *RemoteError
	if !errors.As(err, &remote) || remote.Status != http.StatusNotFound {
		t.Fatalf("expected remote 404, got %v", err)
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = client.CreateProduct(ctx, catalog.Input{Price: catalog.Ptr(-1.0)})
	if !errors.Is(err, catalog.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
	if !errors.As(err, &remote) || len(remote.Fields) == 0 {
		t.Fatalf("expected field errors, got %v", err)
	}

	_, err = client.Fetch(ctx, "/api/unknown", nil)
	if !errors.Is(err, mockapi.ErrEndpointNotFound) {
		t.Fatalf("expected ErrEndpointNotFound, got %v", err)
	}
}

func newLocalAPI() *httpapi.API {
	store := catalog.NewStore(catalog.Options{DisableLatency: true})
	quiet := mockapi.Conditions{Online: true}
	mock := mockapi.NewSynthetic(mockapi.Options{
		Conditions: &quiet,
		Random:     synth.NewRandom(5),
		Sleep:      func(context.Context, time.Duration) error { return nil },
	})
	return &httpapi.API{
		Mock:     mock,
		Commands: httpapi.NewCommandExecutor(store, nil),
		Queries:  httpapi.NewQueries(store),
	}
}

func validInput(name string) catalog.Input {
	return catalog.Input{
		Name:     catalog.Ptr(name),
		Category: catalog.Ptr("Sports"),
		Price:    catalog.Ptr(59.0),
		Cost:     catalog.Ptr(20.0),
		Stock:    catalog.Ptr(15),
		MinStock: catalog.Ptr(2),
		MaxStock: catalog.Ptr(50),
	}
}
