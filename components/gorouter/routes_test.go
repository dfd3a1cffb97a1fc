package gorouter

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/charts"
	"github.com/goliatone/go-demodata/components/httpapi"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/synth"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router is missing")
	}
	if err := Register(Config[struct{}]{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when api is missing")
	}
}

func TestRegisterMountsRoutes(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newTestAPI(t)}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	for _, key := range []string{
		"GET:/demo/endpoints",
		"POST:/demo/fetch",
		"POST:/demo/send",
		"GET:/demo/network",
		"PUT:/demo/network/:preset",
		"POST:/demo/charts",
		"GET:/demo/products",
		"POST:/demo/products",
		"GET:/demo/products/:id",
		"PUT:/demo/products/:id",
		"DELETE:/demo/products/:id",
		"GET:/demo/products-stats",
		"POST:/demo/products-bulk/delete",
		"POST:/demo/products-bulk/status",
		"POST:/demo/products-import",
	} {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
	if _, ok := mock.ws["/demo/products-ws"]; !ok {
		t.Fatalf("expected websocket route")
	}
}

func TestFetchRoute(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newTestAPI(t), BasePath: "/x"}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.body = mustJSON(t, FetchRequest{Endpoint: mockapi.EndpointTopProducts, Params: mockapi.Params{"limit": 2}})
	if err := mock.routes["POST:/x/fetch"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.status, ctx.body)
	}
	var rows []map[string]any
	if err := json.Unmarshal(ctx.body, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	ctx = newMockContext()
	ctx.body = mustJSON(t, FetchRequest{Endpoint: "/api/unknown"})
	if err := mock.routes["POST:/x/fetch"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.status)
	}
}

func TestPresetRoute(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newTestAPI(t)}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	ctx.params["preset"] = "nope"
	if err := mock.routes["PUT:/demo/network/:preset"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.status)
	}
}

func TestCreateAndQueryProducts(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newTestAPI(t)}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	ctx := newMockContext()
	ctx.locals["user_id"] = "admin"
	ctx.body = mustJSON(t, catalog.Input{
		Name:     catalog.Ptr("Trail Shoes"),
		Category: catalog.Ptr("Sports"),
		Price:    catalog.Ptr(89.0),
		Cost:     catalog.Ptr(40.0),
		Stock:    catalog.Ptr(12),
		MinStock: catalog.Ptr(3),
		MaxStock: catalog.Ptr(40),
	})
	if err := mock.routes["POST:/demo/products"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", ctx.status, ctx.body)
	}

	ctx = newMockContext()
	ctx.query["category"] = "Sports"
	if err := mock.routes["GET:/demo/products"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var products []catalog.Product
	if err := json.Unmarshal(ctx.body, &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, p := range products {
		if p.Category != "Sports" {
			t.Fatalf("unexpected category %q", p.Category)
		}
		if p.Name == "Trail Shoes" {
			found = true
		}
	}
	if !found {
		t.Fatalf("created product missing from list")
	}

	ctx = newMockContext()
	ctx.body = mustJSON(t, catalog.Input{Price: catalog.Ptr(-3.0)})
	if err := mock.routes["POST:/demo/products"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", ctx.status)
	}
	var body httpapi.ErrorBody
	if err := json.Unmarshal(ctx.body, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Fields) == 0 {
		t.Fatalf("expected field errors")
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newTestAPI(t)}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	ctx.params["id"] = "missing"
	if err := mock.routes["DELETE:/demo/products/:id"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.status)
	}
}

func TestChartRouteSendsHTML(t *testing.T) {
	mock := newMockRouter()
	if err := Register(Config[struct{}]{Router: mock, API: newTestAPI(t)}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	ctx := newMockContext()
	ctx.body = mustJSON(t, FetchRequest{Endpoint: mockapi.EndpointRevenueChart})
	if err := mock.routes["POST:/demo/charts"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.headers["Content-Type"] != "text/html; charset=utf-8" {
		t.Fatalf("expected html content type, got %q", ctx.headers["Content-Type"])
	}
	if len(ctx.body) == 0 {
		t.Fatalf("expected chart body")
	}
}

// --- Test helpers ---

func newTestAPI(t *testing.T) *httpapi.API {
	t.Helper()
	store := catalog.NewStore(catalog.Options{DisableLatency: true})
	quiet := mockapi.Conditions{Online: true}
	mock := mockapi.NewSynthetic(mockapi.Options{
		Conditions: &quiet,
		Random:     synth.NewRandom(3),
		Sleep:      func(context.Context, time.Duration) error { return nil },
	})
	broadcast := catalog.NewBroadcastHook()
	store.AddHook(broadcast)
	return &httpapi.API{
		Mock:      mock,
		Commands:  httpapi.NewCommandExecutor(store, nil),
		Queries:   httpapi.NewQueries(store),
		Charts:    charts.NewRenderer(charts.WithCache(nil)),
		Broadcast: broadcast,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

type mockRouter struct {
	router.Router[struct{}]
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	m.routes[method+":"+m.prefix+path] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.PUT), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[m.prefix+path] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct {
	router.RouteInfo
}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

// routerContext lets mockContext embed router.Context without the field
// name clashing with its Context method.
type routerContext = router.Context

type mockContext struct {
	routerContext
	ctx     context.Context
	headers map[string]string
	body    []byte
	locals  map[any]any
	params  map[string]string
	query   map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
		query:   map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Header(k string) string {
	return m.headers[k]
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}
