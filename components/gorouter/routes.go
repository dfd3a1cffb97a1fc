package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/httpapi"
	"github.com/goliatone/go-demodata/components/mockapi"
)

// Config wires go-router with the demo data API.
type Config[T any] struct {
	Router   router.Router[T]
	API      *httpapi.API
	BasePath string
	Routes   RouteConfig
}

// RouteConfig customizes the relative paths of every endpoint.
type RouteConfig struct {
	Endpoints string
	Fetch     string
	Send      string
	Network   string
	Preset    string
	Chart     string
	Products  string
	ProductID string
	Stats     string
	Bulk      string
	Status    string
	Import    string
	WebSocket string
}

// FetchRequest is the body of the fetch and send routes.
type FetchRequest struct {
	Endpoint string         `json:"endpoint"`
	Params   mockapi.Params `json:"params,omitempty"`
	Kind     string         `json:"kind,omitempty"`
}

// Register mounts the mock API, catalog and change stream routes.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/demo"
	}
	group := cfg.Router.Group(base)

	if cfg.API.Mock != nil {
		registerMockAPI(group, cfg.API, routes)
	}
	if cfg.API.Commands != nil {
		registerCatalog(group, cfg.API, routes)
	}
	if cfg.API.Broadcast != nil {
		registerWebSocket(group, cfg.API.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerMockAPI[T any](r router.Router[T], api *httpapi.API, routes RouteConfig) {
	r.Get(routes.Endpoints, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, map[string]any{
			"endpoints": api.Mock.Endpoints(),
			"presets":   mockapi.PresetNames(),
		})
	}))

	r.Post(routes.Fetch, router.WrapHandler(func(ctx router.Context) error {
		var payload FetchRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		data, err := api.Fetch(ctx.Context(), payload.Endpoint, payload.Params)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, data)
	}))

	r.Post(routes.Send, router.WrapHandler(func(ctx router.Context) error {
		var payload FetchRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		data, err := api.Send(ctx.Context(), payload.Endpoint, payload.Params)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, data)
	}))

	r.Get(routes.Network, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, api.Mock.Conditions())
	}))

	r.Put(routes.Preset, router.WrapHandler(func(ctx router.Context) error {
		conditions, err := api.ApplyPreset(ctx.Param("preset"))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, conditions)
	}))

	if api.Charts != nil {
		r.Post(routes.Chart, router.WrapHandler(func(ctx router.Context) error {
			var payload FetchRequest
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			page, err := api.RenderChart(ctx.Context(), payload.Endpoint, payload.Kind, payload.Params)
			if err != nil {
				return respondError(ctx, httpapi.StatusFor(err), err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send([]byte(page))
		}))
	}
}

func registerCatalog[T any](r router.Router[T], api *httpapi.API, routes RouteConfig) {
	r.Get(routes.Products, router.WrapHandler(func(ctx router.Context) error {
		products, err := api.ListProducts(ctx.Context(), queryFrom(ctx))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, products)
	}))

	r.Get(routes.Stats, router.WrapHandler(func(ctx router.Context) error {
		stats, err := api.ProductStats(ctx.Context())
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, stats)
	}))

	r.Get(routes.ProductID, router.WrapHandler(func(ctx router.Context) error {
		product, err := api.GetProduct(ctx.Context(), ctx.Param("id"))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, product)
	}))

	r.Post(routes.Products, router.WrapHandler(func(ctx router.Context) error {
		var payload catalog.Input
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		product, err := api.CreateProduct(ctx.Context(), payload, actorFrom(ctx, payload))
		if err != nil {
			return respondValidation(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, product)
	}))

	r.Put(routes.ProductID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("product id is required"))
		}
		var payload catalog.Input
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		product, err := api.UpdateProduct(ctx.Context(), id, payload, actorFrom(ctx, payload))
		if err != nil {
			return respondValidation(ctx, err)
		}
		return ctx.JSON(http.StatusOK, product)
	}))

	r.Delete(routes.ProductID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("product id is required"))
		}
		if err := api.DeleteProduct(ctx.Context(), id); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}))

	r.Post(routes.Bulk, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.BulkRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		out, err := api.BulkDelete(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, out)
	}))

	r.Post(routes.Status, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.BulkRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		out, err := api.BulkStatus(ctx.Context(), payload)
		if err != nil {
			return respondValidation(ctx, err)
		}
		return ctx.JSON(http.StatusOK, out)
	}))

	r.Post(routes.Import, router.WrapHandler(func(ctx router.Context) error {
		var payload []catalog.Input
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		result, err := api.ImportProducts(ctx.Context(), payload, ctx.Header(httpapi.ActorHeader))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *catalog.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func queryFrom(ctx router.Context) catalog.Query {
	low, _ := strconv.ParseBool(ctx.Query("lowStock"))
	return catalog.Query{
		Search:    strings.TrimSpace(ctx.Query("search")),
		Category:  ctx.Query("category"),
		Status:    catalog.Status(ctx.Query("status")),
		LowStock:  low,
		SortBy:    ctx.Query("sortBy"),
		SortOrder: ctx.Query("sortOrder"),
	}
}

func actorFrom(ctx router.Context, in catalog.Input) string {
	if v, ok := ctx.Locals("user_id").(string); ok && v != "" {
		return v
	}
	if id := strings.TrimSpace(ctx.Header(httpapi.ActorHeader)); id != "" {
		return id
	}
	return in.Actor
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func respondValidation(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err))
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Endpoints == "" {
		routes.Endpoints = "/endpoints"
	}
	if routes.Fetch == "" {
		routes.Fetch = "/fetch"
	}
	if routes.Send == "" {
		routes.Send = "/send"
	}
	if routes.Network == "" {
		routes.Network = "/network"
	}
	if routes.Preset == "" {
		routes.Preset = "/network/:preset"
	}
	if routes.Chart == "" {
		routes.Chart = "/charts"
	}
	if routes.Products == "" {
		routes.Products = "/products"
	}
	if routes.ProductID == "" {
		routes.ProductID = "/products/:id"
	}
	if routes.Stats == "" {
		routes.Stats = "/products-stats"
	}
	if routes.Bulk == "" {
		routes.Bulk = "/products-bulk/delete"
	}
	if routes.Status == "" {
		routes.Status = "/products-bulk/status"
	}
	if routes.Import == "" {
		routes.Import = "/products-import"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/products-ws"
	}
	return routes
}
