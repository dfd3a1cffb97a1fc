package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/telemetry"
)

// ActorHeader carries the caller identity for catalog writes.
const ActorHeader = "X-Actor-ID"

// Handlers exposes the API over net/http.
type Handlers struct {
	API *API
}

// NewHandlers wraps api.
func NewHandlers(api *API) *Handlers {
	return &Handlers{API: api}
}

// Routes returns a mux with every endpoint registered under its method.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /endpoints", h.HandleEndpoints)
	mux.HandleFunc("GET /api/{path...}", h.HandleFetch)
	mux.HandleFunc("POST /api/{path...}", h.HandleSend)
	mux.HandleFunc("GET /network", h.HandleNetwork)
	mux.HandleFunc("PUT /network/{preset}", h.HandleApplyPreset)
	mux.HandleFunc("DELETE /cache", h.HandleClearCache)
	mux.HandleFunc("GET /charts", h.HandleChart)

	mux.HandleFunc("GET /products", h.HandleListProducts)
	mux.HandleFunc("POST /products", h.HandleCreateProduct)
	mux.HandleFunc("GET /products/stats", h.HandleProductStats)
	mux.HandleFunc("POST /products/bulk/delete", h.HandleBulkDelete)
	mux.HandleFunc("POST /products/bulk/status", h.HandleBulkStatus)
	mux.HandleFunc("POST /products/import", h.HandleImport)
	mux.HandleFunc("GET /products/{id}", h.HandleGetProduct)
	mux.HandleFunc("PUT /products/{id}", h.HandleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.HandleDeleteProduct)
	if h.API.Broadcast != nil {
		mux.HandleFunc("GET /products/ws", h.API.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET /products/events", h.API.Broadcast.ServeSSE)
	}
	return mux
}

func (h *Handlers) HandleEndpoints(w http.ResponseWriter, _ *http.Request) {
	if h.API.Mock == nil {
		h.fail(w, nil, ErrNoMockAPI)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoints": h.API.Mock.Endpoints(),
		"presets":   mockapi.PresetNames(),
	})
}

func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	endpoint := "/api/" + r.PathValue("path")
	data, err := h.API.Fetch(r.Context(), endpoint, ParamsFromValues(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) HandleSend(w http.ResponseWriter, r *http.Request) {
	payload := mockapi.Params{}
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.API.Send(r.Context(), "/api/"+r.PathValue("path"), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	if h.API.Mock == nil {
		h.fail(w, r, ErrNoMockAPI)
		return
	}
	writeJSON(w, http.StatusOK, h.API.Mock.Conditions())
}

func (h *Handlers) HandleApplyPreset(w http.ResponseWriter, r *http.Request) {
	conditions, err := h.API.ApplyPreset(r.PathValue("preset"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conditions)
}

func (h *Handlers) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if h.API.Mock == nil {
		h.fail(w, r, ErrNoMockAPI)
		return
	}
	h.API.Mock.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	endpoint := values.Get("endpoint")
	if endpoint == "" {
		http.Error(w, "endpoint is required", http.StatusBadRequest)
		return
	}
	kind := values.Get("kind")
	values.Del("endpoint")
	values.Del("kind")
	page, err := h.API.RenderChart(r.Context(), endpoint, kind, ParamsFromValues(values))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

func (h *Handlers) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.API.ListProducts(r.Context(), QueryFromValues(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handlers) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.API.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) HandleProductStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.API.ProductStats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Input
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	product, err := h.API.CreateProduct(r.Context(), payload, actor(r, payload))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handlers) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Input
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	product, err := h.API.UpdateProduct(r.Context(), r.PathValue("id"), payload, actor(r, payload))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handlers) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.API.DeleteProduct(withActor(r), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var payload BulkRequest
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := h.API.BulkDelete(withActor(r), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) HandleBulkStatus(w http.ResponseWriter, r *http.Request) {
	var payload BulkRequest
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := h.API.BulkStatus(withActor(r), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	var payload []catalog.Input
	if err := decode(r, &payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.API.ImportProducts(r.Context(), payload, r.Header.Get(ActorHeader))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if r != nil {
		telemetry.Normalize(h.API.Telemetry).Record(r.Context(), "httpapi.error", map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
			"error":  err.Error(),
		})
	}
	writeJSON(w, status, NewErrorBody(err))
}

func actor(r *http.Request, in catalog.Input) string {
	if id := strings.TrimSpace(r.Header.Get(ActorHeader)); id != "" {
		return id
	}
	return in.Actor
}

// withActor tags the request context with the X-Actor-ID identity for writes
// that carry no body actor.
func withActor(r *http.Request) context.Context {
	return catalog.WithActor(r.Context(), strings.TrimSpace(r.Header.Get(ActorHeader)))
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
