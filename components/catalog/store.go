package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-demodata/components/synth"
	"github.com/goliatone/go-demodata/components/telemetry"
)

type window struct{ min, max int }

// Simulated latency per operation, in milliseconds.
var (
	delayList     = window{300, 800}
	delayGet      = window{100, 300}
	delayWrite    = window{300, 800}
	delayDelete   = window{200, 500}
	delayFilter   = window{200, 400}
	delaySearch   = window{300, 600}
	delayImport   = window{1000, 2000}
	delayBulk     = window{300, 800}
	delayStats    = window{100, 300}
	delayClearAll = window{0, 0}
)

// Options configures a Store.
type Options struct {
	Storage        BlobStore
	Key            string
	Validator      *Validator
	Hooks          []ChangeHook
	Telemetry      telemetry.Recorder
	Clock          func() time.Time
	IDs            func() string
	Random         *synth.Random
	Sleep          func(ctx context.Context, d time.Duration) error
	DisableLatency bool
	SkipSamples    bool
}

// Store is the product catalog. Every mutation validates, persists the whole
// list as one snapshot and only then swaps the in-memory list, so a failed
// write leaves the catalog untouched.
type Store struct {
	mu       sync.RWMutex
	products []Product
	loaded   bool

	storage   BlobStore
	key       string
	validator *Validator
	telemetry telemetry.Recorder
	now       func() time.Time
	ids       func() string
	samples   bool

	hookMu sync.RWMutex
	hooks  []ChangeHook

	rngMu   sync.Mutex
	rng     *synth.Random
	sleep   func(ctx context.Context, d time.Duration) error
	latency bool
}

// NewStore builds a store with safe defaults: in-memory storage, uuid ids,
// simulated latency and sample seeding.
func NewStore(opts Options) *Store {
	s := &Store{
		storage:   opts.Storage,
		key:       opts.Key,
		validator: opts.Validator,
		telemetry: telemetry.Normalize(opts.Telemetry),
		now:       opts.Clock,
		ids:       opts.IDs,
		samples:   !opts.SkipSamples,
		hooks:     append([]ChangeHook(nil), opts.Hooks...),
		rng:       opts.Random,
		sleep:     opts.Sleep,
		latency:   !opts.DisableLatency,
	}
	if s.storage == nil {
		s.storage = NewMemoryBlobStore()
	}
	if s.key == "" {
		s.key = DefaultStorageKey
	}
	if s.validator == nil {
		s.validator = NewValidator()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ids == nil {
		s.ids = func() string { return "prod_" + uuid.NewString() }
	}
	if s.rng == nil {
		s.rng = synth.NewRandom(time.Now().UnixNano())
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}
	return s
}

// AddHook registers a change hook.
func (s *Store) AddHook(h ChangeHook) {
	if h == nil {
		return
	}
	s.hookMu.Lock()
	s.hooks = append(s.hooks, h)
	s.hookMu.Unlock()
}

// Initialize loads the persisted snapshot, seeding samples when none exists.
// Every other method calls it lazily.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	data, err := s.storage.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrBlobNotFound):
		return s.seedLocked(ctx)
	case err != nil:
		return fmt.Errorf("catalog: load products: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.telemetry.Record(ctx, "catalog.snapshot_corrupt", map[string]any{"key": s.key, "error": err.Error()})
		return s.seedLocked(ctx)
	}
	s.products = snap.Products
	if s.products == nil {
		s.products = []Product{}
	}
	s.loaded = true
	return nil
}

func (s *Store) seedLocked(ctx context.Context) error {
	products := []Product{}
	if s.samples {
		products = SampleProducts(s.ids)
	}
	if err := s.persistLocked(ctx, products); err != nil {
		return err
	}
	s.products = products
	s.loaded = true
	s.telemetry.Record(ctx, "catalog.seeded", map[string]any{"count": len(products)})
	return nil
}

func (s *Store) persistLocked(ctx context.Context, products []Product) error {
	data, err := json.Marshal(Snapshot{
		Version:     SnapshotVersion,
		Products:    products,
		LastUpdated: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("catalog: encode snapshot: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("catalog: save products: %w", err)
	}
	return nil
}

// snapshot returns a deep copy of the current list.
func (s *Store) snapshot(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	if s.loaded {
		out := cloneAll(s.products)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return cloneAll(s.products), nil
}

// mutate runs fn against the current list under the write lock. fn returns
// the next list without touching the current one; it is persisted before it
// replaces the current list.
func (s *Store) mutate(ctx context.Context, reason string, fn func(current []Product) ([]Product, []string, error)) error {
	s.mu.Lock()
	if err := s.loadLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	next, ids, err := fn(s.products)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.products = next
	total := len(next)
	s.mu.Unlock()

	s.notify(ctx, ChangeEvent{
		Reason:     reason,
		ProductIDs: ids,
		Total:      total,
		Actor:      ActorFromContext(ctx),
		At:         s.now().UTC(),
	})
	return nil
}

func (s *Store) notify(ctx context.Context, event ChangeEvent) {
	s.telemetry.Record(ctx, "catalog.product."+event.Reason, map[string]any{
		"ids":   event.ProductIDs,
		"total": event.Total,
	})
	s.hookMu.RLock()
	hooks := append([]ChangeHook(nil), s.hooks...)
	s.hookMu.RUnlock()
	for _, h := range hooks {
		if err := h.ProductsChanged(ctx, event); err != nil {
			s.telemetry.Record(ctx, "catalog.hook_error", map[string]any{"reason": event.Reason, "error": err.Error()})
		}
	}
}

func (s *Store) pause(ctx context.Context, w window) error {
	if !s.latency || w.max <= 0 {
		return ctx.Err()
	}
	s.rngMu.Lock()
	ms := s.rng.Int(w.min, w.max)
	s.rngMu.Unlock()
	return s.sleep(ctx, time.Duration(ms)*time.Millisecond)
}

// All returns a copy of every product.
func (s *Store) All(ctx context.Context) ([]Product, error) {
	if err := s.pause(ctx, delayList); err != nil {
		return nil, err
	}
	return s.snapshot(ctx)
}

// Get returns one product or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Product, error) {
	if err := s.pause(ctx, delayGet); err != nil {
		return Product{}, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return Product{}, err
	}
	if i := indexOf(products, id); i >= 0 {
		return products[i], nil
	}
	return Product{}, notFound(id)
}

// Create validates in, assigns an id and timestamps, and appends the record.
// Status defaults to active, maxStock to 100, and a missing SKU is generated.
func (s *Store) Create(ctx context.Context, in Input) (Product, error) {
	if err := s.pause(ctx, delayWrite); err != nil {
		return Product{}, err
	}
	var created Product
	err := s.mutate(WithActor(ctx, in.Actor), ReasonCreated, func(current []Product) ([]Product, []string, error) {
		p, err := s.build(current, in)
		if err != nil {
			return nil, nil, err
		}
		created = p
		return append(cloneAll(current), p), []string{p.ID}, nil
	})
	if err != nil {
		return Product{}, err
	}
	return created.clone(), nil
}

func (s *Store) build(current []Product, in Input) (Product, error) {
	now := s.now().UTC()
	p := in.apply(Product{
		Status:   StatusActive,
		MaxStock: DefaultMaxStock,
		Tags:     []string{},
		Images:   []string{},
	})
	if p.SKU == "" {
		p.SKU = GenerateSKU(p.Name, p.Category, now)
	}
	if err := s.validator.Validate(p); err != nil {
		return Product{}, err
	}
	if skuTaken(current, p.SKU, "") {
		return Product{}, fmt.Errorf("%w: %s", ErrDuplicateSKU, p.SKU)
	}
	p.ID = s.ids()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.CreatedBy = in.Actor
	p.UpdatedBy = in.Actor
	return p, nil
}

// Update merges the non-nil fields of in onto product id. The id and
// creation time never change; the product's own SKU does not count as a
// duplicate.
func (s *Store) Update(ctx context.Context, id string, in Input) (Product, error) {
	if err := s.pause(ctx, delayWrite); err != nil {
		return Product{}, err
	}
	var updated Product
	err := s.mutate(WithActor(ctx, in.Actor), ReasonUpdated, func(current []Product) ([]Product, []string, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, nil, notFound(id)
		}
		p := in.apply(current[i].clone())
		if err := s.validator.Validate(p); err != nil {
			return nil, nil, err
		}
		if skuTaken(current, p.SKU, id) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, p.SKU)
		}
		p.UpdatedAt = s.now().UTC()
		if in.Actor != "" {
			p.UpdatedBy = in.Actor
		}
		next := cloneAll(current)
		next[i] = p
		updated = p
		return next, []string{id}, nil
	})
	if err != nil {
		return Product{}, err
	}
	return updated.clone(), nil
}

// Delete removes product id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.pause(ctx, delayDelete); err != nil {
		return err
	}
	return s.mutate(ctx, ReasonDeleted, func(current []Product) ([]Product, []string, error) {
		i := indexOf(current, id)
		if i < 0 {
			return nil, nil, notFound(id)
		}
		next := make([]Product, 0, len(current)-1)
		next = append(next, cloneAll(current[:i])...)
		next = append(next, cloneAll(current[i+1:])...)
		return next, []string{id}, nil
	})
}

// BulkDelete removes every id or none of them. Missing ids yield a
// *BulkError and leave the catalog unchanged.
func (s *Store) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if err := s.pause(ctx, delayBulk); err != nil {
		return 0, err
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	removed := 0
	err := s.mutate(ctx, ReasonBulkDeleted, func(current []Product) ([]Product, []string, error) {
		if missing := missingIDs(current, ids); len(missing) > 0 {
			return nil, nil, &BulkError{Op: "bulk delete", Missing: missing}
		}
		drop := toSet(ids)
		next := make([]Product, 0, len(current))
		for _, p := range current {
			if drop[p.ID] {
				continue
			}
			next = append(next, p.clone())
		}
		removed = len(current) - len(next)
		return next, ids, nil
	})
	return removed, err
}

// BulkUpdateStatus sets status on every id or none of them.
func (s *Store) BulkUpdateStatus(ctx context.Context, ids []string, status Status) (int, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		verr := &ValidationError{}
		verr.add("status", fieldMessages["status"])
		return 0, verr
	}
	if err := s.pause(ctx, delayBulk); err != nil {
		return 0, err
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	changed := 0
	err := s.mutate(ctx, ReasonStatusChanged, func(current []Product) ([]Product, []string, error) {
		if missing := missingIDs(current, ids); len(missing) > 0 {
			return nil, nil, &BulkError{Op: "bulk status", Missing: missing}
		}
		targets := toSet(ids)
		now := s.now().UTC()
		next := cloneAll(current)
		for i := range next {
			if targets[next[i].ID] {
				next[i].Status = status
				next[i].UpdatedAt = now
				changed++
			}
		}
		return next, ids, nil
	})
	return changed, err
}

// ImportFailure describes one rejected import item.
type ImportFailure struct {
	Index int    `json:"index"`
	Input Input  `json:"input"`
	Error string `json:"error"`
	err   error
}

// Unwrap exposes the underlying error.
func (f ImportFailure) Unwrap() error { return f.err }

// ImportResult lists the created products and the rejected inputs.
type ImportResult struct {
	Created []Product       `json:"success"`
	Failed  []ImportFailure `json:"errors"`
}

// Import creates each input independently. Valid items are kept even when
// others fail, and the batch is persisted once.
func (s *Store) Import(ctx context.Context, inputs []Input) (ImportResult, error) {
	if err := s.pause(ctx, delayImport); err != nil {
		return ImportResult{}, err
	}
	result := ImportResult{Created: []Product{}, Failed: []ImportFailure{}}
	errNothing := errors.New("nothing imported")
	err := s.mutate(ctx, ReasonImported, func(current []Product) ([]Product, []string, error) {
		next := cloneAll(current)
		var ids []string
		for i, in := range inputs {
			p, err := s.build(next, in)
			if err != nil {
				result.Failed = append(result.Failed, ImportFailure{Index: i, Input: in, Error: err.Error(), err: err})
				continue
			}
			next = append(next, p)
			ids = append(ids, p.ID)
			result.Created = append(result.Created, p.clone())
		}
		if len(ids) == 0 {
			return nil, nil, errNothing
		}
		return next, ids, nil
	})
	if errors.Is(err, errNothing) {
		return result, nil
	}
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// Clear removes every product.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.pause(ctx, delayClearAll); err != nil {
		return err
	}
	return s.mutate(ctx, ReasonCleared, func(current []Product) ([]Product, []string, error) {
		return []Product{}, nil, nil
	})
}

// Search matches term case-insensitively against name, description,
// category, SKU and tags.
func (s *Store) Search(ctx context.Context, term string) ([]Product, error) {
	if err := s.pause(ctx, delaySearch); err != nil {
		return nil, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := []Product{}
	for _, p := range products {
		if p.Matches(term) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByCategory returns products in category, compared case-insensitively.
func (s *Store) ByCategory(ctx context.Context, category string) ([]Product, error) {
	if err := s.pause(ctx, delayFilter); err != nil {
		return nil, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := []Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// LowStock returns products whose stock is at or below minStock.
func (s *Store) LowStock(ctx context.Context) ([]Product, error) {
	if err := s.pause(ctx, delayFilter); err != nil {
		return nil, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := []Product{}
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// List filters and sorts with q.
func (s *Store) List(ctx context.Context, q Query) ([]Product, error) {
	if err := s.pause(ctx, delayList); err != nil {
		return nil, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(products), nil
}

// Stats aggregates the current list.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	if err := s.pause(ctx, delayStats); err != nil {
		return Stats{}, err
	}
	products, err := s.snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(products), nil
}

// Products returns the current list without simulated latency. Read-side
// projections use it.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	return s.snapshot(ctx)
}

func indexOf(products []Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func skuTaken(products []Product, sku, exceptID string) bool {
	for _, p := range products {
		if p.ID != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func missingIDs(products []Product, ids []string) []string {
	present := make(map[string]bool, len(products))
	for _, p := range products {
		present[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func cloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.clone()
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
