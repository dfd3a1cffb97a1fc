package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("prod_%03d", n)
	}
}

type recordingHook struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (h *recordingHook) ProductsChanged(_ context.Context, e ChangeEvent) error {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	return nil
}

func (h *recordingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Reason
	}
	return out
}

// failingBlobStore fails every save after the first n.
type failingBlobStore struct {
	*MemoryBlobStore
	allowed int
}

func (f *failingBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if f.allowed <= 0 {
		return fmt.Errorf("disk full")
	}
	f.allowed--
	return f.MemoryBlobStore.Save(ctx, key, data)
}

func newTestStore(opts Options) (*Store, *testClock, *recordingHook) {
	clock := newTestClock()
	hook := &recordingHook{}
	if opts.Clock == nil {
		opts.Clock = clock.Now
	}
	if opts.IDs == nil {
		opts.IDs = sequentialIDs()
	}
	opts.DisableLatency = true
	opts.Hooks = append(opts.Hooks, hook)
	return NewStore(opts), clock, hook
}

func widgetInput() Input {
	return Input{
		Name:        Ptr("Widget"),
		Description: Ptr("A simple widget for testing"),
		Category:    Ptr("Electronics"),
		Price:       Ptr(19.99),
		Stock:       Ptr(50),
		MinStock:    Ptr(5),
	}
}
