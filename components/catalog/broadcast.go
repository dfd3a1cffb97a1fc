package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 8

// BroadcastHook fans catalog change events out to in-process subscribers,
// WebSocket clients and SSE streams. Subscribers may narrow the stream to a
// set of reasons. Events a slow subscriber cannot take are dropped and
// counted instead of blocking the store.
type BroadcastHook struct {
	mu      sync.RWMutex
	subs    map[int]*subscriber
	next    int
	seq     uint64
	last    ChangeEvent
	hasLast bool
	dropped atomic.Int64
}

type subscriber struct {
	ch      chan ChangeEvent
	reasons []string
}

func (s *subscriber) wants(reason string) bool {
	return len(s.reasons) == 0 || slices.Contains(s.reasons, reason)
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]*subscriber)}
}

// ProductsChanged satisfies ChangeHook.
func (h *BroadcastHook) ProductsChanged(_ context.Context, event ChangeEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	h.last, h.hasLast = event, true
	for _, s := range h.subs {
		if !s.wants(event.Reason) {
			continue
		}
		select {
		case s.ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe returns a channel of change events and a cancel func. With no
// reasons every event is delivered.
func (h *BroadcastHook) Subscribe(reasons ...string) (<-chan ChangeEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	sub := &subscriber{ch: make(chan ChangeEvent, subscriberBuffer), reasons: normalizeReasons(reasons)}
	h.subs[id] = sub
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Last returns the most recent event and the number of events seen so far.
func (h *BroadcastHook) Last() (ChangeEvent, uint64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.seq, h.hasLast
}

// Subscribers counts active subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped counts events discarded because a subscriber's buffer was full.
func (h *BroadcastHook) Dropped() int64 {
	return h.dropped.Load()
}

// StreamRequest is the subscription read from a stream URL: repeated or
// comma separated ?reason= values and ?replay=true to start with the last
// event.
type StreamRequest struct {
	Reasons []string
	Replay  bool
}

// ParseStreamRequest reads a StreamRequest from r's query string.
func ParseStreamRequest(r *http.Request) StreamRequest {
	q := r.URL.Query()
	replay, _ := strconv.ParseBool(q.Get("replay"))
	var reasons []string
	for _, v := range q["reason"] {
		reasons = append(reasons, strings.Split(v, ",")...)
	}
	return StreamRequest{Reasons: normalizeReasons(reasons), Replay: replay}
}

// open subscribes per req and returns the replayed event, if any.
func (h *BroadcastHook) open(req StreamRequest) (<-chan ChangeEvent, func(), *ChangeEvent) {
	events, cancel := h.Subscribe(req.Reasons...)
	if !req.Replay {
		return events, cancel, nil
	}
	last, _, ok := h.Last()
	if !ok || !(&subscriber{reasons: req.Reasons}).wants(last.Reason) {
		return events, cancel, nil
	}
	return events, cancel, &last
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams change events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel, replay := h.open(ParseStreamRequest(r))
	defer cancel()
	if replay != nil {
		if err := conn.WriteJSON(replay); err != nil {
			return
		}
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams change events as Server-Sent Events named after their
// reason.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel, replay := h.open(ParseStreamRequest(r))
	defer cancel()

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	flush()
	if replay != nil {
		if writeSSE(w, *replay) != nil {
			return
		}
		flush()
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if writeSSE(w, event) != nil {
				return
			}
			flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Reason, data)
	return err
}

func normalizeReasons(in []string) []string {
	var out []string
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r != "" && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}
