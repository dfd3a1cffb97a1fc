package telemetry

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Recorder records domain events for observability.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noop struct{}

func (noop) Record(context.Context, string, map[string]any) {}

// Noop returns a recorder that drops every event.
func Noop() Recorder {
	return noop{}
}

// Normalize replaces a nil recorder with Noop.
func Normalize(r Recorder) Recorder {
	if r == nil {
		return noop{}
	}
	return r
}

// SlogRecorder writes events as structured log records.
type SlogRecorder struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlog adapts logger. A nil logger uses slog.Default.
func NewSlog(logger *slog.Logger, level slog.Level) *SlogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogRecorder{logger: logger, level: level}
}

// Record logs event with payload keys in sorted order.
func (s *SlogRecorder) Record(ctx context.Context, event string, payload map[string]any) {
	if !s.logger.Enabled(ctx, s.level) {
		return
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	s.logger.LogAttrs(ctx, s.level, event, attrs...)
}

// Event is a captured record.
type Event struct {
	Name    string
	Payload map[string]any
}

// Memory keeps events in memory. Useful in tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// Record appends the event.
func (m *Memory) Record(_ context.Context, event string, payload map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Name: event, Payload: payload})
}

// Events returns a copy of the captured events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Count returns how many events named event were recorded.
func (m *Memory) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Name == event {
			n++
		}
	}
	return n
}
