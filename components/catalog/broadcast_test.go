package catalog

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()

	event := ChangeEvent{Reason: ReasonCreated, ProductIDs: []string{"p1"}, Total: 1}
	require.NoError(t, hook.ProductsChanged(context.Background(), event))
	select {
	case got := <-ch:
		assert.Equal(t, event, got)
	default:
		t.Fatal("expected event to be delivered")
	}
}

func TestBroadcastHookCancel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	assert.Equal(t, 1, hook.Subscribers())
	cancel()
	cancel()
	assert.Equal(t, 0, hook.Subscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	for range 20 {
		require.NoError(t, hook.ProductsChanged(context.Background(), ChangeEvent{Reason: ReasonUpdated}))
	}
}

func TestBroadcastHookReceivesStoreChanges(t *testing.T) {
	hook := NewBroadcastHook()
	store, _, _ := newTestStore(Options{Hooks: []ChangeHook{hook}, SkipSamples: true})
	ch, cancel := hook.Subscribe()
	defer cancel()

	p, err := store.Create(context.Background(), widgetInput())
	require.NoError(t, err)
	select {
	case got := <-ch:
		assert.Equal(t, ReasonCreated, got.Reason)
		assert.Equal(t, []string{p.ID}, got.ProductIDs)
		assert.Equal(t, 1, got.Total)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func waitForSubscriber(t *testing.T, hook *BroadcastHook) {
	t.Helper()
	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	srv := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForSubscriber(t, hook)

	require.NoError(t, hook.ProductsChanged(context.Background(), ChangeEvent{Reason: ReasonDeleted, ProductIDs: []string{"p9"}}))
	var got ChangeEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, ReasonDeleted, got.Reason)
	assert.Equal(t, []string{"p9"}, got.ProductIDs)
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	srv := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	waitForSubscriber(t, hook)

	require.NoError(t, hook.ProductsChanged(context.Background(), ChangeEvent{Reason: ReasonCleared}))
	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: cleared\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: {"), line)
}

func TestBroadcastHookFiltersByReason(t *testing.T) {
	hook := NewBroadcastHook()
	deletes, cancel := hook.Subscribe(ReasonDeleted, " ", ReasonDeleted)
	defer cancel()
	all, cancelAll := hook.Subscribe()
	defer cancelAll()

	ctx := context.Background()
	require.NoError(t, hook.ProductsChanged(ctx, ChangeEvent{Reason: ReasonCreated}))
	require.NoError(t, hook.ProductsChanged(ctx, ChangeEvent{Reason: ReasonDeleted, ProductIDs: []string{"p1"}}))

	got := <-deletes
	assert.Equal(t, ReasonDeleted, got.Reason)
	assert.Empty(t, deletes)
	assert.Len(t, all, 2)

	last, seq, ok := hook.Last()
	require.True(t, ok)
	assert.Equal(t, ReasonDeleted, last.Reason)
	assert.Equal(t, uint64(2), seq)
}

func TestBroadcastHookCountsDroppedEvents(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()

	for range subscriberBuffer + 3 {
		require.NoError(t, hook.ProductsChanged(context.Background(), ChangeEvent{Reason: ReasonUpdated}))
	}
	assert.Equal(t, int64(3), hook.Dropped())
}

func TestParseStreamRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/events?reason=created,deleted&reason=updated&reason=created&replay=true", nil)
	req := ParseStreamRequest(r)
	assert.Equal(t, []string{ReasonCreated, ReasonDeleted, ReasonUpdated}, req.Reasons)
	assert.True(t, req.Replay)

	req = ParseStreamRequest(httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Empty(t, req.Reasons)
	assert.False(t, req.Replay)
}

func TestBroadcastHookServeSSEReplaysLastMatchingEvent(t *testing.T) {
	hook := NewBroadcastHook()
	require.NoError(t, hook.ProductsChanged(context.Background(), ChangeEvent{Reason: ReasonImported, Total: 4}))

	srv := httptest.NewServer(http.HandlerFunc(hook.ServeSSE))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?replay=1&reason=imported")
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: imported\n", line)
}

func TestBroadcastHookReplaySkipsFilteredEvent(t *testing.T) {
	hook := NewBroadcastHook()
	require.NoError(t, hook.ProductsChanged(context.Background(), ChangeEvent{Reason: ReasonImported}))

	events, cancel, replay := hook.open(StreamRequest{Reasons: []string{ReasonDeleted}, Replay: true})
	defer cancel()
	assert.Nil(t, replay)
	assert.Empty(t, events)
}

func TestChangeEventsCarryActor(t *testing.T) {
	hook := NewBroadcastHook()
	store, _, _ := newTestStore(Options{Hooks: []ChangeHook{hook}, SkipSamples: true})
	ch, cancel := hook.Subscribe()
	defer cancel()

	in := widgetInput()
	in.Actor = "ops"
	p, err := store.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ops", (<-ch).Actor)

	require.NoError(t, store.Delete(WithActor(context.Background(), "janitor"), p.ID))
	assert.Equal(t, "janitor", (<-ch).Actor)
	assert.Equal(t, "", ActorFromContext(WithActor(context.Background(), "")))
}
