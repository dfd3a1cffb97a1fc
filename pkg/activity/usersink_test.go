package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-demodata/components/catalog"
)

type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookMapsChangeEvent(t *testing.T) {
	sink := &recordingSink{}
	tenant := uuid.New()
	hook := Hook{Sink: sink, TenantID: tenant}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	err := hook.ProductsChanged(context.Background(), catalog.ChangeEvent{
		Reason:     catalog.ReasonCreated,
		ProductIDs: []string{"prod_001"},
		Total:      9,
		Actor:      "admin",
		At:         now,
	})
	if err != nil {
		t.Fatalf("products changed: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.Verb != "product.created" || record.ObjectType != ObjectType || record.ObjectID != "prod_001" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.ActorID != ActorUUID("admin") || record.ActorID == uuid.Nil {
		t.Fatalf("expected derived actor id, got %s", record.ActorID)
	}
	if record.TenantID != tenant {
		t.Fatalf("expected tenant %s got %s", tenant, record.TenantID)
	}
	if record.Channel != DefaultChannel {
		t.Fatalf("expected default channel, got %q", record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["actor"] != "admin" || record.Data["total"] != 9 {
		t.Fatalf("unexpected data: %v", record.Data)
	}
}

func TestHookBulkEventHasNoObjectID(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink, Channel: "admin"}

	if err := hook.ProductsChanged(context.Background(), catalog.ChangeEvent{
		Reason:     catalog.ReasonBulkDeleted,
		ProductIDs: []string{"a", "b"},
	}); err != nil {
		t.Fatalf("products changed: %v", err)
	}
	record := sink.records[0]
	if record.ObjectID != "" {
		t.Fatalf("expected empty object id, got %q", record.ObjectID)
	}
	if record.ActorID != uuid.Nil {
		t.Fatalf("expected nil actor for anonymous change, got %s", record.ActorID)
	}
	if record.Channel != "admin" {
		t.Fatalf("expected channel admin, got %q", record.Channel)
	}
	ids, ok := record.Data["product_ids"].([]string)
	if !ok || len(ids) != 2 {
		t.Fatalf("expected product ids in data, got %v", record.Data["product_ids"])
	}
}

func TestHookSkipsEventsWithoutReason(t *testing.T) {
	sink := &recordingSink{}
	if err := (Hook{Sink: sink}).ProductsChanged(context.Background(), catalog.ChangeEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
}

func TestHookRequiresSinkAndPropagatesErrors(t *testing.T) {
	if err := (Hook{}).ProductsChanged(context.Background(), catalog.ChangeEvent{Reason: "created"}); !errors.Is(err, ErrNoSink) {
		t.Fatalf("expected ErrNoSink, got %v", err)
	}
	boom := errors.New("boom")
	sink := &recordingSink{err: boom}
	if err := (Hook{Sink: sink}).ProductsChanged(context.Background(), catalog.ChangeEvent{Reason: "created"}); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestActorUUID(t *testing.T) {
	id := uuid.New()
	if got := ActorUUID(id.String()); got != id {
		t.Fatalf("expected uuid actor to round-trip, got %s", got)
	}
	if ActorUUID("cli") != ActorUUID(" cli ") {
		t.Fatalf("expected derived ids to ignore surrounding space")
	}
	if ActorUUID("cli") == ActorUUID("admin") {
		t.Fatalf("expected distinct actors to map to distinct ids")
	}
	if ActorUUID("") != uuid.Nil {
		t.Fatalf("expected empty actor to map to uuid.Nil")
	}
}

func TestStoreMutationsReachSink(t *testing.T) {
	sink := &recordingSink{}
	store := catalog.NewStore(catalog.Options{DisableLatency: true})
	store.AddHook(Hook{Sink: sink})
	ctx := context.Background()

	_, err := store.Create(ctx, catalog.Input{
		Name:     catalog.Ptr("Desk Lamp"),
		Category: catalog.Ptr("Home & Garden"),
		Price:    catalog.Ptr(35.0),
		Stock:    catalog.Ptr(8),
		Actor:    "ops",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	last := sink.records[len(sink.records)-1]
	if last.Verb != "product.created" || last.Data["actor"] != "ops" {
		t.Fatalf("unexpected record: %+v", last)
	}
}
