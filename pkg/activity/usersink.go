// Package activity records catalog changes as go-users activity entries.
package activity

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-demodata/components/catalog"
)

// DefaultChannel tags records emitted by Hook when Channel is empty.
const DefaultChannel = "demodata"

// ObjectType is the object type of every product record.
const ObjectType = "product"

// actorNamespace derives stable UUIDs for actors that are not UUIDs already.
var actorNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-demodata/actor"))

// ErrNoSink is returned when a Hook has nowhere to write.
var ErrNoSink = errors.New("activity: sink is required")

// Sink persists activity records. go-users activity repositories satisfy it.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook maps catalog change events onto go-users activity records.
type Hook struct {
	Sink     Sink
	Channel  string
	TenantID uuid.UUID
}

var _ catalog.ChangeHook = Hook{}

// ProductsChanged satisfies catalog.ChangeHook.
func (h Hook) ProductsChanged(ctx context.Context, event catalog.ChangeEvent) error {
	if h.Sink == nil {
		return ErrNoSink
	}
	if strings.TrimSpace(event.Reason) == "" {
		return nil
	}
	return h.Sink.Log(ctx, Record(event, h.channel(), h.TenantID))
}

func (h Hook) channel() string {
	if c := strings.TrimSpace(h.Channel); c != "" {
		return c
	}
	return DefaultChannel
}

// Record converts event into an activity record. The raw actor string is kept
// in Data["actor"]; ActorID is its UUID form.
func Record(event catalog.ChangeEvent, channel string, tenant uuid.UUID) types.ActivityRecord {
	data := map[string]any{
		"reason": event.Reason,
		"total":  event.Total,
	}
	if len(event.ProductIDs) > 0 {
		data["product_ids"] = append([]string(nil), event.ProductIDs...)
	}
	if event.Actor != "" {
		data["actor"] = event.Actor
	}
	objectID := ""
	if len(event.ProductIDs) == 1 {
		objectID = event.ProductIDs[0]
	}
	actor := ActorUUID(event.Actor)
	return types.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		TenantID:   tenant,
		Verb:       "product." + event.Reason,
		ObjectType: ObjectType,
		ObjectID:   objectID,
		Channel:    channel,
		Data:       data,
		OccurredAt: event.At,
	}
}

// ActorUUID parses actor as a UUID, or derives a stable name-based UUID for
// free-form identities such as "cli" or "admin". Empty maps to uuid.Nil.
func ActorUUID(actor string) uuid.UUID {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(actor); err == nil {
		return id
	}
	return uuid.NewSHA1(actorNamespace, []byte(actor))
}
