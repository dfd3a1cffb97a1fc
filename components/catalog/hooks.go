package catalog

import (
	"context"
	"time"
)

// Change reasons carried by ChangeEvent.
const (
	ReasonCreated       = "created"
	ReasonUpdated       = "updated"
	ReasonDeleted       = "deleted"
	ReasonBulkDeleted   = "bulk_deleted"
	ReasonStatusChanged = "status_changed"
	ReasonImported      = "imported"
	ReasonCleared       = "cleared"
)

// ChangeEvent describes a committed catalog mutation.
type ChangeEvent struct {
	Reason     string    `json:"reason"`
	ProductIDs []string  `json:"productIds,omitempty"`
	Total      int       `json:"total"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

type actorKey struct{}

// WithActor tags ctx with the identity performing a mutation. An empty actor
// leaves ctx unchanged.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor set by WithActor.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

// ChangeHook is notified after every successful mutation.
type ChangeHook interface {
	ProductsChanged(ctx context.Context, event ChangeEvent) error
}

// ChangeHookFunc adapts a function to ChangeHook.
type ChangeHookFunc func(ctx context.Context, event ChangeEvent) error

func (f ChangeHookFunc) ProductsChanged(ctx context.Context, event ChangeEvent) error {
	return f(ctx, event)
}
