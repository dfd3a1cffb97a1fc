package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/telemetry"
)

// BulkInput targets several products at once. Status is only read by the
// status command. Affected receives the number of changed products.
type BulkInput struct {
	IDs      []string       `json:"ids"`
	Status   catalog.Status `json:"status,omitempty"`
	Affected *int           `json:"-"`
}

type bulkService interface {
	BulkDelete(ctx context.Context, ids []string) (int, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status catalog.Status) (int, error)
}

// BulkDeleteCommand removes every listed product or none.
type BulkDeleteCommand struct {
	store     bulkService
	telemetry telemetry.Recorder
}

// NewBulkDeleteCommand builds a command instance.
func NewBulkDeleteCommand(store bulkService, rec telemetry.Recorder) *BulkDeleteCommand {
	return &BulkDeleteCommand{store: store, telemetry: telemetry.Normalize(rec)}
}

var _ gocommand.Commander[BulkInput] = (*BulkDeleteCommand)(nil)

// Execute deletes the products.
func (c *BulkDeleteCommand) Execute(ctx context.Context, msg BulkInput) error {
	if c.store == nil {
		return errNoStore
	}
	n, err := c.store.BulkDelete(ctx, msg.IDs)
	if err != nil {
		return err
	}
	if msg.Affected != nil {
		*msg.Affected = n
	}
	c.telemetry.Record(ctx, "catalog.command.bulk_delete", map[string]any{"count": n})
	return nil
}

// BulkStatusCommand sets one status on every listed product or none.
type BulkStatusCommand struct {
	store     bulkService
	telemetry telemetry.Recorder
}

// NewBulkStatusCommand builds a command instance.
func NewBulkStatusCommand(store bulkService, rec telemetry.Recorder) *BulkStatusCommand {
	return &BulkStatusCommand{store: store, telemetry: telemetry.Normalize(rec)}
}

var _ gocommand.Commander[BulkInput] = (*BulkStatusCommand)(nil)

// Execute updates the status.
func (c *BulkStatusCommand) Execute(ctx context.Context, msg BulkInput) error {
	if c.store == nil {
		return errNoStore
	}
	n, err := c.store.BulkUpdateStatus(ctx, msg.IDs, msg.Status)
	if err != nil {
		return err
	}
	if msg.Affected != nil {
		*msg.Affected = n
	}
	c.telemetry.Record(ctx, "catalog.command.bulk_status", map[string]any{"count": n, "status": string(msg.Status)})
	return nil
}

// ImportInput carries a batch of products to create.
type ImportInput struct {
	Products []catalog.Input      `json:"products"`
	ActorID  string               `json:"actor_id"`
	Result   *catalog.ImportResult `json:"-"`
}

type importService interface {
	Import(ctx context.Context, inputs []catalog.Input) (catalog.ImportResult, error)
}

// ImportCommand wraps Store.Import.
type ImportCommand struct {
	store     importService
	telemetry telemetry.Recorder
}

// NewImportCommand builds a command instance.
func NewImportCommand(store importService, rec telemetry.Recorder) *ImportCommand {
	return &ImportCommand{store: store, telemetry: telemetry.Normalize(rec)}
}

var _ gocommand.Commander[ImportInput] = (*ImportCommand)(nil)

// Execute imports the batch. Per-item failures are reported through Result,
// not as an error.
func (c *ImportCommand) Execute(ctx context.Context, msg ImportInput) error {
	if c.store == nil {
		return errNoStore
	}
	inputs := make([]catalog.Input, len(msg.Products))
	for i, in := range msg.Products {
		if msg.ActorID != "" {
			in.Actor = msg.ActorID
		}
		inputs[i] = in
	}
	result, err := c.store.Import(catalog.WithActor(ctx, msg.ActorID), inputs)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "catalog.command.import", map[string]any{
		"created": len(result.Created),
		"failed":  len(result.Failed),
	})
	return nil
}
