package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/telemetry"
)

var errNoStore = errors.New("catalog command requires store")

// CreateProductInput carries a new product. When Result is set it receives
// the stored record. A non-empty ActorID takes precedence over Product.Actor.
type CreateProductInput struct {
	Product catalog.Input    `json:"product"`
	ActorID string           `json:"actor_id"`
	Result  *catalog.Product `json:"-"`
}

type createService interface {
	Create(ctx context.Context, in catalog.Input) (catalog.Product, error)
}

// CreateProductCommand wraps Store.Create.
type CreateProductCommand struct {
	store     createService
	telemetry telemetry.Recorder
}

// NewCreateProductCommand builds a command instance.
func NewCreateProductCommand(store createService, rec telemetry.Recorder) *CreateProductCommand {
	return &CreateProductCommand{store: store, telemetry: telemetry.Normalize(rec)}
}

var _ gocommand.Commander[CreateProductInput] = (*CreateProductCommand)(nil)

// Execute creates the product.
func (c *CreateProductCommand) Execute(ctx context.Context, msg CreateProductInput) error {
	if c.store == nil {
		return errNoStore
	}
	in := msg.Product
	if msg.ActorID != "" {
		in.Actor = msg.ActorID
	}
	p, err := c.store.Create(ctx, in)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = p
	}
	c.telemetry.Record(ctx, "catalog.command.create", map[string]any{"id": p.ID, "sku": p.SKU})
	return nil
}

// UpdateProductInput carries a partial update for one product.
type UpdateProductInput struct {
	ID      string           `json:"id"`
	Changes catalog.Input    `json:"changes"`
	ActorID string           `json:"actor_id"`
	Result  *catalog.Product `json:"-"`
}

type updateService interface {
	Update(ctx context.Context, id string, in catalog.Input) (catalog.Product, error)
}

// UpdateProductCommand wraps Store.Update.
type UpdateProductCommand struct {
	store     updateService
	telemetry telemetry.Recorder
}

// NewUpdateProductCommand builds a command instance.
func NewUpdateProductCommand(store updateService, rec telemetry.Recorder) *UpdateProductCommand {
	return &UpdateProductCommand{store: store, telemetry: telemetry.Normalize(rec)}
}

var _ gocommand.Commander[UpdateProductInput] = (*UpdateProductCommand)(nil)

// Execute applies the update.
func (c *UpdateProductCommand) Execute(ctx context.Context, msg UpdateProductInput) error {
	if c.store == nil {
		return errNoStore
	}
	if msg.ID == "" {
		return errors.New("update command requires id")
	}
	in := msg.Changes
	if msg.ActorID != "" {
		in.Actor = msg.ActorID
	}
	p, err := c.store.Update(ctx, msg.ID, in)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = p
	}
	c.telemetry.Record(ctx, "catalog.command.update", map[string]any{"id": p.ID})
	return nil
}

// DeleteProductInput identifies the product to remove.
type DeleteProductInput struct {
	ID string `json:"id"`
}

type deleteService interface {
	Delete(ctx context.Context, id string) error
}

// DeleteProductCommand wraps Store.Delete.
type DeleteProductCommand struct {
	store     deleteService
	telemetry telemetry.Recorder
}

// NewDeleteProductCommand builds a command instance.
func NewDeleteProductCommand(store deleteService, rec telemetry.Recorder) *DeleteProductCommand {
	return &DeleteProductCommand{store: store, telemetry: telemetry.Normalize(rec)}
}

var _ gocommand.Commander[DeleteProductInput] = (*DeleteProductCommand)(nil)

// Execute removes the product.
func (c *DeleteProductCommand) Execute(ctx context.Context, msg DeleteProductInput) error {
	if c.store == nil {
		return errNoStore
	}
	if err := c.store.Delete(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "catalog.command.delete", map[string]any{"id": msg.ID})
	return nil
}
