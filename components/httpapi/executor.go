package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/catalog/commands"
	"github.com/goliatone/go-demodata/components/catalog/queries"
	"github.com/goliatone/go-demodata/components/telemetry"
)

var errMissingCommand = errors.New("httpapi: command not configured")

// Executor runs catalog writes on behalf of a transport.
type Executor interface {
	Create(ctx context.Context, input commands.CreateProductInput) error
	Update(ctx context.Context, input commands.UpdateProductInput) error
	Delete(ctx context.Context, input commands.DeleteProductInput) error
	BulkDelete(ctx context.Context, input commands.BulkInput) error
	BulkStatus(ctx context.Context, input commands.BulkInput) error
	Import(ctx context.Context, input commands.ImportInput) error
}

// CommandExecutor dispatches to go-command commanders.
type CommandExecutor struct {
	CreateCommander     gocommand.Commander[commands.CreateProductInput]
	UpdateCommander     gocommand.Commander[commands.UpdateProductInput]
	DeleteCommander     gocommand.Commander[commands.DeleteProductInput]
	BulkDeleteCommander gocommand.Commander[commands.BulkInput]
	BulkStatusCommander gocommand.Commander[commands.BulkInput]
	ImportCommander     gocommand.Commander[commands.ImportInput]
}

// NewCommandExecutor wires every catalog command against store.
func NewCommandExecutor(store *catalog.Store, rec telemetry.Recorder) *CommandExecutor {
	return &CommandExecutor{
		CreateCommander:     commands.NewCreateProductCommand(store, rec),
		UpdateCommander:     commands.NewUpdateProductCommand(store, rec),
		DeleteCommander:     commands.NewDeleteProductCommand(store, rec),
		BulkDeleteCommander: commands.NewBulkDeleteCommand(store, rec),
		BulkStatusCommander: commands.NewBulkStatusCommand(store, rec),
		ImportCommander:     commands.NewImportCommand(store, rec),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Create(ctx context.Context, input commands.CreateProductInput) error {
	if e == nil || e.CreateCommander == nil {
		return errMissingCommand
	}
	return e.CreateCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateProductInput) error {
	if e == nil || e.UpdateCommander == nil {
		return errMissingCommand
	}
	return e.UpdateCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Delete(ctx context.Context, input commands.DeleteProductInput) error {
	if e == nil || e.DeleteCommander == nil {
		return errMissingCommand
	}
	return e.DeleteCommander.Execute(ctx, input)
}

func (e *CommandExecutor) BulkDelete(ctx context.Context, input commands.BulkInput) error {
	if e == nil || e.BulkDeleteCommander == nil {
		return errMissingCommand
	}
	return e.BulkDeleteCommander.Execute(ctx, input)
}

func (e *CommandExecutor) BulkStatus(ctx context.Context, input commands.BulkInput) error {
	if e == nil || e.BulkStatusCommander == nil {
		return errMissingCommand
	}
	return e.BulkStatusCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Import(ctx context.Context, input commands.ImportInput) error {
	if e == nil || e.ImportCommander == nil {
		return errMissingCommand
	}
	return e.ImportCommander.Execute(ctx, input)
}

// Queries are the read side of the catalog.
type Queries struct {
	List  gocommand.Querier[catalog.Query, []catalog.Product]
	Get   gocommand.Querier[queries.ProductInput, catalog.Product]
	Stats gocommand.Querier[queries.StatsInput, catalog.Stats]
}

// NewQueries wires every catalog query against store.
func NewQueries(store *catalog.Store) Queries {
	return Queries{
		List:  queries.NewListProductsQuery(store),
		Get:   queries.NewProductQuery(store),
		Stats: queries.NewStatsQuery(store),
	}
}
