package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/charts"
	"github.com/goliatone/go-demodata/components/config"
	"github.com/goliatone/go-demodata/components/gorouter"
	"github.com/goliatone/go-demodata/components/synth"
	"github.com/goliatone/go-demodata/pkg/analytics"
	"github.com/goliatone/go-demodata/pkg/demodata"
)

// Globals are shared by every command.
type Globals struct {
	Config string   `short:"c" type:"path" help:"YAML configuration file."`
	Env    []string `help:"Dotenv files applied before DEMODATA_* overrides." default:".env"`
	Remote string   `help:"Base URL of a running server. Commands run in process when empty."`
	Actor  string   `default:"cli" help:"Actor recorded on catalog writes."`
	Format string   `default:"json" enum:"json,yaml" help:"Output format (json, yaml)."`

	out io.Writer `kong:"-"`
}

type cli struct {
	Globals

	Endpoints endpointsCmd `cmd:"" help:"List the mock API endpoints."`
	Fetch     fetchCmd     `cmd:"" help:"Fetch one mock API endpoint."`
	Products  productsCmd  `cmd:"" help:"Manage the product catalog."`
	Render    renderCmd    `cmd:"" help:"Render an endpoint as an ECharts HTML page."`
	Serve     serveCmd     `cmd:"" help:"Serve the API over HTTP."`
}

func main() {
	app := &cli{}
	app.out = os.Stdout
	ctx := kong.Parse(app,
		kong.Description("Mock analytics API and product catalog for dashboard demos."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run(&app.Globals)
	ctx.FatalIfErrorf(err)
}

func (g *Globals) loadConfig() (config.Config, error) {
	return config.Load(g.Config, g.Env...)
}

// client returns a remote client when --remote is set, otherwise an
// in-process service. The closer releases storage connections.
func (g *Globals) client(ctx context.Context) (analytics.Client, func(), error) {
	if g.Remote != "" {
		c, err := analytics.NewHTTPClient(analytics.HTTPConfig{
			BaseURL: g.Remote,
			APIKey:  os.Getenv(config.EnvPrefix + "API_KEY"),
			ActorID: g.Actor,
		})
		return c, func() {}, err
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, err := demodata.New(ctx, demodata.Options{Config: cfg, Logger: cfg.Logger(os.Stderr)})
	if err != nil {
		return nil, nil, err
	}
	return svc.Client(g.Actor), func() { _ = svc.Close() }, nil
}

func (g *Globals) print(v any) error {
	return writeValue(g.out, g.Format, v)
}

type endpointsCmd struct{}

func (cmd *endpointsCmd) Run(ctx context.Context, g *Globals) error {
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	endpoints, err := client.Endpoints(ctx)
	if err != nil {
		return err
	}
	return g.print(endpoints)
}

type fetchCmd struct {
	Endpoint string   `arg:"" help:"Endpoint path, e.g. /api/charts/revenue."`
	Param    []string `short:"p" help:"Query parameter as key=value (repeatable)."`
}

func (cmd *fetchCmd) Run(ctx context.Context, g *Globals) error {
	params, err := parseParams(cmd.Param)
	if err != nil {
		return err
	}
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	raw, err := client.Fetch(ctx, cmd.Endpoint, params)
	if err != nil {
		return err
	}
	return g.print(raw)
}

type productsCmd struct {
	List   productsListCmd   `cmd:"" default:"withargs" help:"List products."`
	Get    productsGetCmd    `cmd:"" help:"Show one product."`
	Create productsCreateCmd `cmd:"" help:"Create a product from JSON."`
	Delete productsDeleteCmd `cmd:"" help:"Delete a product."`
	Stats  productsStatsCmd  `cmd:"" help:"Show catalog statistics."`
}

type productsListCmd struct {
	Search    string `help:"Match name, description, SKU or tags."`
	Category  string `help:"Filter by category."`
	Status    string `help:"Filter by status."`
	LowStock  bool   `help:"Only products at or below their minimum stock."`
	SortBy    string `default:"name" enum:"name,price,createdAt,stock,value" help:"Sort key."`
	SortOrder string `default:"asc" enum:"asc,desc" help:"Sort order."`
}

func (cmd *productsListCmd) Run(ctx context.Context, g *Globals) error {
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	products, err := client.Products(ctx, catalog.Query{
		Search:    cmd.Search,
		Category:  cmd.Category,
		Status:    catalog.Status(cmd.Status),
		LowStock:  cmd.LowStock,
		SortBy:    cmd.SortBy,
		SortOrder: cmd.SortOrder,
	})
	if err != nil {
		return err
	}
	return g.print(products)
}

type productsGetCmd struct {
	ID string `arg:"" help:"Product id."`
}

func (cmd *productsGetCmd) Run(ctx context.Context, g *Globals) error {
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	product, err := client.Product(ctx, cmd.ID)
	if err != nil {
		return err
	}
	return g.print(product)
}

type productsCreateCmd struct {
	JSON string `name:"json" xor:"source" help:"Product JSON."`
	File string `type:"existingfile" xor:"source" help:"File holding product JSON."`
}

func (cmd *productsCreateCmd) Run(ctx context.Context, g *Globals) error {
	in, err := cmd.input()
	if err != nil {
		return err
	}
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	product, err := client.CreateProduct(ctx, in)
	if err != nil {
		return describe(err)
	}
	return g.print(product)
}

func (cmd *productsCreateCmd) input() (catalog.Input, error) {
	data := []byte(cmd.JSON)
	if cmd.File != "" {
		var err error
		data, err = os.ReadFile(cmd.File) //nolint:gosec
		if err != nil {
			return catalog.Input{}, fmt.Errorf("demodatactl: read product file: %w", err)
		}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return catalog.Input{}, errors.New("demodatactl: --json or --file is required")
	}
	var in catalog.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return catalog.Input{}, fmt.Errorf("demodatactl: parse product JSON: %w", err)
	}
	return in, nil
}

type productsDeleteCmd struct {
	ID string `arg:"" help:"Product id."`
}

func (cmd *productsDeleteCmd) Run(ctx context.Context, g *Globals) error {
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	if err := client.DeleteProduct(ctx, cmd.ID); err != nil {
		return err
	}
	fmt.Fprintf(g.out, "✓ Deleted %s\n", cmd.ID)
	return nil
}

type productsStatsCmd struct{}

func (cmd *productsStatsCmd) Run(ctx context.Context, g *Globals) error {
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	stats, err := client.Stats(ctx)
	if err != nil {
		return err
	}
	return g.print(stats)
}

type renderCmd struct {
	Endpoint string   `arg:"" help:"Chart endpoint, e.g. /api/charts/categories."`
	Kind     string   `help:"Chart kind: bar, line, pie or scatter (defaults by endpoint)."`
	Title    string   `help:"Chart title."`
	Theme    string   `help:"go-echarts theme name."`
	Param    []string `short:"p" help:"Query parameter as key=value (repeatable)."`
	Out      string   `short:"o" type:"path" help:"Output file (stdout when empty)."`
}

func (cmd *renderCmd) Run(ctx context.Context, g *Globals) error {
	params, err := parseParams(cmd.Param)
	if err != nil {
		return err
	}
	client, done, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer done()
	raw, err := client.Fetch(ctx, cmd.Endpoint, params)
	if err != nil {
		return err
	}
	value, err := decodeChartable(raw)
	if err != nil {
		return err
	}
	var opts []charts.Option
	if cmd.Theme != "" {
		opts = append(opts, charts.WithTheme(cmd.Theme))
	}
	page, err := charts.NewRenderer(opts...).RenderValue(cmd.Endpoint, cmd.Kind, cmd.Title, value)
	if err != nil {
		return err
	}
	if cmd.Out == "" {
		_, err = io.WriteString(g.out, page)
		return err
	}
	if err := os.WriteFile(cmd.Out, []byte(page), 0o644); err != nil {
		return fmt.Errorf("demodatactl: write chart: %w", err)
	}
	fmt.Fprintf(g.out, "✓ Rendered %s to %s\n", cmd.Endpoint, cmd.Out)
	return nil
}

type serveCmd struct {
	Addr      string `help:"Listen address (overrides configuration)."`
	Transport string `help:"Server transport, http or fiber (overrides configuration)."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.Transport != "" {
		cfg.Server.Transport = cmd.Transport
	}
	logger := cfg.Logger(os.Stderr)
	svc, err := demodata.New(ctx, demodata.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer svc.Close()

	if cfg.Server.Transport == config.TransportFiber {
		return serveFiber(svc, cfg.Server.Addr, logger)
	}
	return serveHTTP(ctx, svc, cfg.Server.Addr, logger)
}

func serveHTTP(ctx context.Context, svc *demodata.Service, addr string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "transport", config.TransportHTTP)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

func serveFiber(svc *demodata.Service, addr string, logger *slog.Logger) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router: server.Router(),
		API:    svc.API,
	}); err != nil {
		return fmt.Errorf("demodatactl: register routes: %w", err)
	}
	logger.Info("listening", "addr", addr, "transport", config.TransportFiber, "base", "/demo")
	return server.Serve(addr)
}

func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("demodatactl: parameter %q must be key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

// decodeChartable accepts chart payloads and funnel stage lists.
func decodeChartable(raw json.RawMessage) (any, error) {
	var data synth.ChartData
	if err := json.Unmarshal(raw, &data); err == nil && len(data.Labels) > 0 {
		return data, nil
	}
	var stages []synth.FunnelStage
	if err := json.Unmarshal(raw, &stages); err == nil && len(stages) > 0 {
		return stages, nil
	}
	return nil, charts.ErrNotChartable
}

func writeValue(w io.Writer, format string, v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("demodatactl: decode payload: %w", err)
		}
		v = decoded
	}
	if format == "yaml" {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		if err := encoder.Encode(toPlain(v)); err != nil {
			return fmt.Errorf("demodatactl: write yaml: %w", err)
		}
		return nil
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// toPlain round-trips typed values through JSON so YAML keys follow the
// json tags.
func toPlain(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// describe appends field errors returned by a remote server.
func describe(err error) error {
	var remote *analytics.RemoteError
	if !errors.As(err, &remote) || len(remote.Fields) == 0 {
		return err
	}
	var b strings.Builder
	b.WriteString(err.Error())
	for field, msg := range remote.Fields {
		fmt.Fprintf(&b, "\n  %s: %s", field, msg)
	}
	return errors.New(b.String())
}
