package demodata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-demodata/components/catalog"
	"github.com/goliatone/go-demodata/components/charts"
	"github.com/goliatone/go-demodata/components/config"
	"github.com/goliatone/go-demodata/components/httpapi"
	"github.com/goliatone/go-demodata/components/insights"
	"github.com/goliatone/go-demodata/components/mockapi"
	"github.com/goliatone/go-demodata/components/synth"
	"github.com/goliatone/go-demodata/components/telemetry"
	"github.com/goliatone/go-demodata/pkg/activity"
	"github.com/goliatone/go-demodata/pkg/analytics"
)

// Options configures New. Zero values fall back to the configuration.
type Options struct {
	Config    config.Config
	Logger    *slog.Logger
	Telemetry telemetry.Recorder
	// Storage replaces the configured catalog backend.
	Storage catalog.BlobStore
	Sleep   mockapi.SleepFunc
	Clock   func() time.Time
	// Activity, when set, receives a go-users activity record per catalog
	// change.
	Activity activity.Sink
}

// Service wires every component from one configuration.
type Service struct {
	Config    config.Config
	Logger    *slog.Logger
	Telemetry telemetry.Recorder
	Store     *catalog.Store
	Mock      *mockapi.Client
	Projector *insights.Projector
	Charts    *charts.Renderer
	Broadcast *catalog.BroadcastHook
	API       *httpapi.API

	closers []io.Closer
}

// New builds the catalog, the mock API with synthetic and real analytics
// endpoints, and the transports' shared API.
func New(ctx context.Context, opts Options) (*Service, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conditions, err := cfg.Conditions()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = cfg.Logger(io.Discard)
	}
	rec := opts.Telemetry
	if rec == nil {
		rec = telemetry.NewSlog(logger, slog.LevelDebug)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Service{Config: cfg, Logger: logger, Telemetry: rec}

	storage := opts.Storage
	if storage == nil {
		var closer io.Closer
		storage, closer, err = OpenBlobStore(ctx, cfg.Catalog)
		if err != nil {
			return nil, err
		}
		if closer != nil {
			s.closers = append(s.closers, closer)
		}
	}

	s.Store = catalog.NewStore(catalog.Options{
		Storage:        storage,
		Key:            cfg.Catalog.Key,
		Telemetry:      rec,
		Clock:          clock,
		DisableLatency: !cfg.Catalog.Latency,
		SkipSamples:    !cfg.Catalog.Samples,
	})

	s.Mock = mockapi.New(mockapi.Options{
		Conditions: &conditions,
		CacheTTL:   cfg.Cache.API,
		Sleep:      opts.Sleep,
		Clock:      clock,
		Telemetry:  rec,
	})
	gen := synth.NewGenerator(cfg.Seeds.Dashboard, synth.WithClock(clock))
	hist := synth.NewHistorical(synth.WithHistoricalSeed(cfg.Seeds.Historical), synth.WithHistoricalClock(clock))
	s.Mock.RegisterAll(mockapi.SyntheticHandlers(gen, hist))
	for endpoint, h := range mockapi.WriteHandlers() {
		s.Mock.RegisterPost(endpoint, h)
	}

	s.Projector = insights.NewProjector(insights.Options{
		Source:        s.Store,
		Clock:         clock,
		Telemetry:     rec,
		CacheTTL:      cfg.Cache.Insights,
		QuickStatsTTL: cfg.Cache.QuickStats,
	})
	s.Mock.RegisterAll(insights.Handlers(s.Projector))

	s.Broadcast = catalog.NewBroadcastHook()
	s.Store.AddHook(s.Projector)
	s.Store.AddHook(insights.ClientInvalidator{Client: s.Mock})
	s.Store.AddHook(s.Broadcast)
	if opts.Activity != nil {
		s.Store.AddHook(activity.Hook{Sink: opts.Activity})
	}

	s.Charts = charts.NewRenderer()
	s.API = &httpapi.API{
		Mock:      s.Mock,
		Commands:  httpapi.NewCommandExecutor(s.Store, rec),
		Queries:   httpapi.NewQueries(s.Store),
		Charts:    s.Charts,
		Broadcast: s.Broadcast,
		Telemetry: rec,
	}

	if err := s.Store.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("demodata: initialize catalog: %w", err)
	}
	logger.Info("demodata ready",
		"backend", cfg.Catalog.Backend,
		"endpoints", len(s.Mock.Endpoints()),
		"preset", cfg.Network.Preset,
	)
	return s, nil
}

// Handler serves the API over net/http.
func (s *Service) Handler() http.Handler {
	return httpapi.NewHandlers(s.API).Routes()
}

// Client returns an in-process client that stamps writes with actorID.
func (s *Service) Client(actorID string) *analytics.LocalClient {
	return analytics.NewLocalClient(s.API, actorID)
}

// Close releases storage connections.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
