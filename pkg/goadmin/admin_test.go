package goadmin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-demodata/components/config"
	"github.com/goliatone/go-demodata/pkg/demodata"
	"github.com/goliatone/go-demodata/pkg/goadmin"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, item)
	return nil
}

func newService(t *testing.T) *demodata.Service {
	t.Helper()
	cfg := config.Default()
	cfg.Catalog.Latency = false
	svc, err := demodata.New(context.Background(), demodata.Options{
		Config: cfg,
		Sleep:  func(context.Context, time.Duration) error { return nil },
	})
	if err != nil {
		t.Fatalf("demodata.New returned error: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDemoData: true,
		Service:        newService(t),
		MenuBuilder:    builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 3 {
		t.Fatalf("expected 3 menu items, got %d", len(builder.items))
	}
	if got := builder.items[2].Route; got != "admin.demodata.network_simulator" {
		t.Fatalf("unexpected route %q", got)
	}
	if admin.DemoData() == nil {
		t.Fatalf("expected demodata service")
	}
}

func TestAdminRequiresServiceWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableDemoData: true}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{MenuBuilder: builder})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 || admin.DemoData() != nil {
		t.Fatalf("expected disabled admin to do nothing")
	}
}

func TestAdminBootstrapPropagatesErrors(t *testing.T) {
	builder := &stubMenuBuilder{err: errors.New("menu down")}
	admin, err := goadmin.New(goadmin.Config{
		EnableDemoData: true,
		Service:        newService(t),
		MenuBuilder:    builder,
		MenuItems:      []goadmin.MenuItem{{Label: "Products"}},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err == nil {
		t.Fatalf("expected bootstrap error")
	}
	if got := admin.MenuItems()[0]; got.Route != "admin.demodata.products" || got.Icon != "circle" {
		t.Fatalf("unexpected defaults %#v", got)
	}
}
