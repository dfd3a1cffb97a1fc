package goadmin

import (
	"context"
	"errors"
	"fmt"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-demodata/pkg/demodata"
)

// MenuBuilder ensures demo data entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the demo data service into an admin shell.
type Config struct {
	EnableDemoData bool
	MenuCode       string
	MenuBuilder    MenuBuilder
	Service        *demodata.Service
	// MenuItems replaces the default Products and Analytics entries.
	MenuItems []MenuItem
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// DefaultMenuItems link the product manager and the analytics views.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Label: "Products", Icon: "box", Position: 10},
		{Label: "Analytics", Icon: "chart-bar", Position: 20},
		{Label: "Network Simulator", Icon: "wifi", Position: 30},
	}
}

// New creates an Admin helper that can seed menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDemoData && cfg.Service == nil {
		return nil, errors.New("goadmin: demodata service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if len(cfg.MenuItems) == 0 {
		cfg.MenuItems = DefaultMenuItems()
	}
	for i := range cfg.MenuItems {
		item := &cfg.MenuItems[i]
		if item.Route == "" {
			item.Route = "admin.demodata." + strcase.ToSnake(item.Label)
		}
		if item.Icon == "" {
			item.Icon = "circle"
		}
	}
	return &Admin{cfg: cfg}, nil
}

// DemoData exposes the configured service when enabled.
func (a *Admin) DemoData() *demodata.Service {
	if !a.cfg.EnableDemoData {
		return nil
	}
	return a.cfg.Service
}

// MenuItems returns the resolved entries.
func (a *Admin) MenuItems() []MenuItem {
	return append([]MenuItem(nil), a.cfg.MenuItems...)
}

// Bootstrap seeds menu entries when demo data support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDemoData || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.cfg.MenuItems {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: menu item %s: %w", item.Label, err)
		}
	}
	return nil
}
