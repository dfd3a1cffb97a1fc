package catalog

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a product.
type Status string

const (
	StatusActive       Status = "active"
	StatusInactive     Status = "inactive"
	StatusDraft        Status = "draft"
	StatusDiscontinued Status = "discontinued"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusActive, StatusInactive, StatusDraft, StatusDiscontinued}

// Categories lists the product categories the catalog accepts.
var Categories = []string{
	"Electronics",
	"Fashion",
	"Home & Garden",
	"Sports",
	"Books",
	"Beauty",
	"Automotive",
	"Health",
	"Toys",
	"Food",
}

// DefaultMaxStock applies when a product does not set one.
const DefaultMaxStock = 100

// Dimensions are in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Product is a catalog record.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Cost        float64    `json:"cost"`
	SKU         string     `json:"sku"`
	Stock       int        `json:"stock"`
	MinStock    int        `json:"minStock"`
	MaxStock    int        `json:"maxStock"`
	Status      Status     `json:"status"`
	Tags        []string   `json:"tags"`
	Images      []string   `json:"images"`
	Weight      float64    `json:"weight"`
	Dimensions  Dimensions `json:"dimensions"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
}

// Value is the inventory value: price times stock.
func (p Product) Value() float64 {
	return p.Price * float64(p.Stock)
}

// IsLowStock reports whether stock has reached the reorder threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// Matches reports whether term appears, case-insensitively, in the name,
// description, category, SKU or any tag.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{p.Name, p.Description, p.Category, p.SKU}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func (p Product) clone() Product {
	p.Tags = append([]string(nil), p.Tags...)
	p.Images = append([]string(nil), p.Images...)
	return p
}

// Input is a create or update payload. Nil fields are left unchanged on
// update and defaulted on create.
type Input struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Price       *float64    `json:"price,omitempty"`
	Cost        *float64    `json:"cost,omitempty"`
	SKU         *string     `json:"sku,omitempty"`
	Stock       *int        `json:"stock,omitempty"`
	MinStock    *int        `json:"minStock,omitempty"`
	MaxStock    *int        `json:"maxStock,omitempty"`
	Status      *Status     `json:"status,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Images      []string    `json:"images,omitempty"`
	Weight      *float64    `json:"weight,omitempty"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Actor       string      `json:"actor,omitempty"`
}

// Ptr returns a pointer to v. Handy for building inputs.
func Ptr[T any](v T) *T {
	return &v
}

// apply merges the non-nil fields of in onto p.
func (in Input) apply(p Product) Product {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.SKU != nil && strings.TrimSpace(*in.SKU) != "" {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		p.MaxStock = *in.MaxStock
	}
	if in.Status != nil && *in.Status != "" {
		p.Status = *in.Status
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(in.Tags)
	}
	if in.Images != nil {
		p.Images = append([]string(nil), in.Images...)
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.Dimensions != nil {
		p.Dimensions = *in.Dimensions
	}
	return p
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
