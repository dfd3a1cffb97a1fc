package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopspring/decimal"
)

const productSchemaName = "product.json"

// productSchema holds the per-field rules. Cross-field rules live in Go.
var productSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":        map[string]any{"type": "string", "minLength": 2},
		"description": map[string]any{"type": "string", "minLength": 10},
		"category":    map[string]any{"enum": categoriesAny()},
		"price":       map[string]any{"type": "number", "exclusiveMinimum": 0},
		"cost":        map[string]any{"type": "number", "minimum": 0},
		"sku":         map[string]any{"type": "string", "pattern": "^[A-Za-z0-9-]{3,20}$"},
		"stock":       map[string]any{"type": "integer", "minimum": 0},
		"minStock":    map[string]any{"type": "integer", "minimum": 0},
		"maxStock":    map[string]any{"type": "integer", "minimum": 0},
		"status":      map[string]any{"enum": statusesAny()},
		"weight":      map[string]any{"type": "number", "minimum": 0},
		"dimensions": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"length": map[string]any{"type": "number", "minimum": 0},
				"width":  map[string]any{"type": "number", "minimum": 0},
				"height": map[string]any{"type": "number", "minimum": 0},
			},
		},
	},
}

var fieldMessages = map[string]string{
	"name":        "name must have at least 2 characters",
	"description": "description must have at least 10 characters",
	"category":    "category is not supported",
	"price":       "price must be a positive number",
	"cost":        "cost must be a non-negative number",
	"sku":         "sku must be 3-20 letters, digits or hyphens",
	"stock":       "stock must be a non-negative integer",
	"minStock":    "minimum stock must be a non-negative integer",
	"maxStock":    "maximum stock must be a non-negative integer",
	"status":      "status is not supported",
	"weight":      "weight must be a non-negative number",
	"dimensions":  "dimensions must be non-negative numbers",
}

// Validator checks products against the catalog rules and reports every
// failing field at once.
type Validator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewValidator builds a validator. The schema compiles on first use.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns a *ValidationError listing each failing field, or nil.
func (v *Validator) Validate(p Product) error {
	schema, err := v.compiled()
	if err != nil {
		return err
	}
	verr := &ValidationError{}

	if err := schema.Validate(payloadFor(p)); err != nil {
		var schemaErr *jsonschema.ValidationError
		if !errors.As(err, &schemaErr) {
			return fmt.Errorf("catalog: validate product: %w", err)
		}
		for _, field := range failingFields(schemaErr) {
			verr.add(field, fieldMessages[field])
		}
	}

	if p.Price > 0 && decimal.NewFromFloat(p.Price).Exponent() < -2 {
		verr.add("price", "price must have at most 2 decimal places")
	}
	if p.Cost > 0 && p.Price > 0 && p.Cost >= p.Price {
		verr.add("cost", "cost must be lower than price")
	}
	if p.MinStock > p.Stock {
		verr.add("minStock", "minimum stock cannot exceed current stock")
	}
	if p.MaxStock < p.MinStock {
		verr.add("maxStock", "maximum stock cannot be lower than minimum stock")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (v *Validator) compiled() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(productSchema)
		if err != nil {
			v.err = fmt.Errorf("catalog: marshal product schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(productSchemaName, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("catalog: load product schema: %w", err)
			return
		}
		v.schema, v.err = compiler.Compile(productSchemaName)
		if v.err != nil {
			v.err = fmt.Errorf("catalog: compile product schema: %w", v.err)
		}
	})
	return v.schema, v.err
}

// payloadFor converts p to the generic JSON shape the schema validator
// expects. Strings are trimmed so whitespace never satisfies a length rule.
func payloadFor(p Product) map[string]any {
	payload := map[string]any{
		"name":        strings.TrimSpace(p.Name),
		"description": strings.TrimSpace(p.Description),
		"category":    p.Category,
		"price":       p.Price,
		"cost":        p.Cost,
		"stock":       float64(p.Stock),
		"minStock":    float64(p.MinStock),
		"maxStock":    float64(p.MaxStock),
		"status":      string(p.Status),
		"weight":      p.Weight,
		"dimensions": map[string]any{
			"length": p.Dimensions.Length,
			"width":  p.Dimensions.Width,
			"height": p.Dimensions.Height,
		},
	}
	if p.SKU != "" {
		payload["sku"] = p.SKU
	}
	return payload
}

// failingFields flattens the error tree into top-level property names.
func failingFields(err *jsonschema.ValidationError) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := topLevelField(e.InstanceLocation)
			if field != "" && !seen[field] {
				seen[field] = true
				out = append(out, field)
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(err)
	return out
}

func topLevelField(location string) string {
	location = strings.TrimPrefix(location, "/")
	if location == "" {
		return ""
	}
	field, _, _ := strings.Cut(location, "/")
	return field
}

func categoriesAny() []any {
	out := make([]any, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

func statusesAny() []any {
	out := make([]any, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

// IsCategory reports whether name is a supported category.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidProduct, s)
}
