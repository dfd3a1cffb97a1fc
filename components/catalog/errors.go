package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound       = errors.New("catalog: product not found")
	ErrDuplicateSKU   = errors.New("catalog: sku already exists")
	ErrInvalidProduct = errors.New("catalog: invalid product")
	ErrBlobNotFound   = errors.New("catalog: blob not found")
)

// ValidationError aggregates every failing field of a product.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "catalog: invalid product: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidProduct
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// BulkError lists the ids a bulk operation could not find. Nothing was
// changed when it is returned.
type BulkError struct {
	Op      string
	Missing []string
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("catalog: %s: %d product(s) not found: %s", e.Op, len(e.Missing), strings.Join(e.Missing, ", "))
}

func (e *BulkError) Unwrap() error {
	return ErrNotFound
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
