package templates

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed assets/catalog.json
var defaultCatalog []byte

// Catalog serves template descriptors.
type Catalog interface {
	List(ctx context.Context) ([]Descriptor, error)
	Get(ctx context.Context, id string) (Descriptor, error)
}

// MemoryCatalog is a fixed, ordered set of descriptors.
type MemoryCatalog struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Descriptor
}

func NewMemoryCatalog(items []Descriptor) *MemoryCatalog {
	c := &MemoryCatalog{byID: make(map[string]Descriptor, len(items))}
	for _, d := range items {
		if _, ok := c.byID[d.ID]; !ok {
			c.order = append(c.order, d.ID)
		}
		c.byID[d.ID] = d
	}
	return c
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*MemoryCatalog, error) {
	items, err := DefaultDescriptors()
	if err != nil {
		return nil, err
	}
	return NewMemoryCatalog(items), nil
}

// DefaultDescriptors parses the embedded catalog.
func DefaultDescriptors() ([]Descriptor, error) {
	items, err := ParseCatalog(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return items, nil
}

func (c *MemoryCatalog) List(ctx context.Context) ([]Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out, nil
}

func (c *MemoryCatalog) Get(ctx context.Context, id string) (Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return Descriptor{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

var _ Catalog = (*MemoryCatalog)(nil)
