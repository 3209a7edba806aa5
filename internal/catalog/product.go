// Package catalog holds the product data the session engine prices cart lines with.
// The catalog itself lives in a remote service; this package only fetches and snapshots it.
package catalog

import (
	"sort"
	"strings"
)

type Product struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Price         int64    `json:"price" validate:"min=0"`
	Category      string   `json:"category,omitempty"`
	ProductType   string   `json:"productType,omitempty"`
	UsageCategory string   `json:"usageCategory,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	IsNew         bool     `json:"isNew,omitempty"`
	IsBestseller  bool     `json:"isBestseller,omitempty"`
	IsMostLoved   bool     `json:"isMostLoved,omitempty"`
}

// Lookup resolves a product id against catalog data that is already in memory.
type Lookup interface {
	GetProduct(id string) (Product, bool)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(id string) (Product, bool)

func (f LookupFunc) GetProduct(id string) (Product, bool) {
	return f(id)
}

// Snapshot is an immutable in-memory catalog keyed by product id.
type Snapshot struct {
	products map[string]Product
}

// NewSnapshot indexes products by id. Later duplicates replace earlier ones.
func NewSnapshot(products []Product) *Snapshot {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			continue
		}
		index[p.ID] = p
	}
	return &Snapshot{products: index}
}

func (s *Snapshot) GetProduct(id string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	p, ok := s.products[strings.TrimSpace(id)]
	return p, ok
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

// IDs returns the product ids in lexical order.
func (s *Snapshot) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
