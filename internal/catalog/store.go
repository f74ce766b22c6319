// Package catalog holds the generated product and category collections
// and the query layer that filters and sorts them for the storefront.
package catalog

import (
	"github.com/jlsoftware/marketplace/internal/market"
)

// Store is read-only after construction and safe for concurrent use.
type Store struct {
	products   []market.Product
	categories []market.Category
	byID       map[string]market.Product
}

func NewStore(products []market.Product, categories []market.Category) *Store {
	byID := make(map[string]market.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Store{products: products, categories: categories, byID: byID}
}

// Products returns a copy of the collection in natural ("featured") order.
func (s *Store) Products() []market.Product {
	out := make([]market.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) ProductByID(id string) (market.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Categories returns the category set with ProductCount computed from
// the live product collection rather than a stored figure.
func (s *Store) Categories() []market.Category {
	counts := make(map[string]int, len(s.categories))
	for _, p := range s.products {
		counts[p.Category]++
	}
	out := make([]market.Category, len(s.categories))
	for i, c := range s.categories {
		c.ProductCount = counts[c.ID]
		out[i] = c
	}
	return out
}

func (s *Store) CountByCategory(categoryID string) int {
	n := 0
	for _, p := range s.products {
		if p.Category == categoryID {
			n++
		}
	}
	return n
}

func (s *Store) CountByVendor(vendorID string) int {
	n := 0
	for _, p := range s.products {
		if p.VendorID == vendorID {
			n++
		}
	}
	return n
}

// VendorIDs returns the distinct vendor ids present in the catalog.
func (s *Store) VendorIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if !seen[p.VendorID] {
			seen[p.VendorID] = true
			out = append(out, p.VendorID)
		}
	}
	return out
}
