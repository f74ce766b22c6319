package catalog

import (
	"sort"
	"strings"

	"github.com/jlsoftware/marketplace/internal/market"
)

type Sort string

const (
	SortFeatured  Sort = "featured" // natural catalog order
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortNewest    Sort = "newest"
)

// Query filters and orders a product collection. Zero values mean no
// filtering and featured order; unknown category or sort values degrade
// the same way.
type Query struct {
	Category string
	Search   string
	Sort     Sort
}

// Apply returns a new slice; the input is never mutated. Sorting is
// stable: products with equal keys keep their relative input order.
func (q Query) Apply(products []market.Product) []market.Product {
	out := make([]market.Product, 0, len(products))

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range products {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	default:
		// featured, or anything unrecognized
	}
	return out
}

func matches(p market.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.VendorName), needle)
}
