package catalog

import (
	"testing"
	"time"

	"github.com/jlsoftware/marketplace/internal/market"
)

func fixture() []market.Product {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []market.Product{
		{ID: "p1", Name: "Wireless Earbuds", Description: "great sound", Category: "electronics", VendorName: "TechHub Store", Price: 3000, Rating: 4.5, CreatedAt: base.AddDate(0, 0, 3)},
		{ID: "p2", Name: "Summer Dress", Description: "light fabric", Category: "fashion", VendorName: "Fashion Forward", Price: 1500, Rating: 4.5, CreatedAt: base.AddDate(0, 0, 1)},
		{ID: "p3", Name: "Smart Watch", Description: "tracks earbuds battery", Category: "electronics", VendorName: "TechHub Store", Price: 3000, Rating: 3.9, CreatedAt: base.AddDate(0, 0, 5)},
		{ID: "p4", Name: "Blender Set", Description: "kitchen helper", Category: "home-kitchen", VendorName: "Home Essentials", Price: 900, Rating: 4.9, CreatedAt: base},
	}
}

func ids(ps []market.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCategoryFilter(t *testing.T) {
	cases := []struct {
		name     string
		category string
		want     []string
	}{
		{"exact match", "electronics", []string{"p1", "p3"}},
		{"all means no filter", "all", []string{"p1", "p2", "p3", "p4"}},
		{"empty means no filter", "", []string{"p1", "p2", "p3", "p4"}},
		{"unknown category matches nothing", "toys", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Query{Category: tc.category}.Apply(fixture()))
			if !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchFilter(t *testing.T) {
	cases := []struct {
		name   string
		search string
		want   []string
	}{
		{"matches name", "earbuds", []string{"p1", "p3"}}, // p3 matches on description
		{"case insensitive", "SUMMER", []string{"p2"}},
		{"matches vendor name", "home essentials", []string{"p4"}},
		{"empty is a no-op", "", []string{"p1", "p2", "p3", "p4"}},
		{"no match", "zzz", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Query{Search: tc.search}.Apply(fixture()))
			if !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchAppliesAfterCategory(t *testing.T) {
	got := ids(Query{Category: "electronics", Search: "watch"}.Apply(fixture()))
	if !equal(got, []string{"p3"}) {
		t.Fatalf("got %v, want [p3]", got)
	}
}

func TestSortOrders(t *testing.T) {
	cases := []struct {
		name string
		sort Sort
		want []string
	}{
		{"price low, stable on tie", SortPriceLow, []string{"p4", "p2", "p1", "p3"}},
		{"price high, stable on tie", SortPriceHigh, []string{"p1", "p3", "p2", "p4"}},
		{"rating descending, stable on tie", SortRating, []string{"p4", "p1", "p2", "p3"}},
		{"newest first", SortNewest, []string{"p3", "p1", "p2", "p4"}},
		{"featured keeps input order", SortFeatured, []string{"p1", "p2", "p3", "p4"}},
		{"unknown degrades to featured", Sort("bogus"), []string{"p1", "p2", "p3", "p4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Query{Sort: tc.sort}.Apply(fixture()))
			if !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortIsNonDecreasingOnPrice(t *testing.T) {
	out := Query{Sort: SortPriceLow}.Apply(fixture())
	for i := 1; i < len(out); i++ {
		if out[i].Price < out[i-1].Price {
			t.Fatalf("price order violated at %d: %d < %d", i, out[i].Price, out[i-1].Price)
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Query{Sort: SortPriceLow}.Apply(in)
	if !equal(ids(in), []string{"p1", "p2", "p3", "p4"}) {
		t.Fatalf("input mutated: %v", ids(in))
	}
}
