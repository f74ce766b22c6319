package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jlsoftware/marketplace/internal/market"
)

// Demo data only. Everything below is synthetic; no real vendors,
// prices or stock exist behind it.

var seedCategories = []market.Category{
	{ID: "electronics", Name: "Electronics", Icon: "📱"},
	{ID: "phones", Name: "Phones", Icon: "📞"},
	{ID: "fashion", Name: "Fashion", Icon: "👗"},
	{ID: "home-kitchen", Name: "Home & Kitchen", Icon: "🏠"},
	{ID: "beauty", Name: "Beauty", Icon: "💄"},
	{ID: "computing", Name: "Computing", Icon: "💻"},
}

var seedNames = map[string][]string{
	"electronics":  {"Wireless Earbuds Pro", "Smart Watch Ultra", "Bluetooth Speaker", "Power Bank 20000mAh", "LED Desk Lamp"},
	"phones":       {"Galaxy S24 Ultra", "iPhone 15 Pro Max", "Pixel 8 Pro", "OnePlus 12", "Xiaomi 14"},
	"fashion":      {"Designer Handbag", "Men's Leather Jacket", "Summer Dress", "Running Shoes", "Wool Sweater"},
	"home-kitchen": {"Air Fryer Pro", "Coffee Maker Deluxe", "Blender Set", "Non-Stick Pan Set", "Smart Thermos"},
	"beauty":       {"Skincare Set", "Makeup Palette Pro", "Hair Dryer", "Perfume Collection", "Face Serum"},
	"computing":    {"MacBook Air M3", "Gaming Laptop", "Mechanical Keyboard", "Wireless Mouse", "4K Monitor"},
}

var seedImages = map[string][]string{
	"electronics": {
		"https://images.unsplash.com/photo-1546868871-7041f2a55e12?w=400",
		"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400",
		"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400",
	},
	"phones": {
		"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=400",
		"https://images.unsplash.com/photo-1592899677977-9c10ca588bbd?w=400",
		"https://images.unsplash.com/photo-1574944985070-8f3ebc6b79d2?w=400",
	},
	"fashion": {
		"https://images.unsplash.com/photo-1445205170230-053b83016050?w=400",
		"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400",
		"https://images.unsplash.com/photo-1490481651871-ab68de25d43d?w=400",
	},
	"home-kitchen": {
		"https://images.unsplash.com/photo-1556909114-f6e7ad7d3136?w=400",
		"https://images.unsplash.com/photo-1584568694244-14fbdf83bd30?w=400",
		"https://images.unsplash.com/photo-1513694203232-719a280e022f?w=400",
	},
	"beauty": {
		"https://images.unsplash.com/photo-1596462502278-27bfdc403348?w=400",
		"https://images.unsplash.com/photo-1571781926291-c477ebfd024b?w=400",
		"https://images.unsplash.com/photo-1522335789203-aabd1fc54bc9?w=400",
	},
	"computing": {
		"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=400",
		"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400",
		"https://images.unsplash.com/photo-1525547719571-a2d4ac8945e2?w=400",
	},
}

// Vendor is a seed vendor identity, also used when generating orders.
type Vendor struct {
	ID   string
	Name string
}

var SeedVendors = []Vendor{
	{ID: "vendor-1", Name: "TechHub Store"},
	{ID: "vendor-2", Name: "Fashion Forward"},
	{ID: "vendor-3", Name: "Home Essentials"},
	{ID: "vendor-4", Name: "Beauty Palace"},
	{ID: "vendor-5", Name: "Digital Dreams"},
}

// Generate builds the synthetic catalog: five products per category,
// random vendor, price and rating per product. Deterministic for a
// given rng.
func Generate(rng *rand.Rand) ([]market.Product, []market.Category) {
	var products []market.Product
	id := 1
	now := time.Now()

	for _, cat := range seedCategories {
		names := seedNames[cat.ID]
		images := seedImages[cat.ID]

		for i, name := range names {
			vendor := SeedVendors[rng.Intn(len(SeedVendors))]
			basePrice := rng.Intn(50000) + 1000
			hasDiscount := rng.Intn(2) == 1
			discount := 0
			price := basePrice
			originalPrice := 0
			if hasDiscount {
				discount = rng.Intn(30) + 5
				originalPrice = basePrice
				price = basePrice * (100 - discount) / 100
			}

			products = append(products, market.Product{
				ID:   fmt.Sprintf("product-%d", id),
				Name: name,
				Description: fmt.Sprintf(
					"High-quality %s from %s. Premium materials and exceptional craftsmanship. Perfect for everyday use with modern design aesthetics.",
					strings.ToLower(name), vendor.Name),
				Price:         price,
				OriginalPrice: originalPrice,
				Discount:      discount,
				Images:        []string{images[i%len(images)]},
				Category:      cat.ID,
				VendorID:      vendor.ID,
				VendorName:    vendor.Name,
				Stock:         rng.Intn(100) + 1,
				Rating:        float64(rng.Intn(21)+30) / 10, // 3.0 .. 5.0
				ReviewCount:   rng.Intn(500) + 10,
				CreatedAt:     now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour),
			})
			id++
		}
	}

	cats := make([]market.Category, len(seedCategories))
	copy(cats, seedCategories)
	return products, cats
}
