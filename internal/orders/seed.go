package orders

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jlsoftware/marketplace/internal/market"
)

var seedStatuses = []market.OrderStatus{
	market.StatusPending,
	market.StatusConfirmed,
	market.StatusShipped,
	market.StatusDelivered,
}

// generateOrders fabricates a demo ledger for a fresh store: orders of
// one to three catalog products with randomized status, payment method
// and age. The customer is the fixed demo customer account.
func generateOrders(rng *rand.Rand, products []market.Product, count int) []market.Order {
	now := time.Now().UTC()
	out := make([]market.Order, 0, count)

	for i := 1; i <= count; i++ {
		n := rng.Intn(3) + 1
		if n > len(products) {
			n = len(products)
		}
		items := make([]market.CartItem, 0, n)
		total := 0
		for _, p := range products[:n] {
			it := market.CartItem{Product: p, Quantity: rng.Intn(3) + 1}
			items = append(items, it)
			total += it.Subtotal()
		}

		method := market.PaymentMpesa
		if rng.Intn(2) == 1 {
			method = market.PaymentCard
		}

		created := now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour)
		out = append(out, market.Order{
			ID:            fmt.Sprintf("order-%d", i),
			CustomerID:    "customer-1",
			CustomerName:  "John Doe",
			CustomerEmail: "customer@example.com",
			Items:         items,
			Total:         total,
			Status:        seedStatuses[rng.Intn(len(seedStatuses))],
			DeliveryLocation: market.DeliveryLocation{
				City:           "Nairobi",
				Area:           "Westlands",
				StreetLandmark: "123 Main Street, Near Shopping Mall",
			},
			PaymentMethod: method,
			VendorID:      items[0].Product.VendorID,
			VendorName:    items[0].Product.VendorName,
			CreatedAt:     created,
			UpdatedAt:     now,
		})
	}
	return out
}
