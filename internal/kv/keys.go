package kv

import "time"

const (
	// Cart snapshot per session: jl:cart:{session_id} -> []CartItem
	KeyCart = "jl:cart:%s"

	// The full order ledger, most-recent-first: jl:orders -> []Order
	KeyOrders = "jl:orders"

	// Session identity: jl:session:{session_id} -> User
	KeySession = "jl:session:%s"

	// Locally registered accounts: jl:registered -> []User
	KeyRegistered = "jl:registered"

	// Order status cache kept warm by the notifier:
	// jl:order:status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "jl:order:status:%s"

	// Per-vendor pending-order counter: jl:vendor:pending:{vendor_id} -> int
	KeyVendorPending = "jl:vendor:pending:%s"

	// Event dedup for consumers: jl:dedup:{service}:{event_id}
	KeyDedup = "jl:dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
