package market

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered:
		return OrderStatus(s), true
	}
	return "", false
}

// Orders move strictly forward, one step at a time. Delivered is terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusConfirmed: true},
	StatusConfirmed: {StatusShipped: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}
