package market

const (
	TopicOrderCreated = "market.order.created"
	TopicOrderStatus  = "market.order.status"
)

// Partition key = order_id, so all events for one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
