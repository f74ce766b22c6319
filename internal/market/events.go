package market

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Envelope wraps every event published to Kafka.
type Envelope struct {
	EventID       string          `json:"event_id"` // uuid
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "marketplace-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Price     int    `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	VendorID   string      `json:"vendor_id"`
	Items      []OrderLine `json:"items"`
	Total      int         `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID  string      `json:"order_id"`
	VendorID string      `json:"vendor_id"`
	Previous OrderStatus `json:"previous"`
	Status   OrderStatus `json:"status"`
}
