// Package orders owns the order ledger: creation at checkout, status
// transitions, and the role-scoped queries the dashboards run.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jlsoftware/marketplace/internal/kafkax"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
	kafkago "github.com/segmentio/kafka-go"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrNoItems           = errors.New("order requires at least one item")
	ErrInvalidPayment    = errors.New("unknown payment method")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Publisher is what the ledger needs from a Kafka producer.
// *kafkax.Producer satisfies it; tests plug in a capturing stub.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Options configures Open. Publishers may be nil, in which case events
// are simply not emitted.
type Options struct {
	Store          kv.Store
	PublishCreated Publisher
	PublishStatus  Publisher
	Service        string

	// Seed inputs, used once when the persisted ledger is empty.
	SeedProducts []market.Product
	SeedCount    int
	Rand         *rand.Rand
}

// Ledger keeps orders most-recent-first. Orders are never deleted;
// only Status and UpdatedAt change after creation.
type Ledger struct {
	mu      sync.RWMutex
	store   kv.Store
	created Publisher
	status  Publisher
	service string
	orders  []market.Order
}

// Open loads the persisted ledger. On first use with no persisted
// ledger it seeds a batch of synthetic orders so the dashboards have
// something to show; the seeded ledger is persisted immediately, so
// seeding happens at most once per store.
func Open(ctx context.Context, o Options) (*Ledger, error) {
	l := &Ledger{
		store:   o.Store,
		created: o.PublishCreated,
		status:  o.PublishStatus,
		service: o.Service,
	}
	raw, ok, err := o.Store.Get(ctx, kv.KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &l.orders); err != nil {
			return nil, fmt.Errorf("decode ledger: %w", err)
		}
		return l, nil
	}
	if o.SeedCount > 0 && len(o.SeedProducts) > 0 {
		rng := o.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		l.orders = generateOrders(rng, o.SeedProducts, o.SeedCount)
	}
	if err := l.persistLocked(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Create builds an order from the given cart items and appends it to
// the front of the ledger. user may be nil; a fixed guest identity is
// stamped in that case.
//
// The whole order is attributed to the first item's vendor even when
// the cart mixes vendors. Splitting a mixed cart into one order per
// vendor is a product decision that has not been taken.
func (l *Ledger) Create(ctx context.Context, user *market.User, items []market.CartItem, loc market.DeliveryLocation, method market.PaymentMethod) (market.Order, error) {
	if len(items) == 0 {
		return market.Order{}, ErrNoItems
	}
	if err := loc.Validate(); err != nil {
		return market.Order{}, err
	}
	if _, ok := market.ParsePaymentMethod(string(method)); !ok {
		return market.Order{}, fmt.Errorf("%w: %q", ErrInvalidPayment, method)
	}

	customerID, customerName, customerEmail := "guest", "Guest User", "guest@example.com"
	if user != nil {
		customerID, customerName, customerEmail = user.ID, user.Name, user.Email
	}

	total := 0
	snapshot := make([]market.CartItem, len(items))
	copy(snapshot, items)
	for _, it := range snapshot {
		total += it.Subtotal()
	}

	now := time.Now().UTC()
	order := market.Order{
		ID:               uuid.NewString(),
		CustomerID:       customerID,
		CustomerName:     customerName,
		CustomerEmail:    customerEmail,
		Items:            snapshot,
		Total:            total,
		Status:           market.StatusPending,
		DeliveryLocation: loc,
		PaymentMethod:    method,
		VendorID:         snapshot[0].Product.VendorID,
		VendorName:       snapshot[0].Product.VendorName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	l.mu.Lock()
	l.orders = append([]market.Order{order}, l.orders...)
	err := l.persistLocked(ctx)
	l.mu.Unlock()
	if err != nil {
		return market.Order{}, err
	}

	l.publishCreated(order)
	return order, nil
}

// UpdateStatus moves the order one step along the
// pending -> confirmed -> shipped -> delivered chain. Anything else is
// rejected with ErrInvalidTransition; unknown ids with ErrNotFound.
func (l *Ledger) UpdateStatus(ctx context.Context, orderID string, status market.OrderStatus) (market.Order, error) {
	l.mu.Lock()
	idx := -1
	for i := range l.orders {
		if l.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return market.Order{}, ErrNotFound
	}
	prev := l.orders[idx].Status
	if !market.CanTransition(prev, status) {
		l.mu.Unlock()
		return market.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, status)
	}
	l.orders[idx].Status = status
	l.orders[idx].UpdatedAt = time.Now().UTC()
	order := l.orders[idx]
	err := l.persistLocked(ctx)
	l.mu.Unlock()
	if err != nil {
		return market.Order{}, err
	}

	l.publishStatus(order, prev)
	return order, nil
}

func (l *Ledger) ByVendor(vendorID string) []market.Order {
	return l.filter(func(o market.Order) bool { return o.VendorID == vendorID })
}

func (l *Ledger) ByCustomer(customerID string) []market.Order {
	return l.filter(func(o market.Order) bool { return o.CustomerID == customerID })
}

func (l *Ledger) All() []market.Order {
	return l.filter(func(market.Order) bool { return true })
}

// For scopes the ledger to what the given actor may see. A nil user
// sees nothing.
func (l *Ledger) For(user *market.User) []market.Order {
	if user == nil {
		return nil
	}
	switch user.Role {
	case market.RoleCustomer:
		return l.ByCustomer(user.ID)
	case market.RoleVendor:
		return l.ByVendor(user.ID)
	case market.RoleAdmin:
		return l.All()
	default:
		return nil
	}
}

func (l *Ledger) Get(orderID string) (market.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return market.Order{}, false
}

// VendorStats aggregates a vendor's slice of the ledger.
// productCount comes from the catalog since the ledger does not own it.
func (l *Ledger) VendorStats(vendorID string, productCount int) market.VendorStats {
	st := market.VendorStats{TotalProducts: productCount}
	for _, o := range l.ByVendor(vendorID) {
		st.TotalOrders++
		st.TotalRevenue += o.Total
		if o.Status == market.StatusPending {
			st.PendingOrders++
		}
	}
	return st
}

func (l *Ledger) AdminStats(userCount, vendorCount, productCount int) market.AdminStats {
	st := market.AdminStats{
		TotalUsers:    userCount,
		TotalVendors:  vendorCount,
		TotalProducts: productCount,
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	st.TotalOrders = len(l.orders)
	for _, o := range l.orders {
		st.TotalRevenue += o.Total
	}
	return st
}

func (l *Ledger) filter(keep func(market.Order) bool) []market.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []market.Order
	for _, o := range l.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// persistLocked writes the whole ledger; callers hold l.mu.
func (l *Ledger) persistLocked(ctx context.Context) error {
	b, err := json.Marshal(l.orders)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.Set(ctx, kv.KeyOrders, string(b)); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

func (l *Ledger) publishCreated(o market.Order) {
	if l.created == nil {
		return
	}
	lines := make([]market.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, market.OrderLine{ProductID: it.Product.ID, Qty: it.Quantity, Price: it.Product.Price})
	}
	publish(l.created, l.service, market.EventOrderCreated, o.ID, market.OrderCreatedPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		VendorID:   o.VendorID,
		Items:      lines,
		Total:      o.Total,
	})
}

func (l *Ledger) publishStatus(o market.Order, prev market.OrderStatus) {
	if l.status == nil {
		return
	}
	publish(l.status, l.service, market.EventOrderStatusChanged, o.ID, market.OrderStatusChangedPayload{
		OrderID:  o.ID,
		VendorID: o.VendorID,
		Previous: prev,
		Status:   o.Status,
	})
}

func publish(p Publisher, service, eventType, orderID string, payload any) {
	ev := market.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(market.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
