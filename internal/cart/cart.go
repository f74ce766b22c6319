// Package cart implements the per-session shopping cart. Every mutation
// synchronously writes the full snapshot to the key-value store so a
// reload sees the same cart.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Cart holds the items for one session, in first-added order. At most
// one entry exists per product id.
type Cart struct {
	mu        sync.Mutex
	sessionID string
	store     kv.Store
	items     []market.CartItem
}

func New(store kv.Store, sessionID string) *Cart {
	return &Cart{store: store, sessionID: sessionID}
}

// Load restores a session's cart from the store. A missing snapshot
// yields an empty cart.
func Load(ctx context.Context, store kv.Store, sessionID string) (*Cart, error) {
	c := New(store, sessionID)
	raw, ok, err := store.Get(ctx, c.key())
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &c.items); err != nil {
			return nil, fmt.Errorf("decode cart: %w", err)
		}
	}
	return c, nil
}

func (c *Cart) key() string { return fmt.Sprintf(kv.KeyCart, c.sessionID) }

// Add appends the product, or merges into the existing line when the
// product is already in the cart.
func (c *Cart) Add(ctx context.Context, p market.Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	merged := false
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, market.CartItem{Product: p, Quantity: qty})
	}
	return c.persist(ctx)
}

// Remove drops the line for the product id. Absent ids are a no-op.
func (c *Cart) Remove(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(ctx, productID)
}

func (c *Cart) removeLocked(ctx context.Context, productID string) error {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return c.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity sets the line quantity. qty <= 0 removes the line;
// an absent product id is a no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty <= 0 {
		return c.removeLocked(ctx, productID)
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = qty
			return c.persist(ctx)
		}
	}
	return nil
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return c.persist(ctx)
}

func (c *Cart) Items() []market.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]market.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

func (c *Cart) persist(ctx context.Context) error {
	b, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(ctx, c.key(), string(b)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
