package cart

import (
	"context"
	"sync"

	"github.com/jlsoftware/marketplace/internal/kv"
)

// Registry hands out one Cart per session id, loading the persisted
// snapshot the first time a session shows up.
type Registry struct {
	mu    sync.Mutex
	store kv.Store
	carts map[string]*Cart
}

func NewRegistry(store kv.Store) *Registry {
	return &Registry{store: store, carts: make(map[string]*Cart)}
}

func (r *Registry) Get(ctx context.Context, sessionID string) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[sessionID]; ok {
		return c, nil
	}
	c, err := Load(ctx, r.store, sessionID)
	if err != nil {
		return nil, err
	}
	r.carts[sessionID] = c
	return c, nil
}
