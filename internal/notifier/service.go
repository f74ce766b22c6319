// Package notifier tails the order topics and keeps the Redis-side
// dashboard state warm: per-order status cache and per-vendor pending
// counters.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/jlsoftware/marketplace/internal/kafkax"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderCreated caches the pending status and bumps the vendor's
// pending counter. Duplicate deliveries are dropped by event id.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventOrderCreated {
		return nil
	}
	dup, err := s.seen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if dup {
		return nil
	}

	p, err := kafkax.UnwrapPayload[market.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	if err := s.cacheStatus(ctx, p.OrderID, market.StatusPending); err != nil {
		return err
	}
	return s.Redis.Incr(ctx, fmt.Sprintf(kv.KeyVendorPending, p.VendorID)).Err()
}

// HandleStatusChanged refreshes the cached status and, when the order
// leaves pending, releases the vendor's pending counter.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventOrderStatusChanged {
		return nil
	}
	dup, err := s.seen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if dup {
		return nil
	}

	p, err := kafkax.UnwrapPayload[market.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	if err := s.cacheStatus(ctx, p.OrderID, p.Status); err != nil {
		return err
	}
	if p.Previous == market.StatusPending && p.Status != market.StatusPending {
		return s.Redis.Decr(ctx, fmt.Sprintf(kv.KeyVendorPending, p.VendorID)).Err()
	}
	return nil
}

func (s *Service) seen(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(kv.KeyDedup, s.ServiceName, eventID)
	exists, err := kv.Exists(ctx, s.Redis, key)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}
	return false, s.Redis.Set(ctx, key, "1", kv.TTLDedup).Err()
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, status market.OrderStatus) error {
	body, _ := json.Marshal(map[string]any{"status": status})
	key := fmt.Sprintf(kv.KeyOrderStatus, orderID)
	return s.Redis.Set(ctx, key, string(body), kv.TTLStatusCache).Err()
}
