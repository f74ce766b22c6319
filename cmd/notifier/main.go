package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jlsoftware/marketplace/internal/config"
	"github.com/jlsoftware/marketplace/internal/kafkax"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
	"github.com/jlsoftware/marketplace/internal/notifier"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := kv.NewClient(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	created := kafkax.NewConsumer(cfg.KafkaBrokers, group, market.TopicOrderCreated, workers)
	status := kafkax.NewConsumer(cfg.KafkaBrokers, group, market.TopicOrderStatus, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, market.TopicOrderCreated, workers)
		if err := created.Start(ctx, svc.HandleOrderCreated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()
	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, market.TopicOrderStatus, workers)
		if err := status.Start(ctx, svc.HandleStatusChanged); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
