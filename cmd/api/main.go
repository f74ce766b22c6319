package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jlsoftware/marketplace/internal/cart"
	"github.com/jlsoftware/marketplace/internal/catalog"
	"github.com/jlsoftware/marketplace/internal/config"
	"github.com/jlsoftware/marketplace/internal/httpx"
	"github.com/jlsoftware/marketplace/internal/kafkax"
	"github.com/jlsoftware/marketplace/internal/kv"
	"github.com/jlsoftware/marketplace/internal/market"
	"github.com/jlsoftware/marketplace/internal/orders"
	"github.com/jlsoftware/marketplace/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs both the persistence adapter and the status cache
	rdb := kv.NewClient(cfg.RedisAddr)
	defer rdb.Close()
	store := &kv.RedisStore{C: rdb}

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderStatus, 1024)
	pStatus.Start(ctx)

	// Synthetic catalog
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	products, categories := catalog.Generate(rng)
	cat := catalog.NewStore(products, categories)

	// Order ledger, seeded on first run against an empty store
	ledger, err := orders.Open(ctx, orders.Options{
		Store:          store,
		PublishCreated: pCreated,
		PublishStatus:  pStatus,
		Service:        cfg.ServiceName,
		SeedProducts:   products,
		SeedCount:      cfg.SeedOrders,
		Rand:           rng,
	})
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}

	app := &httpx.App{
		Catalog:  cat,
		Carts:    cart.NewRegistry(store),
		Ledger:   ledger,
		Sessions: session.New(store),
		Redis:    rdb,
	}
	router := httpx.NewRouter()
	app.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close()
	pStatus.Close()
	cancel()
	pCreated.WaitClosed()
	pStatus.WaitClosed()
}
