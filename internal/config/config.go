package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr     string
	RedisAddr    string
	KafkaBrokers []string
	ServiceName  string
	Seed         int64 // RNG seed for synthetic data; 0 means time-based
	SeedOrders   int   // demo orders generated for a fresh ledger
}

func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8082"),
		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "kafka:9092")),
		ServiceName:  getenv("SERVICE_NAME", "marketplace-api"),
		Seed:         int64(atoi(getenv("SEED", "0"))),
		SeedOrders:   atoi(getenv("SEED_ORDERS", "10")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
