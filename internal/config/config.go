// Package config loads runtime configuration from the environment. A .env
// file in the working directory is picked up automatically, which keeps
// local development (docker compose) and production (real env vars) on the
// same code path.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	// Load .env into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
)

// Store selects the order repository backend.
const (
	StoreMemory   = "memory"
	StoreJSONFile = "json"
	StorePostgres = "postgres"
)

// Payment selects the payment processor.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

type Config struct {
	ServiceName string
	HTTPAddr    string

	// Store is one of memory, json or postgres. JSONPath applies to the
	// json store, DatabaseURL to postgres.
	Store       string
	JSONPath    string
	DatabaseURL string

	// RedisAddr enables the order cache in front of the store when set.
	RedisAddr string
	CacheTTL  time.Duration

	// OrderLogPath enables the SQLite order event log when set.
	OrderLogPath string

	// AMQPURL enables event publishing to RabbitMQ when set.
	AMQPURL string

	Payment   string
	CardLimit float64
}

// Load reads the configuration from the environment, applying defaults that
// make `go run ./cmd/brewline` work with no setup at all.
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:  getEnv("SERVICE_NAME", "brewline"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		Store:        getEnv("ORDER_STORE", StoreMemory),
		JSONPath:     getEnv("ORDER_STORE_PATH", "orders.json"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		OrderLogPath: getEnv("ORDER_LOG_PATH", ""),
		AMQPURL:      getEnv("AMQP_URL", ""),
		Payment:      getEnv("PAYMENT_PROCESSOR", PaymentCash),
	}

	switch cfg.Store {
	case StoreMemory, StoreJSONFile:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: ORDER_STORE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("config: unknown ORDER_STORE %q", cfg.Store)
	}

	switch cfg.Payment {
	case PaymentCash, PaymentCard:
	default:
		return nil, fmt.Errorf("config: unknown PAYMENT_PROCESSOR %q", cfg.Payment)
	}

	limit, err := getEnvFloat("CARD_LIMIT", 0)
	if err != nil {
		return nil, err
	}
	cfg.CardLimit = limit

	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", 0)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a number: %w", key, err)
	}
	return value, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return value, nil
}
