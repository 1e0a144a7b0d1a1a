package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	KafkaBrokers   []string
	ReconcileTopic string
	AlertTopic     string
	ConsumerGroup  string

	CachePath     string // BadgerDB directory for the recipe cache
	MerchantEmail string // single destination for low-stock alerts

	WorkerCount      int
	WorkerMaxRetries int
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=siparis port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		ReconcileTopic:   getEnv("KAFKA_RECONCILE_TOPIC", "stock-reconcile"),
		AlertTopic:       getEnv("KAFKA_ALERT_TOPIC", "low-stock-alerts"),
		ConsumerGroup:    getEnv("KAFKA_CONSUMER_GROUP", "stock-reconcilers"),
		CachePath:        getEnv("CACHE_PATH", "./recipe-cache"),
		MerchantEmail:    getEnv("MERCHANT_EMAIL", ""),
		WorkerCount:      getEnvInt("WORKER_COUNT", 2),
		WorkerMaxRetries: getEnvInt("WORKER_MAX_RETRIES", 5),
	}

	if cfg.MerchantEmail == "" {
		log.Println("[WARN] MERCHANT_EMAIL is not set, low-stock alerts will carry an empty recipient.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=siparis port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}

	return cfg
}

// RequireJWTSecret enforces the auth preconditions the HTTP server needs.
// The queue worker loads the same config but never issues tokens.
func (c *Config) RequireJWTSecret() {
	if c.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set! It is required for the API server.")
	}
	if len(c.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters!")
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s=%q is not a positive integer, using %d", key, v, def)
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
