package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	SimulationURL      string
	RedisAddr          string
	CacheTTL           time.Duration
	CatalogDSN         string
	RateLimitPerMinute int
	Locale             string
}

// LoadEnv loads a .env file when there is one; variables already set in the
// environment win.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using system environment")
		return
	}
	log.Println(".env file loaded")
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	cfg := Config{
		Port:               GetEnv("PORT", "8080"),
		SimulationURL:      GetEnv("SIMULATION_URL", "https://jsonplaceholder.typicode.com/posts"),
		RedisAddr:          GetEnv("REDIS_ADDR"),
		CacheTTL:           getDuration("CACHE_TTL", 24*time.Hour),
		CatalogDSN:         GetEnv("CATALOG_DSN"),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 5),
		Locale:             GetEnv("LOCALE", "pt-BR"),
	}

	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, caching simulations in memory")
	}
	if cfg.CatalogDSN == "" {
		log.Println("CATALOG_DSN not set, serving the built-in catalog")
	}
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
	raw := GetEnv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := GetEnv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}
