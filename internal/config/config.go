// README: Config loader with env defaults for HTTP, DB, Redis, pricing and logging settings.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PricingConfig struct {
	Strict        bool
	CacheSize     int
	ReferenceFile string
}

type Config struct {
	HTTP struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	DB struct {
		DSN string // empty disables the Postgres reference overlay
	}
	Redis struct {
		Addr        string // empty disables the shared distance cache
		DistanceTTL time.Duration
	}
	Pricing PricingConfig
	Log     struct {
		Level string
	}
	Metrics struct {
		Namespace string
	}
}

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("KILOSHARE_HTTP_ADDR", ":8080")
	cfg.HTTP.ShutdownTimeout = envOrDefaultDuration("KILOSHARE_SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.DB.DSN = os.Getenv("KILOSHARE_DB_DSN")
	cfg.Redis.Addr = os.Getenv("KILOSHARE_REDIS_ADDR")
	cfg.Redis.DistanceTTL = envOrDefaultDuration("KILOSHARE_REDIS_DISTANCE_TTL", 24*time.Hour)
	cfg.Pricing.Strict = envOrDefaultBool("KILOSHARE_PRICING_STRICT", false)
	cfg.Pricing.CacheSize = envOrDefaultInt("KILOSHARE_PRICING_CACHE_SIZE", 4096)
	cfg.Pricing.ReferenceFile = os.Getenv("KILOSHARE_REFERENCE_FILE")
	cfg.Log.Level = envOrDefault("KILOSHARE_LOG_LEVEL", "info")
	cfg.Metrics.Namespace = envOrDefault("KILOSHARE_METRICS_NAMESPACE", "kiloshare")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
