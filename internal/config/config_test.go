package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"KILOSHARE_HTTP_ADDR", "KILOSHARE_DB_DSN", "KILOSHARE_REDIS_ADDR", "KILOSHARE_PRICING_STRICT",
		"KILOSHARE_PRICING_CACHE_SIZE", "KILOSHARE_REDIS_DISTANCE_TTL", "KILOSHARE_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.DB.DSN != "" || cfg.Redis.Addr != "" {
		t.Errorf("optional backends should be disabled by default")
	}
	if cfg.Pricing.Strict {
		t.Errorf("pricing should be permissive by default")
	}
	if cfg.Pricing.CacheSize != 4096 {
		t.Errorf("CacheSize = %d", cfg.Pricing.CacheSize)
	}
	if cfg.Redis.DistanceTTL != 24*time.Hour {
		t.Errorf("DistanceTTL = %v", cfg.Redis.DistanceTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KILOSHARE_HTTP_ADDR", ":9090")
	t.Setenv("KILOSHARE_PRICING_STRICT", "true")
	t.Setenv("KILOSHARE_PRICING_CACHE_SIZE", "128")
	t.Setenv("KILOSHARE_REDIS_DISTANCE_TTL", "1h30m")
	t.Setenv("KILOSHARE_REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || !cfg.Pricing.Strict || cfg.Pricing.CacheSize != 128 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.DistanceTTL != 90*time.Minute || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis overrides not applied: %+v", cfg.Redis)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("KILOSHARE_PRICING_STRICT", "maybe")
	t.Setenv("KILOSHARE_PRICING_CACHE_SIZE", "lots")
	t.Setenv("KILOSHARE_REDIS_DISTANCE_TTL", "forever")

	cfg, _ := Load()
	if cfg.Pricing.Strict || cfg.Pricing.CacheSize != 4096 || cfg.Redis.DistanceTTL != 24*time.Hour {
		t.Errorf("invalid values should fall back to defaults: %+v", cfg)
	}
}
