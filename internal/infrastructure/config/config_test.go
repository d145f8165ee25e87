package config_test

import (
	"testing"
	"time"

	"github.com/iho/assetsync/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.KafkaEnabled() {
		t.Fatalf("expected kafka to be disabled without brokers, got %v", cfg.KafkaBrokers)
	}

	if cfg.AssetTablesPath != "" {
		t.Fatalf("expected embedded asset tables by default, got %q", cfg.AssetTablesPath)
	}

	if !cfg.OutboxEnabled || cfg.OutboxRetention != 7*24*time.Hour {
		t.Fatalf("expected outbox enabled with a week of retention, got %v %s", cfg.OutboxEnabled, cfg.OutboxRetention)
	}

	if cfg.RateBreakerMaxFailures != 5 {
		t.Fatalf("expected default breaker threshold 5, got %d", cfg.RateBreakerMaxFailures)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("ASSET_TABLES_PATH", "/etc/assetsync/tables.yaml")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" || cfg.RedisEnabled {
		t.Fatalf("expected custom redis settings, got %s enabled=%v", cfg.RedisURL, cfg.RedisEnabled)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if len(cfg.KafkaBrokers) != 2 || !cfg.KafkaEnabled() {
		t.Fatalf("expected two kafka brokers, got %v", cfg.KafkaBrokers)
	}

	if cfg.AssetTablesPath != "/etc/assetsync/tables.yaml" {
		t.Fatalf("expected asset tables path override, got %s", cfg.AssetTablesPath)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
