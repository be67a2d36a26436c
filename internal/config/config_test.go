package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":8081" || cfg.StoreDriver != StorePostgres || cfg.LowStockMode != LowStockInline {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.LowStockThreshold != 20 {
		t.Errorf("threshold = %d, want 20", cfg.LowStockThreshold)
	}
	if cfg.PaymentGatewayTimeout != 10*time.Second {
		t.Errorf("gateway timeout = %s, want 10s", cfg.PaymentGatewayTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/p.db")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("EMAIL_USER", "owner@example.com")
	t.Setenv("ORDER_RATE_WINDOW_SEC", "30")
	t.Setenv("PAYMENT_GATEWAY_TIMEOUT", "3s")
	t.Setenv("SEED_CATALOG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.SQLitePath != "/tmp/p.db" {
		t.Errorf("store = %s %s", cfg.StoreDriver, cfg.SQLitePath)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"a:9092", "b:9092"}) {
		t.Errorf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.AlertEmail != "owner@example.com" {
		t.Errorf("alert email = %q, want EMAIL_USER fallback", cfg.AlertEmail)
	}
	if cfg.OrderRateWindow != 30*time.Second || cfg.PaymentGatewayTimeout != 3*time.Second || !cfg.SeedCatalog {
		t.Errorf("unexpected %+v", cfg)
	}

	t.Setenv("ALERT_EMAIL", "ops@example.com")
	cfg, _ = Load()
	if cfg.AlertEmail != "ops@example.com" {
		t.Errorf("ALERT_EMAIL should win over EMAIL_USER, got %q", cfg.AlertEmail)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("http_addr: \":9000\"\nstore_driver: memory\nlow_stock_threshold: 15\npayment_gateway_timeout: 2s\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":9100" {
		t.Errorf("env should override file, got %q", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != StoreMemory || cfg.LowStockThreshold != 15 || cfg.PaymentGatewayTimeout != 2*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"unknown lowstock mode", map[string]string{"LOWSTOCK_MODE": "cron"}},
		{"kafka mode on memory store", map[string]string{"LOWSTOCK_MODE": "kafka", "STORE_DRIVER": "memory"}},
		{"zero threshold", map[string]string{"LOW_STOCK_THRESHOLD": "0"}},
		{"bad int", map[string]string{"ORDER_RATE_LIMIT": "many"}},
		{"bad bool", map[string]string{"SEED_CATALOG": "perhaps"}},
		{"bad duration", map[string]string{"PAYMENT_GATEWAY_TIMEOUT": "soon"}},
		{"zero window", map[string]string{"ORDER_RATE_WINDOW_SEC": "0"}},
		{"missing file", map[string]string{"CONFIG_FILE": "/nonexistent/config.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
