package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "PORT", "PRICE_MIN", "MODEL_DIR", "MODEL_PATH", "MODEL_INFO_PATH",
		"DATABASE_URL", "POSTGRESQL_URI", "PG_DSN", "PG_HOST", "REDIS_ADDR", "REDIS_CACHE_TTL_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Pricing.MinPrice != 20.0 {
		t.Errorf("Pricing.MinPrice = %.2f, want 20.00", cfg.Pricing.MinPrice)
	}
	if cfg.Pricing.Currency != "USD" || cfg.Pricing.Period != "per night" {
		t.Errorf("unexpected pricing labels: %+v", cfg.Pricing)
	}
	if cfg.PostgreSQL.Enabled {
		t.Error("PostgreSQL should be disabled without a DSN or host")
	}
	if cfg.Redis.Enabled || cfg.Redis.TTLSeconds != 300 {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}

	want := filepath.Join("data", "models", "villa_price_model.json")
	if got := cfg.ModelPath(); got != want {
		t.Errorf("ModelPath() = %q, want %q", got, want)
	}
	want = filepath.Join("data", "models", "model_info.json")
	if got := cfg.ModelInfoPath(); got != want {
		t.Errorf("ModelInfoPath() = %q, want %q", got, want)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "9100")
	t.Setenv("PRICE_MIN", "35.5")
	t.Setenv("MODEL_PATH", "/srv/models/forest.json")
	t.Setenv("MODEL_INFO_PATH", "")
	t.Setenv("DATABASE_URL", "postgres://villa@localhost/villa_pricing")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 from PORT", cfg.Server.Port)
	}
	if cfg.Pricing.MinPrice != 35.5 {
		t.Errorf("Pricing.MinPrice = %.2f, want 35.50", cfg.Pricing.MinPrice)
	}
	if got := cfg.ModelPath(); got != "/srv/models/forest.json" {
		t.Errorf("ModelPath() = %q", got)
	}
	if got := cfg.ModelInfoPath(); got != filepath.Join("/srv/models", "model_info.json") {
		t.Errorf("ModelInfoPath() should sit next to the artifact, got %q", got)
	}
	if !cfg.PostgreSQL.Enabled {
		t.Error("PostgreSQL should be enabled when DATABASE_URL is set")
	}
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://villa@localhost/villa_pricing" {
		t.Errorf("GetPostgreSQLDSN() = %q", got)
	}
}

func TestLoad_RejectsNegativeFloor(t *testing.T) {
	t.Setenv("PRICE_MIN", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a negative price floor")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" GET, POST ,,OPTIONS ")
	want := []string{"GET", "POST", "OPTIONS"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}
}

func TestLoad_Redis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_CACHE_TTL_SECONDS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis should be enabled when REDIS_ADDR is set")
	}
	if cfg.Redis.TTLSeconds != 300 {
		t.Errorf("Redis.TTLSeconds = %d, want fallback 300", cfg.Redis.TTLSeconds)
	}
}
