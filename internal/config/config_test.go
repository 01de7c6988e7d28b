package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORAGE_BACKEND", "DATA_FILE", "ADMIN_SECRET", "REQUIRE_ADMIN_TOKEN", "SESSION_TTL_MINUTES"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AppPort != "3000" || cfg.StorageBackend != BackendFile || cfg.DataFile != "products.json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AdminSecret != "123" {
		t.Fatalf("admin secret default = %q", cfg.AdminSecret)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "store")
	t.Setenv("SEED_CATALOG", "true")
	t.Setenv("SESSION_TTL_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageBackend != BackendMongo || !cfg.SeedCatalog || cfg.SessionTTL != 15*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DB_NAME", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "MONGO_URI") {
		t.Fatalf("expected missing MONGO_URI, got %v", err)
	}

	t.Setenv("STORAGE_BACKEND", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend error")
	}

	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("REQUIRE_ADMIN_TOKEN", "yes-please")
	t.Setenv("SESSION_SIGNING_KEY", "")
	if _, err := Load(); err != nil {
		t.Fatalf("invalid bool should fall back to default, got %v", err)
	}

	t.Setenv("REQUIRE_ADMIN_TOKEN", "1")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_SIGNING_KEY") {
		t.Fatalf("expected missing signing key, got %v", err)
	}
}

func TestSafeConfigOmitsSecrets(t *testing.T) {
	cfg := &Config{AdminSecret: "123", SessionSigningKey: "k", MongoURI: "mongodb://user:pw@host"}
	for _, a := range StructAttrs("data", cfg.ToSafeConfig()) {
		v := a.Value.String()
		if v == "123" || v == "k" || strings.Contains(v, "pw@") {
			t.Fatalf("secret leaked in %s", a.Key)
		}
	}
}
