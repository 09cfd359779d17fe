package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("PRICE_BOOK_VERSION", "")

	cfg := Load()

	if cfg.DBPath != defaultDBPath {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, defaultDBPath)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("Port = %q, want %q", cfg.Port, defaultPort)
	}
	if !cfg.IsDev() {
		t.Fatal("default environment should be dev")
	}
	if cfg.PriceBookVersion != defaultPriceBookVersion {
		t.Fatalf("PriceBookVersion = %q, want %q", cfg.PriceBookVersion, defaultPriceBookVersion)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", "/var/lib/cotador/prod.db")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PRICE_BOOK_VERSION", "2026-02")

	cfg := Load()

	if cfg.DBPath != "/var/lib/cotador/prod.db" {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.IsDev() {
		t.Fatal("production environment should not be dev")
	}
	if cfg.PriceBookVersion != "2026-02" {
		t.Fatalf("PriceBookVersion = %q", cfg.PriceBookVersion)
	}
}
