package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath           = "./dev.db"
	defaultPort             = "8080"
	defaultEnv              = "dev"
	defaultPriceBookVersion = "2026-01"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath           string
	Port             string
	Env              string
	PriceBookVersion string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = godotenv.Load()

	cfg := Config{
		DBPath:           os.Getenv("DB_PATH"),
		Port:             os.Getenv("PORT"),
		Env:              os.Getenv("APP_ENV"),
		PriceBookVersion: os.Getenv("PRICE_BOOK_VERSION"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.PriceBookVersion == "" {
		cfg.PriceBookVersion = defaultPriceBookVersion
		log.Printf("warning: PRICE_BOOK_VERSION is not set, using %s", defaultPriceBookVersion)
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}
