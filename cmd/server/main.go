package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forjainox/cotador/internal/bom"
	"github.com/forjainox/cotador/internal/config"
	"github.com/forjainox/cotador/internal/db"
	"github.com/forjainox/cotador/internal/engine"
	"github.com/forjainox/cotador/internal/migrations"
	"github.com/forjainox/cotador/internal/pricebook"
	"github.com/forjainox/cotador/internal/seed"
)

type server struct {
	db               *sql.DB
	engine           *engine.Engine
	validate         *validator.Validate
	priceBookVersion string
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{PriceBookVersion: cfg.PriceBookVersion})
	if err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seeded %d reference rows", stats.Inserts)
	}

	srv := &server{
		db:               database,
		engine:           engine.New(pricebook.NewStore(database, cfg.PriceBookVersion), bom.DefaultRegistry()),
		validate:         validator.New(),
		priceBookVersion: cfg.PriceBookVersion,
	}

	r := chi.NewRouter()
	r.Post("/api/quotes", srv.handleQuoteCreate)
	r.Get("/api/quotes", srv.handleQuotesList)
	r.Get("/api/quotes/{id}", srv.handleQuoteDetail)
	r.Get("/api/prices", srv.handlePricesList)
	r.Post("/api/prices", srv.handlePriceUpsert)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (price book %s)", addr, cfg.PriceBookVersion)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error       string `json:"error"`
	Diagnostics any    `json:"diagnostics,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
