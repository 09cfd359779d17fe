package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type priceEntry struct {
	Version      string  `json:"version"`
	MaterialCode string  `json:"material_code"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	ValidUntil   string  `json:"valid_until,omitempty"`
}

func (s *server) handlePricesList(w http.ResponseWriter, r *http.Request) {
	version := strings.TrimSpace(r.URL.Query().Get("version"))
	if version == "" {
		version = s.priceBookVersion
	}

	rows, err := s.db.Query(`
		SELECT version, material_code, price, unit, COALESCE(valid_until, '')
		FROM price_entries
		WHERE version = ?
		ORDER BY material_code
	`, version)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load prices")
		return
	}
	defer rows.Close()

	entries := make([]priceEntry, 0)
	for rows.Next() {
		var e priceEntry
		if err := rows.Scan(&e.Version, &e.MaterialCode, &e.Price, &e.Unit, &e.ValidUntil); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load prices")
			return
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load prices")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

type priceUpsertRequest struct {
	Version      string  `json:"version"`
	MaterialCode string  `json:"material_code" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Unit         string  `json:"unit" validate:"required,oneof=kg m2 m unit"`
	ValidUntil   string  `json:"valid_until"`
}

func (s *server) handlePriceUpsert(w http.ResponseWriter, r *http.Request) {
	var req priceUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.Version == "" {
		req.Version = s.priceBookVersion
	}
	if req.ValidUntil != "" {
		if _, err := time.Parse(time.RFC3339, req.ValidUntil); err != nil {
			writeError(w, http.StatusBadRequest, "valid_until must be RFC3339")
			return
		}
	}

	// The material must be registered before it can be priced; the BOM
	// builder enforces the same whitelist on the quoting side.
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE code = ?)`, req.MaterialCode).Scan(&exists); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check material")
		return
	}
	if !exists {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("material %q is not registered", req.MaterialCode))
		return
	}

	var validUntil any
	if req.ValidUntil != "" {
		validUntil = req.ValidUntil
	}
	_, err := s.db.Exec(`
		INSERT INTO price_entries (version, material_code, price, unit, valid_until)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(version, material_code) DO UPDATE SET
			price = excluded.price,
			unit = excluded.unit,
			valid_until = excluded.valid_until
	`, req.Version, req.MaterialCode, req.Price, req.Unit, validUntil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save price entry")
		return
	}

	writeJSON(w, http.StatusOK, priceEntry{
		Version:      req.Version,
		MaterialCode: req.MaterialCode,
		Price:        req.Price,
		Unit:         req.Unit,
		ValidUntil:   req.ValidUntil,
	})
}
