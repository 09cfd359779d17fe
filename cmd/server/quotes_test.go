package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/forjainox/cotador/internal/bom"
	"github.com/forjainox/cotador/internal/engine"
	"github.com/forjainox/cotador/internal/pricebook"
)

const testPriceBookVersion = "2026-01"

func newServerTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE materials (
			code TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			family TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE price_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version TEXT NOT NULL,
			material_code TEXT NOT NULL,
			price REAL NOT NULL,
			unit TEXT NOT NULL,
			valid_until TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (version, material_code)
		);
		CREATE TABLE quotes (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			title TEXT,
			notes TEXT,
			input_json TEXT NOT NULL,
			quote_json TEXT NOT NULL,
			final_price REAL NOT NULL,
			price_book_version TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func seedMaterial(t *testing.T, db *sql.DB, code, family string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO materials (code, description, family) VALUES (?, ?, ?)`, code, code, family)
	if err != nil {
		t.Fatalf("failed to seed material: %v", err)
	}
}

func seedPriceEntry(t *testing.T, db *sql.DB, code string, price float64, unit string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO price_entries (version, material_code, price, unit)
		VALUES (?, ?, ?, ?)
	`, testPriceBookVersion, code, price, unit)
	if err != nil {
		t.Fatalf("failed to seed price entry: %v", err)
	}
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	db := newServerTestDB(t)
	seedMaterial(t, db, "inox-304", "sheet")
	seedMaterial(t, db, "inox-430", "sheet")
	seedMaterial(t, db, "tube-30x30", "tube")
	seedPriceEntry(t, db, "inox-304", 45, "kg")
	seedPriceEntry(t, db, "tube-30x30", 38, "kg")

	return &server{
		db:               db,
		engine:           engine.New(pricebook.NewStore(db, testPriceBookVersion), bom.DefaultRegistry()),
		validate:         validator.New(),
		priceBookVersion: testPriceBookVersion,
	}
}

func TestHandleQuoteCreatePersistsAndReturnsQuote(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"title": "Mesa 1500x700",
		"kind": "top_only",
		"top": {"length_mm": 1500, "width_mm": 700, "thickness_mm": 1, "material_id": "inox-304"},
		"pricing": {"markup": 3.0, "scrap_fraction": 0.1, "labor_cost_per_hour": 50}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	rr := httptest.NewRecorder()

	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp quoteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("response id %q is not a valid uuid: %v", resp.ID, err)
	}
	if resp.Quote.Pricing.FinalPrice <= 0 {
		t.Fatalf("expected positive final price, got %v", resp.Quote.Pricing.FinalPrice)
	}
	if resp.Quote.SheetCount != 1 {
		t.Fatalf("expected 1 sheet, got %d", resp.Quote.SheetCount)
	}

	var count int
	if err := srv.db.QueryRow(`SELECT COUNT(*) FROM quotes WHERE id = ?`, resp.ID).Scan(&count); err != nil {
		t.Fatalf("failed to count quotes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected quote row to be persisted, found %d", count)
	}
}

func TestHandleQuoteCreateRejectsInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuoteCreateRejectsUnknownKind(t *testing.T) {
	srv := newTestServer(t)

	body := `{"kind": "sideboard", "top": {"length_mm": 1500, "width_mm": 700, "thickness_mm": 1, "material_id": "inox-304"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	rr := httptest.NewRecorder()

	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuoteCreateMissingPriceReturnsDiagnostics(t *testing.T) {
	srv := newTestServer(t)

	// inox-430 is registered but the test price book carries no entry.
	body := `{
		"kind": "top_only",
		"top": {"length_mm": 1500, "width_mm": 700, "thickness_mm": 1, "material_id": "inox-430"},
		"pricing": {"markup": 3.0}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	rr := httptest.NewRecorder()

	srv.handleQuoteCreate(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "inox-430") {
		t.Fatalf("expected diagnostics to name the unpriced material, got: %s", rr.Body.String())
	}

	var count int
	if err := srv.db.QueryRow(`SELECT COUNT(*) FROM quotes`).Scan(&count); err != nil {
		t.Fatalf("failed to count quotes: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed quote must not be persisted, found %d rows", count)
	}
}

func seedQuoteRow(t *testing.T, db *sql.DB, createdAt, title, notes string, finalPrice float64) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO quotes (id, created_at, title, notes, input_json, quote_json, final_price, price_book_version)
		VALUES (?, ?, ?, ?, '{}', '{"sheet_count": 0}', ?, ?)
	`, id, createdAt, title, notes, finalPrice, testPriceBookVersion)
	if err != nil {
		t.Fatalf("failed to seed quote: %v", err)
	}
	return id
}

func TestListQuotesOrdersByDateDesc(t *testing.T) {
	srv := newTestServer(t)

	seedQuoteRow(t, srv.db, "2026-01-01 10:00:00", "Primeira", "", 100.50)
	seedQuoteRow(t, srv.db, "2026-01-03 12:00:00", "Terceira", "", 300.00)
	seedQuoteRow(t, srv.db, "2026-01-02 11:00:00", "Segunda", "", 200.25)

	quotes, err := srv.listQuotes("")
	if err != nil {
		t.Fatalf("listQuotes returned error: %v", err)
	}

	if len(quotes) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(quotes))
	}
	if quotes[0].Title != "Terceira" || quotes[1].Title != "Segunda" || quotes[2].Title != "Primeira" {
		t.Fatalf("quotes are not sorted desc by created_at: %+v", quotes)
	}
	if quotes[0].FinalPrice != 300.00 || quotes[1].FinalPrice != 200.25 || quotes[2].FinalPrice != 100.50 {
		t.Fatalf("unexpected final prices: %+v", quotes)
	}
}

func TestListQuotesFilterByTitleAndNotes(t *testing.T) {
	srv := newTestServer(t)

	seedQuoteRow(t, srv.db, "2026-01-01 10:00:00", "Mesa restaurante", "", 100)
	seedQuoteRow(t, srv.db, "2026-01-02 10:00:00", "Bancada", "pia do restaurante", 200)
	seedQuoteRow(t, srv.db, "2026-01-03 10:00:00", "Prateleira", "estoque", 300)

	quotes, err := srv.listQuotes("restaurante")
	if err != nil {
		t.Fatalf("listQuotes returned error: %v", err)
	}

	if len(quotes) != 2 {
		t.Fatalf("expected 2 matching quotes, got %d: %+v", len(quotes), quotes)
	}
	for _, q := range quotes {
		if q.Title == "Prateleira" {
			t.Fatalf("filter leaked non-matching quote: %+v", q)
		}
	}
}

func TestHandleQuoteDetailReturnsStoredSnapshot(t *testing.T) {
	srv := newTestServer(t)
	id := seedQuoteRow(t, srv.db, "2026-01-01 10:00:00", "Mesa", "", 150)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	// The handler returns the stored snapshot verbatim.
	if strings.TrimSpace(rr.Body.String()) != `{"sheet_count": 0}` {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestHandleQuoteDetailRejectsMalformedID(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/not-a-uuid", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleQuoteDetailUnknownIDReturns404(t *testing.T) {
	srv := newTestServer(t)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	srv.handleQuoteDetail(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
