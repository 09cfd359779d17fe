package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forjainox/cotador/internal/engine"
	"github.com/forjainox/cotador/internal/quote"
)

type quoteRequest struct {
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Kind    string          `json:"kind" validate:"required,oneof=top_only basin_only frame_no_basin frame_with_basin"`
	Top     *topRequest     `json:"top,omitempty"`
	Basin   *basinRequest   `json:"basin,omitempty"`
	Frame   *frameRequest   `json:"frame,omitempty"`
	Pricing *pricingRequest `json:"pricing,omitempty"`
}

type topRequest struct {
	LengthMM           float64 `json:"length_mm" validate:"required,gt=0"`
	WidthMM            float64 `json:"width_mm" validate:"required,gt=0"`
	ThicknessMM        float64 `json:"thickness_mm" validate:"required,gt=0"`
	BacksplashHeightMM float64 `json:"backsplash_height_mm" validate:"gte=0"`
	MaterialID         string  `json:"material_id" validate:"required"`
}

type basinRequest struct {
	LengthMM    float64 `json:"length_mm" validate:"required,gt=0"`
	WidthMM     float64 `json:"width_mm" validate:"required,gt=0"`
	DepthMM     float64 `json:"depth_mm" validate:"required,gt=0"`
	ThicknessMM float64 `json:"thickness_mm" validate:"required,gt=0"`
	MaterialID  string  `json:"material_id" validate:"required"`
}

type frameRequest struct {
	LegCount    int     `json:"leg_count" validate:"required,gt=0"`
	LegHeightMM float64 `json:"leg_height_mm" validate:"required,gt=0"`
	TubeType    string  `json:"tube_type"`
}

type pricingRequest struct {
	Markup           float64 `json:"markup" validate:"gte=0"`
	ScrapFraction    float64 `json:"scrap_fraction" validate:"gte=0"`
	OverheadFraction float64 `json:"overhead_fraction" validate:"gte=0"`
	RiskFraction     float64 `json:"risk_fraction" validate:"gte=0"`
	LaborCostPerHour float64 `json:"labor_cost_per_hour" validate:"gte=0"`
}

func (r quoteRequest) toInput(priceBookVersion string) quote.Input {
	in := quote.Input{Kind: quote.Kind(r.Kind)}
	if r.Top != nil {
		in.Top = &quote.Top{
			LengthMM:           r.Top.LengthMM,
			WidthMM:            r.Top.WidthMM,
			ThicknessMM:        r.Top.ThicknessMM,
			BacksplashHeightMM: r.Top.BacksplashHeightMM,
			MaterialID:         r.Top.MaterialID,
		}
	}
	if r.Basin != nil {
		in.Basin = &quote.Basin{
			LengthMM:    r.Basin.LengthMM,
			WidthMM:     r.Basin.WidthMM,
			DepthMM:     r.Basin.DepthMM,
			ThicknessMM: r.Basin.ThicknessMM,
			MaterialID:  r.Basin.MaterialID,
		}
	}
	if r.Frame != nil {
		in.Frame = &quote.Frame{
			LegCount:    r.Frame.LegCount,
			LegHeightMM: r.Frame.LegHeightMM,
			TubeType:    r.Frame.TubeType,
		}
	}
	if r.Pricing != nil {
		in.Context = quote.Context{
			Markup:           r.Pricing.Markup,
			ScrapFraction:    r.Pricing.ScrapFraction,
			OverheadFraction: r.Pricing.OverheadFraction,
			RiskFraction:     r.Pricing.RiskFraction,
			LaborCostPerHour: r.Pricing.LaborCostPerHour,
		}
	}
	in.Context.PriceBookVersionID = priceBookVersion
	return in
}

type quoteResponse struct {
	ID    string       `json:"id"`
	Quote engine.Quote `json:"quote"`
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	q, err := s.engine.Compute(r.Context(), req.toInput(s.priceBookVersion))
	if err != nil {
		var pipeErr *engine.PipelineError
		if errors.As(err, &pipeErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:       pipeErr.Error(),
				Diagnostics: pipeErr.Diagnostics,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to compute quote")
		return
	}

	id := uuid.New()
	if err := s.insertQuote(id, req, q); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	writeJSON(w, http.StatusCreated, quoteResponse{ID: id.String(), Quote: q})
}

func (s *server) insertQuote(id uuid.UUID, req quoteRequest, q engine.Quote) error {
	inputJSON, err := json.Marshal(q.Input)
	if err != nil {
		return fmt.Errorf("marshal quote input: %w", err)
	}
	quoteJSON, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO quotes (id, title, notes, input_json, quote_json, final_price, price_book_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id.String(), req.Title, req.Notes, string(inputJSON), string(quoteJSON), q.Pricing.FinalPrice, s.priceBookVersion)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

type quoteListItem struct {
	ID         string  `json:"id"`
	CreatedAt  string  `json:"created_at"`
	Title      string  `json:"title"`
	FinalPrice float64 `json:"final_price"`
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.listQuotes(query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) listQuotes(query string) ([]quoteListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			final_price
		FROM quotes
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]quoteListItem, 0)
	for rows.Next() {
		var item quoteListItem
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &item.FinalPrice); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}

	return quotes, nil
}

// handleQuoteDetail returns the stored snapshot as computed at quote
// time. It never recalculates: the snapshot is the commercial record.
func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	var quoteJSON string
	err := s.db.QueryRow(`SELECT quote_json FROM quotes WHERE id = ?`, id).Scan(&quoteJSON)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(quoteJSON))
}
