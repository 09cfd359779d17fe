// Package pricebook resolves unit prices for material codes against a
// versioned price book. The quoting pipeline consumes the Resolver
// interface only; the SQLite-backed Store is the production
// implementation and Static is a fixture resolver for tests.
package pricebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Units the pipeline knows how to interpret. A price carrying any
// other unit still prices the quote but is flagged as a warning.
const (
	UnitKilogram    = "kg"
	UnitSquareMeter = "m2"
	UnitMeter       = "m"
	UnitPiece       = "unit"
)

// ErrNotFound is returned when the price book has no entry for a
// material code. The pipeline treats this as a hard stop.
var ErrNotFound = errors.New("pricebook: price not found")

// Price is a resolved unit price for a material code.
type Price struct {
	Value      float64
	Unit       string
	ValidUntil time.Time // zero value means no expiry
}

// Expired reports whether the price's validity window has passed.
func (p Price) Expired(now time.Time) bool {
	return !p.ValidUntil.IsZero() && p.ValidUntil.Before(now)
}

// KnownUnit reports whether unit belongs to the accepted set.
func KnownUnit(unit string) bool {
	switch unit {
	case UnitKilogram, UnitSquareMeter, UnitMeter, UnitPiece:
		return true
	}
	return false
}

// Resolver resolves the unit price for a material code. Resolution may
// hit a remote or cached store, so it takes a context; everything else
// in the pipeline is synchronous.
type Resolver interface {
	Resolve(ctx context.Context, materialCode string) (Price, error)
}

// Static is a map-backed Resolver for tests and fixture pricing.
type Static map[string]Price

// Resolve returns the mapped price or ErrNotFound.
func (s Static) Resolve(_ context.Context, materialCode string) (Price, error) {
	p, ok := s[materialCode]
	if !ok {
		return Price{}, fmt.Errorf("%w: %s", ErrNotFound, materialCode)
	}
	return p, nil
}

// Store resolves prices from the price_entries table for a fixed price
// book version. A Store never writes; two concurrent quotes against
// different versions see independent snapshots.
type Store struct {
	db      *sql.DB
	version string
}

// NewStore returns a Store bound to one price book version.
func NewStore(db *sql.DB, version string) *Store {
	return &Store{db: db, version: version}
}

// Version returns the price book version this store resolves against.
func (s *Store) Version() string {
	return s.version
}

// Resolve looks up the price for materialCode in the store's version.
func (s *Store) Resolve(ctx context.Context, materialCode string) (Price, error) {
	var (
		p          Price
		validUntil sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT price, unit, valid_until
		FROM price_entries
		WHERE version = ? AND material_code = ?
	`, s.version, materialCode).Scan(&p.Value, &p.Unit, &validUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return Price{}, fmt.Errorf("%w: %s (version %s)", ErrNotFound, materialCode, s.version)
	}
	if err != nil {
		return Price{}, fmt.Errorf("query price entry: %w", err)
	}

	if validUntil.Valid && validUntil.String != "" {
		t, err := time.Parse(time.RFC3339, validUntil.String)
		if err != nil {
			return Price{}, fmt.Errorf("parse valid_until for %s: %w", materialCode, err)
		}
		p.ValidUntil = t
	}

	return p, nil
}
