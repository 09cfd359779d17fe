// Package seed inserts the baseline reference data the app needs on
// first start: the authorized materials and a price entry for each of
// them in the configured price book version. Running it repeatedly is
// safe; existing rows are left untouched.
package seed

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/forjainox/cotador/internal/bom"
	"github.com/forjainox/cotador/internal/pricebook"
)

// Config contains the values required by the startup seed.
type Config struct {
	PriceBookVersion string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

type defaultPrice struct {
	code  string
	price float64
	unit  string
}

// Baseline prices in BRL. Real values come from the price book import
// flow; these only make a fresh dev database usable.
var defaultPrices = []defaultPrice{
	{"inox-304", 45.0, pricebook.UnitKilogram},
	{"inox-430", 32.0, pricebook.UnitKilogram},
	{"tube-30x30", 38.0, pricebook.UnitKilogram},
	{"tube-40x40", 38.0, pricebook.UnitKilogram},
	{bom.AccessoryAdjustableFoot, 6.5, pricebook.UnitPiece},
	{bom.AccessoryDrainKit, 28.0, pricebook.UnitPiece},
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureMaterials(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensurePrices(tx, cfg.PriceBookVersion, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterials(tx *sql.Tx, stats *Stats) error {
	registry := bom.DefaultRegistry()
	codes := registry.Codes()
	sort.Strings(codes)

	for _, code := range codes {
		info, _ := registry.Lookup(code)

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE code = ? LIMIT 1)`, code).Scan(&exists); err != nil {
			return fmt.Errorf("check material %s existence: %w", code, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO materials (code, description, family, active)
			VALUES (?, ?, ?, TRUE)
		`, info.Code, info.Description, info.Family); err != nil {
			return fmt.Errorf("insert material %s: %w", code, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensurePrices(tx *sql.Tx, version string, stats *Stats) error {
	for _, p := range defaultPrices {
		var exists bool
		if err := tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM price_entries
				WHERE version = ? AND material_code = ?
				LIMIT 1
			)
		`, version, p.code).Scan(&exists); err != nil {
			return fmt.Errorf("check price entry %s existence: %w", p.code, err)
		}
		if exists {
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO price_entries (version, material_code, price, unit)
			VALUES (?, ?, ?, ?)
		`, version, p.code, p.price, p.unit); err != nil {
			return fmt.Errorf("insert price entry %s: %w", p.code, err)
		}
		stats.Inserts++
	}
	return nil
}
