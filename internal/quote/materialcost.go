package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forjainox/cotador/internal/pricebook"
)

// MaterialCostLine is one priced component of the quote.
type MaterialCostLine struct {
	Label      string  `json:"label"`
	MaterialID string  `json:"material_id"`
	Kg         float64 `json:"kg"`
	UnitPrice  float64 `json:"unit_price"`
	Subtotal   float64 `json:"subtotal"`
}

// MaterialCost aggregates the per-component lines into a total.
type MaterialCost struct {
	Lines []MaterialCostLine `json:"lines"`
	Total float64            `json:"total"`
}

// ComputeMaterialCost prices every component with mass > 0 through the
// resolver. Each distinct material id is resolved once. A price the
// book cannot resolve is a hard stop recorded in diags; an expired
// price or one carrying a unit outside the accepted set only warns.
func ComputeMaterialCost(ctx context.Context, m Mass, in Input, resolver pricebook.Resolver, now time.Time, diags *Diagnostics) (MaterialCost, error) {
	mats := in.Materials()
	components := []struct {
		label      string
		materialID string
		kg         float64
	}{
		{"Top", mats.Top, m.TopKg},
		{"Basin", mats.Basin, m.BasinKg},
		{"Frame", mats.Frame, m.FrameKg},
	}

	resolved := make(map[string]pricebook.Price)
	var missing []string

	var cost MaterialCost
	for _, c := range components {
		if c.kg <= 0 || c.materialID == "" {
			continue
		}

		price, ok := resolved[c.materialID]
		if !ok {
			var err error
			price, err = resolver.Resolve(ctx, c.materialID)
			if errors.Is(err, pricebook.ErrNotFound) {
				diags.MissingPrice(c.materialID)
				missing = append(missing, c.materialID)
				continue
			}
			if err != nil {
				return MaterialCost{}, fmt.Errorf("resolve price for %s: %w", c.materialID, err)
			}
			resolved[c.materialID] = price

			if !pricebook.KnownUnit(price.Unit) {
				diags.Warnf("price for %s has unrecognized unit %q", c.materialID, price.Unit)
			} else if price.Unit != pricebook.UnitKilogram {
				diags.Warnf("price for %s is per %s; mass-based subtotal assumes kg", c.materialID, price.Unit)
			}
			if price.Expired(now) {
				diags.Warnf("price for %s expired on %s", c.materialID, price.ValidUntil.Format("2006-01-02"))
			}
		}

		line := MaterialCostLine{
			Label:      c.label,
			MaterialID: c.materialID,
			Kg:         c.kg,
			UnitPrice:  price.Value,
			Subtotal:   c.kg * price.Value,
		}
		cost.Lines = append(cost.Lines, line)
		cost.Total += line.Subtotal
	}

	if len(missing) > 0 {
		return MaterialCost{}, &UnpricedMaterialError{MaterialIDs: missing}
	}

	return cost, nil
}
