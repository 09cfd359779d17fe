package bom

import (
	"fmt"

	"github.com/forjainox/cotador/internal/quote"
)

// SheetPart is one flat rectangular blank to be cut from raw sheet.
// Dimensions are millimeters; Quantity is the number of identical
// blanks required.
type SheetPart struct {
	ID          string  `json:"id"`
	WidthMM     float64 `json:"width_mm"`
	HeightMM    float64 `json:"height_mm"`
	Quantity    int     `json:"quantity"`
	ThicknessMM float64 `json:"thickness_mm"`
	Material    string  `json:"material"`
	CanRotate   bool    `json:"can_rotate"`
}

// TubePart is one straight tube cut.
type TubePart struct {
	ID       string  `json:"id"`
	LengthMM float64 `json:"length_mm"`
	TubeType string  `json:"tube_type"`
	Quantity int     `json:"quantity"`
}

// Accessory is a discrete bought-in item.
type Accessory struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// BOM is the expanded bill of materials for one quoted item.
type BOM struct {
	SheetParts  []SheetPart `json:"sheet_parts"`
	TubeParts   []TubePart  `json:"tube_parts"`
	Accessories []Accessory `json:"accessories"`
	Processes   []string    `json:"processes"`
}

// UnauthorizedMaterialError reports a material code outside the
// registry whitelist. No BOM is returned when it occurs.
type UnauthorizedMaterialError struct {
	Code string
}

func (e *UnauthorizedMaterialError) Error() string {
	return fmt.Sprintf("material code %q is not in the materials registry", e.Code)
}

// Build expands the item description into sheet parts, tube parts and
// accessories. Every material code is checked against the registry
// before anything is emitted; an unregistered code fails the whole
// build so unpriced materials cannot slip into a quote.
func Build(in quote.Input, reg *Registry) (BOM, error) {
	var codes []string
	if in.Top != nil {
		codes = append(codes, in.Top.MaterialID)
	}
	if in.Basin != nil {
		codes = append(codes, in.Basin.MaterialID)
	}
	if in.Frame != nil {
		codes = append(codes, in.Frame.TubeType, AccessoryAdjustableFoot)
	}
	if in.Basin != nil {
		codes = append(codes, AccessoryDrainKit)
	}
	for _, code := range codes {
		if !reg.Authorized(code) {
			return BOM{}, &UnauthorizedMaterialError{Code: code}
		}
	}

	var b BOM

	if t := in.Top; t != nil {
		b.SheetParts = append(b.SheetParts, SheetPart{
			ID:          "top",
			WidthMM:     t.LengthMM,
			HeightMM:    t.WidthMM,
			Quantity:    1,
			ThicknessMM: t.ThicknessMM,
			Material:    t.MaterialID,
			CanRotate:   true,
		})
		if t.BacksplashHeightMM > 0 {
			b.SheetParts = append(b.SheetParts, SheetPart{
				ID:          "top-backsplash",
				WidthMM:     t.LengthMM,
				HeightMM:    t.BacksplashHeightMM,
				Quantity:    1,
				ThicknessMM: t.ThicknessMM,
				Material:    t.MaterialID,
				CanRotate:   true,
			})
		}
	}

	if bs := in.Basin; bs != nil {
		// Bottom plus four walls, each cut as a separate blank and
		// welded along the edges.
		b.SheetParts = append(b.SheetParts,
			SheetPart{
				ID:          "basin-bottom",
				WidthMM:     bs.LengthMM,
				HeightMM:    bs.WidthMM,
				Quantity:    1,
				ThicknessMM: bs.ThicknessMM,
				Material:    bs.MaterialID,
				CanRotate:   true,
			},
			SheetPart{
				ID:          "basin-wall-long",
				WidthMM:     bs.LengthMM,
				HeightMM:    bs.DepthMM,
				Quantity:    2,
				ThicknessMM: bs.ThicknessMM,
				Material:    bs.MaterialID,
				CanRotate:   true,
			},
			SheetPart{
				ID:          "basin-wall-short",
				WidthMM:     bs.WidthMM,
				HeightMM:    bs.DepthMM,
				Quantity:    2,
				ThicknessMM: bs.ThicknessMM,
				Material:    bs.MaterialID,
				CanRotate:   true,
			},
		)
		if info, ok := reg.Lookup(AccessoryDrainKit); ok {
			b.Accessories = append(b.Accessories, Accessory{
				Code:        info.Code,
				Description: info.Description,
				Quantity:    1,
			})
		}
	}

	if f := in.Frame; f != nil {
		b.TubeParts = append(b.TubeParts, TubePart{
			ID:       "frame-leg",
			LengthMM: f.LegHeightMM,
			TubeType: f.TubeType,
			Quantity: f.LegCount,
		})
		if info, ok := reg.Lookup(AccessoryAdjustableFoot); ok {
			b.Accessories = append(b.Accessories, Accessory{
				Code:        info.Code,
				Description: info.Description,
				Quantity:    f.LegCount,
			})
		}
	}

	if len(b.SheetParts) > 0 {
		b.Processes = append(b.Processes, quote.OpCut)
	}
	if in.Basin != nil {
		b.Processes = append(b.Processes, quote.OpWeld)
	}
	if in.Top != nil || in.Basin != nil || in.Frame != nil {
		b.Processes = append(b.Processes, quote.OpAssembly)
	}

	return b, nil
}
