// Package nesting packs rectangular sheet-metal blanks onto standard
// raw sheets using a greedy shelf heuristic. The packing is not
// globally optimal; it is deterministic and fast enough to run inside
// an interactive quote request. Alternative strategies can replace the
// Engine behind the same Pack contract.
package nesting

import (
	"sort"
)

// SheetSize is one standard raw sheet format, in millimeters.
type SheetSize struct {
	Label    string  `json:"label"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Area returns the sheet area in mm².
func (s SheetSize) Area() float64 {
	return s.WidthMM * s.HeightMM
}

// StandardSizes returns the raw sheet formats the shop stocks.
func StandardSizes() []SheetSize {
	return []SheetSize{
		{Label: "2000x1250", WidthMM: 2000, HeightMM: 1250},
		{Label: "3000x1250", WidthMM: 3000, HeightMM: 1250},
	}
}

// Part is one placement request. Quantity expands into that many unit
// placements.
type Part struct {
	ID        string
	WidthMM   float64
	HeightMM  float64
	Quantity  int
	CanRotate bool
}

// Placement is one blank placed on a sheet. Width/Height are the
// dimensions as placed, already swapped when Rotated is true.
type Placement struct {
	PartID   string  `json:"part_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Rotated  bool    `json:"rotated"`
}

// Sheet is one consumed raw sheet with its placements.
type Sheet struct {
	Size        SheetSize   `json:"size"`
	Placements  []Placement `json:"placements"`
	Utilization float64     `json:"utilization"`
}

// InfeasiblePart identifies a part that fits no candidate sheet size
// in any permitted orientation. It is reported, never silently
// dropped.
type InfeasiblePart struct {
	PartID   string  `json:"part_id"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Layout is the full nesting result.
type Layout struct {
	Sheets      []Sheet          `json:"sheets"`
	Infeasible  []InfeasiblePart `json:"infeasible,omitempty"`
	Utilization float64          `json:"utilization"`
}

// Config tunes the engine. Zero KerfMM means placements touch; a
// positive kerf is added after each placed width.
type Config struct {
	Sizes  []SheetSize
	KerfMM float64
}

// Engine packs parts onto sheets. Construct with New; the zero value
// is not usable.
type Engine struct {
	sizes []SheetSize // ascending by area
	kerf  float64
}

// New returns an Engine over the given candidate sizes, falling back
// to StandardSizes when none are configured.
func New(cfg Config) *Engine {
	sizes := cfg.Sizes
	if len(sizes) == 0 {
		sizes = StandardSizes()
	}
	sorted := make([]SheetSize, len(sizes))
	copy(sorted, sizes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Area() != sorted[j].Area() {
			return sorted[i].Area() < sorted[j].Area()
		}
		return sorted[i].Label < sorted[j].Label
	})
	return &Engine{sizes: sorted, kerf: cfg.KerfMM}
}

// Sizes returns the candidate sheet sizes, smallest first.
func (e *Engine) Sizes() []SheetSize {
	out := make([]SheetSize, len(e.sizes))
	copy(out, e.sizes)
	return out
}

// LargestSize returns the biggest candidate sheet.
func (e *Engine) LargestSize() SheetSize {
	return e.sizes[len(e.sizes)-1]
}

// shelf is a horizontal strip at a fixed y-offset. Parts are placed
// left to right; cursor is the next free x.
type shelf struct {
	y      float64
	height float64
	cursor float64
}

type openSheet struct {
	size       SheetSize
	shelves    []*shelf
	nextY      float64
	placements []Placement
	usedArea   float64
}

// Pack places every unit of every part, minimizing sheet count first
// and per-sheet utilization second:
//
//  1. Parts are sorted by descending area, then descending height,
//     then id, so identical inputs always pack identically.
//  2. Each unit is placed into the open shelf leaving the least
//     remaining width, trying the unrotated orientation across all
//     open sheets before the rotated one.
//  3. Failing that, a new shelf opens on the current sheet; failing
//     that, a new sheet opens using the smallest size that can host
//     the unit.
//
// Parts that fit no candidate size in any permitted orientation are
// reported in Layout.Infeasible. Non-positive dimensions or quantity
// are treated the same way; the BOM builder is expected to have
// rejected those before nesting.
func (e *Engine) Pack(parts []Part) Layout {
	var layout Layout

	feasible := make([]Part, 0, len(parts))
	for _, p := range parts {
		if p.Quantity < 1 || p.WidthMM <= 0 || p.HeightMM <= 0 || !e.fitsAnySize(p) {
			layout.Infeasible = append(layout.Infeasible, InfeasiblePart{
				PartID:   p.ID,
				WidthMM:  p.WidthMM,
				HeightMM: p.HeightMM,
			})
			continue
		}
		feasible = append(feasible, p)
	}

	sort.SliceStable(feasible, func(i, j int) bool {
		ai := feasible[i].WidthMM * feasible[i].HeightMM
		aj := feasible[j].WidthMM * feasible[j].HeightMM
		if ai != aj {
			return ai > aj
		}
		if feasible[i].HeightMM != feasible[j].HeightMM {
			return feasible[i].HeightMM > feasible[j].HeightMM
		}
		return feasible[i].ID < feasible[j].ID
	})

	var sheets []*openSheet
	for _, p := range feasible {
		for unit := 0; unit < p.Quantity; unit++ {
			sheets = e.placeUnit(sheets, p)
		}
	}

	var totalArea, totalUsed float64
	for _, os := range sheets {
		util := 0.0
		if area := os.size.Area(); area > 0 {
			util = os.usedArea / area
		}
		layout.Sheets = append(layout.Sheets, Sheet{
			Size:        os.size,
			Placements:  os.placements,
			Utilization: util,
		})
		totalArea += os.size.Area()
		totalUsed += os.usedArea
	}
	if totalArea > 0 {
		layout.Utilization = totalUsed / totalArea
	}

	return layout
}

func (e *Engine) placeUnit(sheets []*openSheet, p Part) []*openSheet {
	// Best-fit across all open shelves: smallest leftover width wins.
	// The unrotated orientation is exhausted before rotation is tried.
	if os, sh := bestShelf(sheets, p.WidthMM, p.HeightMM); sh != nil {
		place(os, sh, p, false, e.kerf)
		return sheets
	}
	if p.CanRotate {
		if os, sh := bestShelf(sheets, p.HeightMM, p.WidthMM); sh != nil {
			place(os, sh, p, true, e.kerf)
			return sheets
		}
	}

	// New shelf on the current sheet, if its remaining height allows.
	if len(sheets) > 0 {
		cur := sheets[len(sheets)-1]
		if rotated, ok := cur.canOpenShelf(p); ok {
			sh := cur.openShelf(p, rotated)
			place(cur, sh, p, rotated, e.kerf)
			return sheets
		}
	}

	// New sheet: smallest standard size that hosts the unit.
	size, _ := e.smallestFitting(p)
	next := &openSheet{size: size}
	sheets = append(sheets, next)
	rotated := !fits(p.WidthMM, p.HeightMM, size) // feasibility guaranteed above
	sh := next.openShelf(p, rotated)
	place(next, sh, p, rotated, e.kerf)
	return sheets
}

// bestShelf returns the open shelf that fits a w×h footprint with the
// least leftover width, or nil when none does.
func bestShelf(sheets []*openSheet, w, h float64) (*openSheet, *shelf) {
	var (
		bestSheet    *openSheet
		best         *shelf
		bestLeftover float64
	)
	for _, os := range sheets {
		for _, sh := range os.shelves {
			remaining := os.size.WidthMM - sh.cursor
			if sh.height < h || remaining < w {
				continue
			}
			leftover := remaining - w
			if best == nil || leftover < bestLeftover {
				bestSheet, best, bestLeftover = os, sh, leftover
			}
		}
	}
	return bestSheet, best
}

func (os *openSheet) canOpenShelf(p Part) (rotated, ok bool) {
	remaining := os.size.HeightMM - os.nextY
	if p.HeightMM <= remaining && p.WidthMM <= os.size.WidthMM {
		return false, true
	}
	if p.CanRotate && p.WidthMM <= remaining && p.HeightMM <= os.size.WidthMM {
		return true, true
	}
	return false, false
}

func (os *openSheet) openShelf(p Part, rotated bool) *shelf {
	height := p.HeightMM
	if rotated {
		height = p.WidthMM
	}
	sh := &shelf{y: os.nextY, height: height}
	os.shelves = append(os.shelves, sh)
	os.nextY += height
	return sh
}

func place(os *openSheet, sh *shelf, p Part, rotated bool, kerf float64) {
	w, h := p.WidthMM, p.HeightMM
	if rotated {
		w, h = h, w
	}
	os.placements = append(os.placements, Placement{
		PartID:   p.ID,
		X:        sh.cursor,
		Y:        sh.y,
		WidthMM:  w,
		HeightMM: h,
		Rotated:  rotated,
	})
	os.usedArea += w * h
	sh.cursor += w + kerf
}

func (e *Engine) fitsAnySize(p Part) bool {
	for _, size := range e.sizes {
		if fits(p.WidthMM, p.HeightMM, size) {
			return true
		}
		if p.CanRotate && fits(p.HeightMM, p.WidthMM, size) {
			return true
		}
	}
	return false
}

// smallestFitting returns the smallest candidate size hosting the part
// in some permitted orientation.
func (e *Engine) smallestFitting(p Part) (SheetSize, bool) {
	for _, size := range e.sizes {
		if fits(p.WidthMM, p.HeightMM, size) {
			return size, true
		}
		if p.CanRotate && fits(p.HeightMM, p.WidthMM, size) {
			return size, true
		}
	}
	return SheetSize{}, false
}

func fits(w, h float64, size SheetSize) bool {
	return w <= size.WidthMM && h <= size.HeightMM
}
