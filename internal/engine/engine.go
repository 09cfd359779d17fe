// Package engine wires the quoting pipeline together: input
// validation, geometry, mass, material and process costing, pricing,
// BOM expansion and nesting. One Engine serves many concurrent quote
// requests; it holds only read-only collaborators.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forjainox/cotador/internal/bom"
	"github.com/forjainox/cotador/internal/nesting"
	"github.com/forjainox/cotador/internal/pricebook"
	"github.com/forjainox/cotador/internal/quote"
)

// Warning thresholds for commercial parameters. Values beyond them are
// legal but suspicious enough to flag.
const (
	scrapWarnThreshold = 0.5
)

// Quote bundles the full output of one computation. It is a pure
// function of the input and the price book snapshot: identical inputs
// produce byte-identical quotes.
type Quote struct {
	Input        quote.Input        `json:"input"`
	Geometry     quote.Geometry     `json:"geometry"`
	Mass         quote.Mass         `json:"mass"`
	MaterialCost quote.MaterialCost `json:"material_cost"`
	ProcessCost  quote.ProcessCost  `json:"process_cost"`
	Pricing      quote.Pricing      `json:"pricing"`
	BOM          bom.BOM            `json:"bom"`
	Nesting      *nesting.Layout    `json:"nesting,omitempty"`
	SheetCount   int                `json:"sheet_count"`
	Diagnostics  quote.Diagnostics  `json:"diagnostics"`
}

// PipelineError is the typed failure result of a computation. It
// carries the accumulated diagnostics so the caller never loses the
// structured breakdown of what went wrong.
type PipelineError struct {
	Stage       string
	Diagnostics quote.Diagnostics
	Err         error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("quote pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// InfeasiblePartError reports sheet parts that fit no candidate sheet
// size in any permitted orientation.
type InfeasiblePartError struct {
	Parts   []nesting.InfeasiblePart
	Largest nesting.SheetSize
}

func (e *InfeasiblePartError) Error() string {
	if len(e.Parts) == 1 {
		p := e.Parts[0]
		return fmt.Sprintf("part %s (%.0fx%.0fmm) exceeds the largest sheet %s", p.PartID, p.WidthMM, p.HeightMM, e.Largest.Label)
	}
	return fmt.Sprintf("%d parts exceed the largest sheet %s", len(e.Parts), e.Largest.Label)
}

// Engine computes quotes. All fields are read-only after construction.
type Engine struct {
	resolver pricebook.Resolver
	registry *bom.Registry
	nester   *nesting.Engine

	// AllowPartial returns layouts that omit infeasible parts instead
	// of failing the whole quote. Off by default: a quote that cannot
	// place every blank is wrong, not partially right.
	AllowPartial bool

	// Now is the clock used for price staleness checks. Replaceable in
	// tests to keep output deterministic.
	Now func() time.Time
}

// New builds an Engine over the given price resolver and materials
// registry, nesting onto the standard sheet sizes.
func New(resolver pricebook.Resolver, registry *bom.Registry) *Engine {
	return &Engine{
		resolver: resolver,
		registry: registry,
		nester:   nesting.New(nesting.Config{}),
		Now:      time.Now,
	}
}

// WithNester replaces the nesting engine, e.g. to change candidate
// sheet sizes or kerf.
func (e *Engine) WithNester(n *nesting.Engine) *Engine {
	e.nester = n
	return e
}

// Compute runs the full pipeline for one item description. Hard
// errors return a *PipelineError carrying the diagnostics collected so
// far; warnings ride along inside a successful Quote.
func (e *Engine) Compute(ctx context.Context, in quote.Input) (Quote, error) {
	in = in.WithDefaults()

	var diags quote.Diagnostics

	if err := in.Validate(); err != nil {
		diags.Errorf("%v", err)
		return Quote{}, &PipelineError{Stage: "validate", Diagnostics: diags, Err: err}
	}

	if in.Context.Markup < 1 {
		diags.Warnf("markup %.2f is below 1; the quote sells under cost", in.Context.Markup)
	}
	if in.Context.ScrapFraction > scrapWarnThreshold {
		diags.Warnf("scrap fraction %.2f exceeds %.0f%% of base cost", in.Context.ScrapFraction, scrapWarnThreshold*100)
	}

	geometry := quote.ResolveGeometry(in)
	mass := quote.ComputeMass(geometry, in.Materials())

	materialCost, err := quote.ComputeMaterialCost(ctx, mass, in, e.resolver, e.Now(), &diags)
	if err != nil {
		var unpriced *quote.UnpricedMaterialError
		if errors.As(err, &unpriced) {
			return Quote{}, &PipelineError{Stage: "material-cost", Diagnostics: diags, Err: err}
		}
		diags.Errorf("price resolution failed: %v", err)
		return Quote{}, &PipelineError{Stage: "material-cost", Diagnostics: diags, Err: err}
	}

	processCost := quote.ComputeProcessCost(geometry, in.Context)
	pricing := quote.ComputePricing(materialCost, processCost, in.Context)

	bill, err := bom.Build(in, e.registry)
	if err != nil {
		diags.Errorf("%v", err)
		return Quote{}, &PipelineError{Stage: "bom", Diagnostics: diags, Err: err}
	}

	q := Quote{
		Input:        in,
		Geometry:     geometry,
		Mass:         mass,
		MaterialCost: materialCost,
		ProcessCost:  processCost,
		Pricing:      pricing,
		BOM:          bill,
		Diagnostics:  diags,
	}

	if len(bill.SheetParts) > 0 {
		layout := e.nester.Pack(toNestingParts(bill.SheetParts))
		if len(layout.Infeasible) > 0 {
			nestErr := &InfeasiblePartError{Parts: layout.Infeasible, Largest: e.nester.LargestSize()}
			if !e.AllowPartial {
				q.Diagnostics.Errorf("%v", nestErr)
				return Quote{}, &PipelineError{Stage: "nesting", Diagnostics: q.Diagnostics, Err: nestErr}
			}
			for _, p := range layout.Infeasible {
				q.Diagnostics.Warnf("part %s (%.0fx%.0fmm) left out of layout: exceeds largest sheet %s", p.PartID, p.WidthMM, p.HeightMM, e.nester.LargestSize().Label)
			}
		}
		q.Nesting = &layout
		q.SheetCount = len(layout.Sheets)
	}

	return q, nil
}

func toNestingParts(parts []bom.SheetPart) []nesting.Part {
	out := make([]nesting.Part, 0, len(parts))
	for _, p := range parts {
		out = append(out, nesting.Part{
			ID:        p.ID,
			WidthMM:   p.WidthMM,
			HeightMM:  p.HeightMM,
			Quantity:  p.Quantity,
			CanRotate: p.CanRotate,
		})
	}
	return out
}
