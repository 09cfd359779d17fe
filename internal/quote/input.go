// Package quote implements the parametric quoting pipeline for
// stainless furniture items: geometry derivation, mass computation,
// material and process costing, and final pricing. All stages are pure
// functions over immutable value records; the only I/O is the price
// resolver call inside ComputeMaterialCost.
package quote

import (
	"fmt"
	"math"
)

// Kind identifies which furniture configuration is being quoted.
type Kind string

const (
	KindTopOnly        Kind = "top_only"
	KindBasinOnly      Kind = "basin_only"
	KindFrameNoBasin   Kind = "frame_no_basin"
	KindFrameWithBasin Kind = "frame_with_basin"
)

// Top describes a flat worktop. Dimensions are millimeters.
type Top struct {
	LengthMM    float64
	WidthMM     float64
	ThicknessMM float64
	// BacksplashHeightMM adds a rear upstand blank of the same length
	// and thickness. Zero means no backsplash.
	BacksplashHeightMM float64
	MaterialID         string
}

// Basin describes an open-top sink basin. Dimensions are outer
// millimeters; DepthMM is the outer height of the box.
type Basin struct {
	LengthMM    float64
	WidthMM     float64
	DepthMM     float64
	ThicknessMM float64
	MaterialID  string
}

// Frame describes a tubular support frame as straight legs only.
// Horizontal bracing is not modeled; see DESIGN.md.
type Frame struct {
	LegCount    int
	LegHeightMM float64
	TubeType    string
}

// Context carries the commercial parameters of one quote request.
// Fractions are plain ratios (0.1 = 10%), markup is a multiplicative
// factor applied to total cost.
type Context struct {
	Markup             float64
	ScrapFraction      float64
	OverheadFraction   float64
	RiskFraction       float64
	LaborCostPerHour   float64
	PriceBookVersionID string
}

// Input is the structured item description consumed by the pipeline.
// Sub-records absent from the configuration are nil.
type Input struct {
	Kind    Kind
	Top     *Top
	Basin   *Basin
	Frame   *Frame
	Context Context
}

// Defaults applied by WithDefaults when the caller leaves a field zero.
const (
	DefaultMarkup           = 1.0
	DefaultLaborCostPerHour = 50.0
	DefaultTubeType         = "tube-30x30"
)

// WithDefaults returns a copy of the input with documented defaults
// filled in for absent commercial parameters. Fractions stay zero when
// unset; they are additive and zero is a valid value.
func (in Input) WithDefaults() Input {
	if in.Context.Markup == 0 {
		in.Context.Markup = DefaultMarkup
	}
	if in.Context.LaborCostPerHour == 0 {
		in.Context.LaborCostPerHour = DefaultLaborCostPerHour
	}
	if in.Frame != nil && in.Frame.TubeType == "" {
		f := *in.Frame
		f.TubeType = DefaultTubeType
		in.Frame = &f
	}
	return in
}

// ValidationError reports a malformed or missing required input field.
// Validation fails fast: nothing is computed from an invalid input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// Validate checks structural consistency between the kind tag and the
// present sub-records, and that every dimension is a positive finite
// number.
func (in Input) Validate() error {
	switch in.Kind {
	case KindTopOnly:
		if in.Top == nil {
			return &ValidationError{Field: "top", Reason: "is required for kind top_only"}
		}
	case KindBasinOnly:
		if in.Basin == nil {
			return &ValidationError{Field: "basin", Reason: "is required for kind basin_only"}
		}
	case KindFrameNoBasin:
		if in.Frame == nil {
			return &ValidationError{Field: "frame", Reason: "is required for kind frame_no_basin"}
		}
		if in.Basin != nil {
			return &ValidationError{Field: "basin", Reason: "must be absent for kind frame_no_basin"}
		}
	case KindFrameWithBasin:
		if in.Frame == nil {
			return &ValidationError{Field: "frame", Reason: "is required for kind frame_with_basin"}
		}
		if in.Basin == nil {
			return &ValidationError{Field: "basin", Reason: "is required for kind frame_with_basin"}
		}
	default:
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown value %q", in.Kind)}
	}

	if in.Top == nil && in.Basin == nil && in.Frame == nil {
		return &ValidationError{Field: "input", Reason: "must contain at least one of top, basin, frame"}
	}

	if t := in.Top; t != nil {
		if err := positiveDim("top.length_mm", t.LengthMM); err != nil {
			return err
		}
		if err := positiveDim("top.width_mm", t.WidthMM); err != nil {
			return err
		}
		if err := positiveDim("top.thickness_mm", t.ThicknessMM); err != nil {
			return err
		}
		if err := finiteDim("top.backsplash_height_mm", t.BacksplashHeightMM); err != nil {
			return err
		}
		if t.MaterialID == "" {
			return &ValidationError{Field: "top.material_id", Reason: "is required"}
		}
	}
	if b := in.Basin; b != nil {
		if err := positiveDim("basin.length_mm", b.LengthMM); err != nil {
			return err
		}
		if err := positiveDim("basin.width_mm", b.WidthMM); err != nil {
			return err
		}
		if err := positiveDim("basin.depth_mm", b.DepthMM); err != nil {
			return err
		}
		if err := positiveDim("basin.thickness_mm", b.ThicknessMM); err != nil {
			return err
		}
		if b.MaterialID == "" {
			return &ValidationError{Field: "basin.material_id", Reason: "is required"}
		}
	}
	if f := in.Frame; f != nil {
		if f.LegCount <= 0 {
			return &ValidationError{Field: "frame.leg_count", Reason: "must be greater than 0"}
		}
		if err := positiveDim("frame.leg_height_mm", f.LegHeightMM); err != nil {
			return err
		}
	}

	c := in.Context
	for _, frac := range []struct {
		field string
		value float64
	}{
		{"context.scrap_fraction", c.ScrapFraction},
		{"context.overhead_fraction", c.OverheadFraction},
		{"context.risk_fraction", c.RiskFraction},
	} {
		if err := finiteDim(frac.field, frac.value); err != nil {
			return err
		}
	}
	if err := positiveDim("context.markup", c.Markup); err != nil {
		return err
	}
	if err := positiveDim("context.labor_cost_per_hour", c.LaborCostPerHour); err != nil {
		return err
	}

	return nil
}

func positiveDim(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Reason: "must be greater than 0"}
	}
	return nil
}

func finiteDim(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: "must be greater than or equal to 0"}
	}
	return nil
}
