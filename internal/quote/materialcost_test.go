package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forjainox/cotador/internal/pricebook"
)

var testNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func topOnlyInput() Input {
	return Input{
		Kind: KindTopOnly,
		Top:  &Top{LengthMM: 1500, WidthMM: 700, ThicknessMM: 1, MaterialID: "inox-304"},
	}
}

func TestComputeMaterialCost_PricesPresentComponents(t *testing.T) {
	in := topOnlyInput()
	mass := Mass{TopKg: 8.33, TotalKg: 8.33}
	resolver := pricebook.Static{
		"inox-304": {Value: 45, Unit: pricebook.UnitKilogram},
	}

	var diags Diagnostics
	mc, err := ComputeMaterialCost(context.Background(), mass, in, resolver, testNow, &diags)
	if err != nil {
		t.Fatalf("ComputeMaterialCost returned error: %v", err)
	}

	if len(mc.Lines) != 1 {
		t.Fatalf("expected 1 line, got %+v", mc.Lines)
	}
	nearlyEqual(t, "subtotal", mc.Lines[0].Subtotal, 8.33*45)
	nearlyEqual(t, "total", mc.Total, 8.33*45)
	if len(diags.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", diags.Warnings)
	}
}

func TestComputeMaterialCost_MissingPriceIsHardStop(t *testing.T) {
	in := topOnlyInput()
	mass := Mass{TopKg: 8.33, TotalKg: 8.33}
	resolver := pricebook.Static{}

	var diags Diagnostics
	_, err := ComputeMaterialCost(context.Background(), mass, in, resolver, testNow, &diags)

	var unpriced *UnpricedMaterialError
	if !errors.As(err, &unpriced) {
		t.Fatalf("expected UnpricedMaterialError, got %v", err)
	}
	if len(unpriced.MaterialIDs) != 1 || unpriced.MaterialIDs[0] != "inox-304" {
		t.Fatalf("unexpected missing ids: %v", unpriced.MaterialIDs)
	}
	if len(diags.MissingPrices) != 1 || diags.MissingPrices[0] != "inox-304" {
		t.Fatalf("missing price not recorded in diagnostics: %+v", diags)
	}
}

func TestComputeMaterialCost_ExpiredPriceWarnsButPrices(t *testing.T) {
	in := topOnlyInput()
	mass := Mass{TopKg: 5, TotalKg: 5}
	resolver := pricebook.Static{
		"inox-304": {Value: 45, Unit: pricebook.UnitKilogram, ValidUntil: testNow.AddDate(0, -1, 0)},
	}

	var diags Diagnostics
	mc, err := ComputeMaterialCost(context.Background(), mass, in, resolver, testNow, &diags)
	if err != nil {
		t.Fatalf("expired price must not block: %v", err)
	}

	nearlyEqual(t, "total", mc.Total, 225)
	if len(diags.Warnings) != 1 {
		t.Fatalf("expected 1 staleness warning, got %v", diags.Warnings)
	}
}

func TestComputeMaterialCost_ForeignUnitWarnsButPrices(t *testing.T) {
	in := topOnlyInput()
	mass := Mass{TopKg: 5, TotalKg: 5}
	resolver := pricebook.Static{
		"inox-304": {Value: 45, Unit: "lb"},
	}

	var diags Diagnostics
	_, err := ComputeMaterialCost(context.Background(), mass, in, resolver, testNow, &diags)
	if err != nil {
		t.Fatalf("foreign unit must not block: %v", err)
	}
	if len(diags.Warnings) != 1 {
		t.Fatalf("expected 1 unit warning, got %v", diags.Warnings)
	}
}

type countingResolver struct {
	inner pricebook.Resolver
	calls map[string]int
}

func (c *countingResolver) Resolve(ctx context.Context, materialID string) (pricebook.Price, error) {
	c.calls[materialID]++
	return c.inner.Resolve(ctx, materialID)
}

func TestComputeMaterialCost_ResolvesEachMaterialOnce(t *testing.T) {
	in := Input{
		Kind:  KindFrameWithBasin,
		Basin: &Basin{LengthMM: 500, WidthMM: 400, DepthMM: 200, ThicknessMM: 1, MaterialID: "inox-304"},
		Frame: &Frame{LegCount: 4, LegHeightMM: 850, TubeType: "tube-30x30"},
		Top:   &Top{LengthMM: 1500, WidthMM: 700, ThicknessMM: 1, MaterialID: "inox-304"},
	}
	mass := Mass{TopKg: 8, BasinKg: 2, FrameKg: 3.6, TotalKg: 13.6}
	resolver := &countingResolver{
		inner: pricebook.Static{
			"inox-304":   {Value: 45, Unit: pricebook.UnitKilogram},
			"tube-30x30": {Value: 38, Unit: pricebook.UnitKilogram},
		},
		calls: map[string]int{},
	}

	var diags Diagnostics
	mc, err := ComputeMaterialCost(context.Background(), mass, in, resolver, testNow, &diags)
	if err != nil {
		t.Fatalf("ComputeMaterialCost returned error: %v", err)
	}

	if resolver.calls["inox-304"] != 1 {
		t.Fatalf("inox-304 resolved %d times, want 1", resolver.calls["inox-304"])
	}
	if len(mc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %+v", mc.Lines)
	}
	nearlyEqual(t, "total", mc.Total, 8*45+2*45+3.6*38)
}

func TestComputeMaterialCost_SkipsZeroMassComponents(t *testing.T) {
	in := topOnlyInput()
	mass := Mass{} // nothing weighs anything

	var diags Diagnostics
	mc, err := ComputeMaterialCost(context.Background(), mass, in, pricebook.Static{}, testNow, &diags)
	if err != nil {
		t.Fatalf("zero-mass quote must not resolve prices: %v", err)
	}
	if len(mc.Lines) != 0 || mc.Total != 0 {
		t.Fatalf("expected empty cost, got %+v", mc)
	}
}
