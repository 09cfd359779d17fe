package quote

// Pricing is the final commercial roll-up of one quote. All
// intermediate values are retained for breakdown display.
type Pricing struct {
	BaseCost     float64 `json:"base_cost"`
	ScrapCost    float64 `json:"scrap_cost"`
	OverheadCost float64 `json:"overhead_cost"`
	RiskCost     float64 `json:"risk_cost"`
	TotalCost    float64 `json:"total_cost"`
	FinalPrice   float64 `json:"final_price"`
	Margin       float64 `json:"margin"`
}

// ComputePricing aggregates material and process cost and applies the
// scrap, overhead and risk fractions plus the markup. Fractions left
// at zero simply contribute nothing. Markup below 1 is tolerated; the
// pipeline flags it as a warning upstream.
func ComputePricing(mc MaterialCost, pc ProcessCost, c Context) Pricing {
	base := mc.Total + pc.Total

	p := Pricing{
		BaseCost:     base,
		ScrapCost:    base * c.ScrapFraction,
		OverheadCost: base * c.OverheadFraction,
		RiskCost:     base * c.RiskFraction,
	}
	p.TotalCost = p.BaseCost + p.ScrapCost + p.OverheadCost + p.RiskCost
	p.FinalPrice = p.TotalCost * c.Markup
	p.Margin = p.FinalPrice - p.TotalCost

	return p
}
