package quote

// Labor minutes per manufacturing operation, keyed off geometry
// features. The frame contributes no minutes yet; welding the legs is
// priced inside the tube material allowance today.
const (
	topCutMinutes        = 15.0
	topAssemblyMinutes   = 20.0
	basinWeldMinutes     = 45.0
	basinAssemblyMinutes = 25.0
)

// Operation labels exposed in the process cost breakdown.
const (
	OpCut      = "Cut"
	OpWeld     = "Weld"
	OpAssembly = "Assembly"
)

// OperationLine is the estimated labor for one operation.
type OperationLine struct {
	Label   string  `json:"label"`
	Minutes float64 `json:"minutes"`
}

// ProcessCost holds the labor estimate implied by the geometry.
type ProcessCost struct {
	Operations []OperationLine `json:"operations"`
	TotalHours float64         `json:"total_hours"`
	Total      float64         `json:"total"`
}

// ComputeProcessCost estimates labor minutes from the presence of
// geometry features and converts them to cost at the context's hourly
// labor rate. The rule table is deterministic; nesting results never
// feed into it.
func ComputeProcessCost(g Geometry, c Context) ProcessCost {
	var cut, weld, assembly float64

	if g.TopVolumeM3 > 0 {
		cut += topCutMinutes
		assembly += topAssemblyMinutes
	}
	if g.BasinVolumeM3 > 0 {
		weld += basinWeldMinutes
		assembly += basinAssemblyMinutes
	}

	var pc ProcessCost
	for _, op := range []OperationLine{
		{Label: OpCut, Minutes: cut},
		{Label: OpWeld, Minutes: weld},
		{Label: OpAssembly, Minutes: assembly},
	} {
		if op.Minutes > 0 {
			pc.Operations = append(pc.Operations, op)
			pc.TotalHours += op.Minutes / 60.0
		}
	}
	pc.Total = pc.TotalHours * c.LaborCostPerHour

	return pc
}
