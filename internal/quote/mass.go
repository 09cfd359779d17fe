package quote

import "strings"

// Densities in kg/m³ for the stainless grades the shop stocks.
const (
	densityInox304 = 7930.0
	densityInox430 = 7700.0
	// densityDefault is used for material ids the table does not know.
	// Mass computation falls back, it never fails.
	densityDefault = 7900.0
)

// tubeKgPerMeter is the linear mass of the standard 30x30x1.2mm frame
// tube. A single gauge constant stands in for a per-gauge lookup; see
// DESIGN.md for the limitation.
const tubeKgPerMeter = 1.08

// Mass holds the computed mass per component, in kilograms.
type Mass struct {
	TopKg   float64
	BasinKg float64
	FrameKg float64
	TotalKg float64
}

// ComponentMaterials names the material id of each present component.
// Empty ids are fine; they resolve to the default density.
type ComponentMaterials struct {
	Top   string
	Basin string
	Frame string
}

// Materials extracts the per-component material ids from an input.
func (in Input) Materials() ComponentMaterials {
	var m ComponentMaterials
	if in.Top != nil {
		m.Top = in.Top.MaterialID
	}
	if in.Basin != nil {
		m.Basin = in.Basin.MaterialID
	}
	if in.Frame != nil {
		m.Frame = in.Frame.TubeType
	}
	return m
}

// ComputeMass converts volumes and tube length into masses using the
// density table. Unknown material ids fall back to the default
// density.
func ComputeMass(g Geometry, mats ComponentMaterials) Mass {
	m := Mass{
		TopKg:   g.TopVolumeM3 * DensityFor(mats.Top),
		BasinKg: g.BasinVolumeM3 * DensityFor(mats.Basin),
		FrameKg: g.TubeLengthM * tubeKgPerMeter,
	}
	m.TotalKg = m.TopKg + m.BasinKg + m.FrameKg
	return m
}

// DensityFor returns the density in kg/m³ for a material id,
// falling back to the default when the id is not recognized.
func DensityFor(materialID string) float64 {
	switch normalizeMaterial(materialID) {
	case "inox-304", "aisi-304", "304":
		return densityInox304
	case "inox-430", "aisi-430", "430":
		return densityInox430
	}
	return densityDefault
}

func normalizeMaterial(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), " ", "-")
}
