package quote

const mmPerMeter = 1000.0

// Geometry holds the physical volumes and linear lengths derived from
// an item description. Volumes are cubic meters so that densities in
// kg/m³ apply directly.
type Geometry struct {
	TopVolumeM3   float64
	BasinVolumeM3 float64
	TubeLengthM   float64
}

// ResolveGeometry derives Geometry from the input. It never fails:
// absent sub-records simply contribute zero.
func ResolveGeometry(in Input) Geometry {
	var g Geometry

	if t := in.Top; t != nil {
		length := t.LengthMM / mmPerMeter
		thickness := t.ThicknessMM / mmPerMeter
		g.TopVolumeM3 = length * (t.WidthMM / mmPerMeter) * thickness
		if t.BacksplashHeightMM > 0 {
			g.TopVolumeM3 += length * (t.BacksplashHeightMM / mmPerMeter) * thickness
		}
	}

	if b := in.Basin; b != nil {
		length := b.LengthMM / mmPerMeter
		width := b.WidthMM / mmPerMeter
		depth := b.DepthMM / mmPerMeter
		thickness := b.ThicknessMM / mmPerMeter

		// Open-top box approximation: the inner cavity subtracts the
		// wall thickness from length and width on both sides, and once
		// from the height. Inner dimensions clamp at zero so an
		// oversized thickness cannot produce a negative volume.
		outer := length * width * depth
		inner := clampZero(length-2*thickness) *
			clampZero(width-2*thickness) *
			clampZero(depth-thickness)
		g.BasinVolumeM3 = clampZero(outer - inner)
	}

	if f := in.Frame; f != nil {
		// Straight legs only; bracing runs are not modeled.
		g.TubeLengthM = float64(f.LegCount) * f.LegHeightMM / mmPerMeter
	}

	return g
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
