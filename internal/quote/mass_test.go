package quote

import "testing"

func TestComputeMass_UsesGradeDensity(t *testing.T) {
	g := Geometry{TopVolumeM3: 0.00105}

	m := ComputeMass(g, ComponentMaterials{Top: "inox-304"})

	nearlyEqual(t, "topKg", m.TopKg, 0.00105*7930)
	nearlyEqual(t, "totalKg", m.TotalKg, m.TopKg)
}

func TestComputeMass_UnknownMaterialFallsBack(t *testing.T) {
	g := Geometry{TopVolumeM3: 0.001}

	m := ComputeMass(g, ComponentMaterials{Top: "unobtainium"})

	nearlyEqual(t, "topKg", m.TopKg, 0.001*7900)
}

func TestComputeMass_LinearInVolume(t *testing.T) {
	thin := ComputeMass(Geometry{TopVolumeM3: 0.001}, ComponentMaterials{Top: "inox-304"})
	thick := ComputeMass(Geometry{TopVolumeM3: 0.002}, ComponentMaterials{Top: "inox-304"})

	nearlyEqual(t, "doubled mass", thick.TopKg, 2*thin.TopKg)
}

func TestComputeMass_FrameUsesLinearTubeMass(t *testing.T) {
	m := ComputeMass(Geometry{TubeLengthM: 3.4}, ComponentMaterials{Frame: "tube-30x30"})

	nearlyEqual(t, "frameKg", m.FrameKg, 3.4*tubeKgPerMeter)
}

func TestComputeMass_ZeroGeometryZeroMass(t *testing.T) {
	m := ComputeMass(Geometry{}, ComponentMaterials{})

	nearlyEqual(t, "totalKg", m.TotalKg, 0)
	nearlyEqual(t, "basinKg", m.BasinKg, 0)
}

func TestDensityFor_NormalizesAliases(t *testing.T) {
	for _, id := range []string{"inox-304", "AISI 304", "304"} {
		if got := DensityFor(id); got != 7930 {
			t.Fatalf("DensityFor(%q) = %v, want 7930", id, got)
		}
	}
	if got := DensityFor("inox-430"); got != 7700 {
		t.Fatalf("DensityFor(inox-430) = %v, want 7700", got)
	}
}
