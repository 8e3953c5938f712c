package dyncore

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func testGridConfig(trunc int) SpectralGridConfig {
	nlatHalf := (3*trunc + 2) / 2 // satisfies 2*NlatHalf >= 3*Trunc+2
	return SpectralGridConfig{Trunc: trunc, NlatHalf: nlatHalf, Kind: FullGaussianGrid}
}

func seedSpectral(s *Spectral, scale float64) {
	for m := 0; m <= s.M; m++ {
		for l := m; l <= s.L; l++ {
			s.Set(l, m, complex(scale/float64(l+2), scale*float64(m)/float64(l+5)))
		}
	}
	s.FixRealDC()
}

func newTestModel(t *testing.T, tier ModelTier, nlev int) *Model {
	t.Helper()
	trunc := 8
	drySigma := make([]float64, nlev)
	for k := range drySigma {
		drySigma[k] = 1.0 / float64(nlev)
	}
	cfg := ModelConfig{
		Grid:       testGridConfig(trunc),
		Planet:     EarthConstants,
		Atmosphere: EarthAtmosphere,
		Tier:       tier,
		NLev:       nlev,
		DrySigma:   drySigma,
		DryCore:    tier != Primitive,
		Orography:  OrographyConfig{Kind: ZeroOrography},
	}
	if tier == ShallowWater {
		cfg.Relax = Relaxation{}
	}
	m, err := NewModel(cfg, nil)
	if err != nil {
		t.Fatalf("NewModel(%v): %v", tier, err)
	}
	if tier == ShallowWater {
		m.Boundary.ReferenceDepth = 3000
	}
	return m
}

func seedPrognostic(m *Model, lf int) {
	for _, pl := range m.Prog.Layers {
		seedSpectral(pl.Vor.At(lf), 1e-5)
		seedSpectral(pl.Div.At(lf), 1e-6)
		if pl.Temp != nil {
			seedSpectral(pl.Temp.At(lf), 250)
		}
		if pl.Humid != nil {
			seedSpectral(pl.Humid.At(lf), 1e-3)
		}
	}
	if m.Prog.Pres != nil {
		seedSpectral(m.Prog.Pres.At(lf), 1e3)
	}
}

// TestBarotropicLeavesDivergenceTendencyZero is invariant 7: a Barotropic
// run never produces a non-zero divergence tendency.
func TestBarotropicLeavesDivergenceTendencyZero(t *testing.T) {
	m := newTestModel(t, Barotropic, 1)
	seedPrognostic(m, 1)
	if err := m.Evaluate(1, 0); err != nil {
		t.Fatal(err)
	}
	dl := m.Diag.Layers[0]
	for mo := 0; mo <= dl.DivTend.M; mo++ {
		for l := mo; l <= dl.DivTend.L; l++ {
			v := dl.DivTend.At(l, mo)
			if math.Abs(real(v)) > 0 || math.Abs(imag(v)) > 0 {
				t.Fatalf("DivTend[%d,%d] = %v, want exactly 0 for barotropic tier", l, mo, v)
			}
		}
	}
}

// TestDryCoreHumidityTendencyUntouched is invariant 8: a dry Primitive run
// never allocates or writes a humidity tendency.
func TestDryCoreHumidityTendencyUntouched(t *testing.T) {
	trunc := 8
	cfg := ModelConfig{
		Grid:       testGridConfig(trunc),
		Planet:     EarthConstants,
		Atmosphere: EarthAtmosphere,
		Tier:       Primitive,
		NLev:       2,
		DrySigma:   []float64{0.5, 0.5},
		DryCore:    true,
		Orography:  OrographyConfig{Kind: ZeroOrography},
	}
	m, err := NewModel(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	seedPrognostic(m, 1)
	if err := m.Evaluate(1, 0); err != nil {
		t.Fatal(err)
	}
	for k, dl := range m.Diag.Layers {
		if dl.HumidTend != nil {
			t.Fatalf("layer %d: HumidTend allocated for a dry core", k)
		}
		if dl.HumidGrid != nil {
			t.Fatalf("layer %d: HumidGrid allocated for a dry core", k)
		}
	}
}

// TestSurfacePressureTendencyDCModeIsZero is invariant 4/6: the (0,0) mode
// of pres_tend is forced to zero for global mass conservation.
func TestSurfacePressureTendencyDCModeIsZero(t *testing.T) {
	m := newTestModel(t, Primitive, 3)
	seedPrognostic(m, 1)
	if err := m.Evaluate(1, 0); err != nil {
		t.Fatal(err)
	}
	dc := m.Diag.Surface.PresTend.At(0, 0)
	if real(dc) != 0 || imag(dc) != 0 {
		t.Fatalf("pres_tend(0,0) = %v, want exactly 0", dc)
	}
}

// TestVerticalVelocityBoundariesAreZero is invariant 9: sigma_tend/sigma_m
// vanish at the top of the column (layer 0's "above" is implicit zero and
// not stored, so it is not checked here) and at the bottom of the column
// (verticalVelocity forces the last layer's values to zero each evaluation).
func TestVerticalVelocityBoundariesAreZero(t *testing.T) {
	m := newTestModel(t, Primitive, 4)
	seedPrognostic(m, 1)
	if err := m.Evaluate(1, 0); err != nil {
		t.Fatal(err)
	}
	last := m.Diag.Layers[len(m.Diag.Layers)-1]
	for i, v := range last.SigmaTend {
		if v != 0 {
			t.Fatalf("bottom layer SigmaTend[%d] = %v, want 0", i, v)
			break
		}
	}
	for i, v := range last.SigmaM {
		if v != 0 {
			t.Fatalf("bottom layer SigmaM[%d] = %v, want 0", i, v)
			break
		}
	}
}

// TestSigmaLevelsPartitionSumsToOne checks the accepted case of the sigma
// partition check (the rejected case is covered in geometry_test.go): an
// equal five-layer partition threads through NewModel and its DSigma
// values still sum to 1.
func TestSigmaLevelsPartitionSumsToOne(t *testing.T) {
	m := newTestModel(t, Primitive, 5)
	sum := floats.Sum(m.Sigma.DSigma)
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("sigma thicknesses sum to %g, want 1", sum)
	}
}

// TestShallowWaterEvaluateRunsEndToEnd exercises the reduced ShallowWater
// flow, including the optional interface relaxation, without panicking or
// erroring, and checks the surface pressure tendency was actually written.
func TestShallowWaterEvaluateRunsEndToEnd(t *testing.T) {
	m := newTestModel(t, ShallowWater, 1)
	m.Engine.Relax.Tau = 86400 * 10
	m.Engine.Relax.Seasonal = true
	m.Engine.Relax.TropicLat = 0.41
	m.Engine.Relax.Amplitude = 25
	seedPrognostic(m, 1)
	if err := m.Evaluate(1, 12345); err != nil {
		t.Fatal(err)
	}
	wrote := false
	for mo := 0; mo <= m.Diag.Surface.PresTend.M; mo++ {
		for l := mo; l <= m.Diag.Surface.PresTend.L; l++ {
			v := m.Diag.Surface.PresTend.At(l, mo)
			if real(v) != 0 || imag(v) != 0 {
				wrote = true
			}
		}
	}
	if !wrote {
		t.Fatal("shallow-water PresTend is identically zero after Evaluate")
	}
}
