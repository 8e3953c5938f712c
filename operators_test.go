package dyncore

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// fillSpectral builds a deterministic, non-trivial test field of truncation
// L using a simple closed-form formula (no randomness, since the transform
// toolchain is never exercised against a reference implementation here).
func fillSpectral(L int) *Spectral {
	s := NewSpectral(L)
	for m := 0; m <= L; m++ {
		for l := m; l <= L; l++ {
			s.Set(l, m, complex(1/float64(l+2), float64(m)/float64(l+3)))
		}
	}
	s.FixRealDC()
	return s
}

// maxAbsDiffFrom is maxAbsDiff excluding the (l0,m0) coefficient, for
// invariants that leave that single mode unconstrained (the (0,0) inversion
// constant). Zeroing the excluded entry's diff rather than skipping it is
// equivalent for an L-infinity norm: a zero entry can never set the max.
func maxAbsDiffFrom(l0, m0 int, a, b *Spectral) float64 {
	dre := make([]float64, len(a.Re.Elements))
	dim := make([]float64, len(a.Im.Elements))
	for i := range dre {
		dre[i] = a.Re.Elements[i] - b.Re.Elements[i]
	}
	for i := range dim {
		dim[i] = a.Im.Elements[i] - b.Im.Elements[i]
	}
	skip := a.Re.Index1d(l0, m0)
	dre[skip] = 0
	dim[skip] = 0
	return math.Max(floats.Norm(dre, math.Inf(1)), floats.Norm(dim, math.Inf(1)))
}

// TestCurlOfGradientIsZero is invariant 2's second half: curl(grad F) = 0.
func TestCurlOfGradientIsZero(t *testing.T) {
	const L = 12
	ops := NewOperators(L, 1)
	f := fillSpectral(L)

	dLambda := NewSpectral(L)
	dPhi := NewSpectral(L)
	if err := ops.Gradient(f, dLambda, dPhi, false, false); err != nil {
		t.Fatal(err)
	}

	curl := NewSpectral(L)
	if err := ops.DivergenceCurl(dLambda, dPhi, nil, curl, false, false); err != nil {
		t.Fatal(err)
	}
	for m := 0; m <= L; m++ {
		for l := m; l <= L; l++ {
			if mag := math.Abs(real(curl.At(l, m))) + math.Abs(imag(curl.At(l, m))); mag > 1e-8 {
				t.Errorf("curl(grad f)[%d,%d] = %v, want ~0", l, m, curl.At(l, m))
			}
		}
	}
}

// TestDivergenceOfGradientIsLaplacian is invariant 2's first half:
// div(grad F) = Laplacian(F).
func TestDivergenceOfGradientIsLaplacian(t *testing.T) {
	const L = 12
	ops := NewOperators(L, 1)
	f := fillSpectral(L)

	dLambda := NewSpectral(L)
	dPhi := NewSpectral(L)
	if err := ops.Gradient(f, dLambda, dPhi, false, false); err != nil {
		t.Fatal(err)
	}

	div := NewSpectral(L)
	if err := ops.DivergenceCurl(dLambda, dPhi, div, nil, false, false); err != nil {
		t.Fatal(err)
	}

	lap := NewSpectral(L)
	if err := ops.Laplacian(f, lap, false, false); err != nil {
		t.Fatal(err)
	}

	if d := maxAbsDiff(div, lap); d > 1e-8 {
		t.Errorf("div(grad f) vs Laplacian(f): max abs diff = %g, want <= 1e-8", d)
	}
}

// TestUVRoundTripThroughVorDiv is invariant 3: recovering (U,V) from
// (curl(U,V), div(U,V)) reproduces (U,V), modulo the (0,0) mode.
func TestUVRoundTripThroughVorDiv(t *testing.T) {
	const L = 12
	ops := NewOperators(L, 1)
	u := fillSpectral(L)
	v := fillSpectral(L)
	// Perturb v so it is not identical to u.
	for m := 0; m <= L; m++ {
		for l := m; l <= L; l++ {
			v.Set(l, m, v.At(l, m)*complex(0, 1))
		}
	}
	v.FixRealDC()
	u.Set(0, 0, 0)
	v.Set(0, 0, 0)

	div := NewSpectral(L)
	curl := NewSpectral(L)
	if err := ops.DivergenceCurl(u, v, div, curl, false, false); err != nil {
		t.Fatal(err)
	}

	u2 := NewSpectral(L)
	v2 := NewSpectral(L)
	psi := NewSpectral(L)
	phi := NewSpectral(L)
	if err := ops.UVFromVorDiv(curl, div, u2, v2, psi, phi); err != nil {
		t.Fatal(err)
	}

	if d := maxAbsDiffFrom(0, 0, u, u2); d > 1e-6 {
		t.Errorf("U round trip: max abs diff = %g, want <= 1e-6", d)
	}
	if d := maxAbsDiffFrom(0, 0, v, v2); d > 1e-6 {
		t.Errorf("V round trip: max abs diff = %g, want <= 1e-6", d)
	}
}

func TestInverseLaplacianZeroesDCMode(t *testing.T) {
	const L = 8
	ops := NewOperators(L, 1)
	f := fillSpectral(L)
	f.Set(0, 0, complex(42, 0))

	out := NewSpectral(L)
	if err := ops.InverseLaplacian(f, out, false, false); err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0) != 0 {
		t.Errorf("InverseLaplacian(0,0) = %v, want exactly 0", out.At(0, 0))
	}
}

func TestLaplacianInverseLaplacianRoundTrip(t *testing.T) {
	const L = 12
	ops := NewOperators(L, 1)
	f := fillSpectral(L)
	f.Set(0, 0, 0)

	lap := NewSpectral(L)
	if err := ops.Laplacian(f, lap, false, false); err != nil {
		t.Fatal(err)
	}
	back := NewSpectral(L)
	if err := ops.InverseLaplacian(lap, back, false, false); err != nil {
		t.Fatal(err)
	}
	if d := maxAbsDiff(f, back); d > 1e-8 {
		t.Errorf("Laplacian/InverseLaplacian round trip: max abs diff = %g, want <= 1e-8", d)
	}
}

func TestGradientRejectsShapeMismatch(t *testing.T) {
	ops := NewOperators(10, 1)
	f := NewSpectral(10)
	dLambda := NewSpectral(9)
	dPhi := NewSpectral(10)
	err := ops.Gradient(f, dLambda, dPhi, false, false)
	if err == nil {
		t.Fatal("want shape error, got nil")
	}
	if _, ok := err.(*ShapeError); !ok {
		t.Errorf("want *ShapeError, got %T", err)
	}
}

func TestOperatorsComposeWithAddAndFlipsign(t *testing.T) {
	const L = 8
	ops := NewOperators(L, 1)
	f := fillSpectral(L)
	target := fillSpectral(L)

	want := NewSpectral(L)
	if err := ops.Laplacian(f, want, false, false); err != nil {
		t.Fatal(err)
	}
	for m := 0; m <= L; m++ {
		for l := m; l <= L; l++ {
			want.Set(l, m, target.At(l, m)-want.At(l, m))
		}
	}
	want.FixRealDC()

	if err := ops.Laplacian(f, target, true, true); err != nil {
		t.Fatal(err)
	}
	if d := maxAbsDiff(want, target); d > 1e-10 {
		t.Errorf("add+flipsign composition: max abs diff = %g, want <= 1e-10", d)
	}
}
