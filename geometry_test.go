package dyncore

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestNewRingGridRejectsOddNlat(t *testing.T) {
	_, err := NewRingGrid(FullGaussianGrid, 17, 10, 7.292e-5)
	if err == nil {
		t.Fatal("want error for odd nlat, got nil")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("want *ConfigError, got %T", err)
	}
}

func TestNewRingGridRejectsUndersizedNlat(t *testing.T) {
	_, err := NewRingGrid(FullGaussianGrid, 4, 21, 7.292e-5)
	if err == nil {
		t.Fatal("want error for undersized nlat, got nil")
	}
}

func TestNewRingGridSymmetricAboutEquator(t *testing.T) {
	g, err := NewRingGrid(FullGaussianGrid, 32, 21, 7.292e-5)
	if err != nil {
		t.Fatal(err)
	}
	if g.NLat != 32 {
		t.Fatalf("NLat = %d, want 32", g.NLat)
	}
	for j := 0; j < g.NLat/2; j++ {
		south := g.NLat - 1 - j
		if math.Abs(g.SinLat[j]+g.SinLat[south]) > 1e-12 {
			t.Errorf("ring %d/%d not mirrored: sinLat %g vs %g", j, south, g.SinLat[j], g.SinLat[south])
		}
		if math.Abs(g.Weight[j]-g.Weight[south]) > 1e-12 {
			t.Errorf("ring %d/%d weight mismatch: %g vs %g", j, south, g.Weight[j], g.Weight[south])
		}
		if g.Nlon[j] != g.Nlon[south] {
			t.Errorf("ring %d/%d nlon mismatch: %d vs %d", j, south, g.Nlon[j], g.Nlon[south])
		}
	}
}

func TestGaussianQuadratureWeightsSumToTwo(t *testing.T) {
	g, err := NewRingGrid(FullGaussianGrid, 32, 21, 7.292e-5)
	if err != nil {
		t.Fatal(err)
	}
	sum := floats.Sum(g.Weight)
	if math.Abs(sum-2) > 1e-10 {
		t.Errorf("sum of Gaussian weights = %g, want 2", sum)
	}
}

func TestEachRingRejectsShapeMismatch(t *testing.T) {
	g, err := NewRingGrid(FullGaussianGrid, 32, 21, 7.292e-5)
	if err != nil {
		t.Fatal(err)
	}
	bad := make([]float64, g.N-1)
	err = g.EachRing([][]float64{bad}, func(j, start, n int) {})
	if err == nil {
		t.Fatal("want shape error, got nil")
	}
	if _, ok := err.(*ShapeError); !ok {
		t.Errorf("want *ShapeError, got %T", err)
	}
}

func TestNewSigmaLevelsRejectsBadPartition(t *testing.T) {
	_, err := NewSigmaLevels([]float64{0.3, 0.3, 0.3})
	if err == nil {
		t.Fatal("want error for sigma levels summing to 0.9, got nil")
	}
}

func TestNewSigmaLevelsAcceptsUnitPartition(t *testing.T) {
	s, err := NewSigmaLevels([]float64{0.25, 0.25, 0.25, 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if s.NLev != 4 {
		t.Fatalf("NLev = %d, want 4", s.NLev)
	}
	sum := floats.Sum(s.DSigma)
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("sum of DSigma = %g, want 1", sum)
	}
}
