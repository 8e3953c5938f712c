package dyncore

import "testing"

func TestNewZeroBoundariesIsFlat(t *testing.T) {
	grid, err := NewRingGrid(FullGaussianGrid, 16, 8, EarthConstants.Omega)
	if err != nil {
		t.Fatal(err)
	}
	b := NewZeroBoundaries(grid, 8)
	for i, h := range b.OrographyGrid {
		if h != 0 {
			t.Fatalf("OrographyGrid[%d] = %g, want 0", i, h)
		}
	}
	for m := 0; m <= b.PhiS.M; m++ {
		for l := m; l <= b.PhiS.L; l++ {
			if v := b.PhiS.At(l, m); v != 0 {
				t.Fatalf("PhiS[%d,%d] = %v, want 0", l, m, v)
			}
		}
	}
}

func TestNewJablonowskiWilliamsonBoundariesProducesNonFlatRidge(t *testing.T) {
	grid, err := NewRingGrid(FullGaussianGrid, 16, 8, EarthConstants.Omega)
	if err != nil {
		t.Fatal(err)
	}
	transform := NewSpectralTransform(grid, 8)
	cfg := OrographyConfig{
		Kind:        JablonowskiWilliamsonOrography,
		RidgeHeight: 2000,
		RidgeLat:    0.7,
	}
	b, err := NewJablonowskiWilliamsonBoundaries(grid, 8, transform, cfg, EarthConstants.Gravity)
	if err != nil {
		t.Fatal(err)
	}
	nonzero := false
	for _, h := range b.OrographyGrid {
		if h != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Fatal("Jablonowski-Williamson ridge is identically zero")
	}
}

func TestNewFileBoundariesRejectsMissingFile(t *testing.T) {
	grid, err := NewRingGrid(FullGaussianGrid, 16, 8, EarthConstants.Omega)
	if err != nil {
		t.Fatal(err)
	}
	transform := NewSpectralTransform(grid, 8)
	cfg := OrographyConfig{Kind: FileOrography, Path: "/nonexistent", File: "orog.nc"}
	if _, err := NewFileBoundaries(grid, 8, transform, cfg, EarthConstants.Gravity); err == nil {
		t.Fatal("expected error for a missing orography file, got nil")
	}
}
