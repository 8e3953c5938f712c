/*
Copyright © 2024 the dyncore authors.
This file is part of dyncore.

dyncore is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

dyncore is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with dyncore.  If not, see <http://www.gnu.org/licenses/>.
*/

package dyncore

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// SpectralTransform holds the precomputed tables and FFT plans needed to
// move fields back and forth between the packed triangular spectral
// representation and a RingGrid. Every buffer it touches is either owned by
// the transform itself (FFT scratch) or passed in by the caller; it never
// allocates per call.
type SpectralTransform struct {
	Grid *RingGrid
	L    int

	eps      *epsilonTable
	legendre *legendreTable
	fftNorth []*fourier.FFT // one plan per Northern ring, indexed 0..NNorth-1

	// scratch, sized to the largest ring, reused across calls
	coeffNorth []complex128
	coeffSouth []complex128
}

// NewSpectralTransform builds the forward/inverse transform tables for grid
// truncated at triangular degree L.
func NewSpectralTransform(grid *RingGrid, L int) *SpectralTransform {
	nNorth := grid.NLat / 2
	sinLatNorth := make([]float64, nNorth)
	copy(sinLatNorth, grid.SinLat[:nNorth])

	eps := newEpsilonTable(L)
	leg := newLegendreTable(L, sinLatNorth, eps)

	fftPlans := make([]*fourier.FFT, nNorth)
	maxNlon := 0
	for j := 0; j < nNorth; j++ {
		fftPlans[j] = fourier.NewFFT(grid.Nlon[j])
		if grid.Nlon[j] > maxNlon {
			maxNlon = grid.Nlon[j]
		}
	}

	return &SpectralTransform{
		Grid:       grid,
		L:          L,
		eps:        eps,
		legendre:   leg,
		fftNorth:   fftPlans,
		coeffNorth: make([]complex128, maxNlon/2+1),
		coeffSouth: make([]complex128, maxNlon/2+1),
	}
}

// Forward transforms a grid-space scalar field into spectral coefficients,
// overwriting out. Band-unlimited content aliases into modes <= L, and the
// tail degree L+1 is always zeroed by the spectral-truncation policy.
func (t *SpectralTransform) Forward(grid []float64, out *Spectral) error {
	if len(grid) != t.Grid.N {
		return shapeErrorf("Forward", "grid field has length %d, want %d", len(grid), t.Grid.N)
	}
	if out.L != t.L {
		return shapeErrorf("Forward", "spectral field truncation %d, want %d", out.L, t.L)
	}
	out.Zero()
	nNorth := t.Grid.NLat / 2
	for j := 0; j < nNorth; j++ {
		south := t.Grid.NLat - 1 - j
		north := t.Grid.Ring(grid, j)
		southRing := t.Grid.Ring(grid, south)

		fn := t.fftNorth[j].Coefficients(t.coeffNorth[:t.fftNorth[j].Len()/2+1], north)
		fs := t.fftNorth[j].Coefficients(t.coeffSouth[:t.fftNorth[j].Len()/2+1], southRing)
		// gonum's Coefficients returns the unnormalized DFT sum; divide by
		// the ring length to get the physical Fourier amplitude before
		// combining with the Gaussian quadrature weight.
		norm := complex(1/float64(t.fftNorth[j].Len()), 0)
		for i := range fn {
			fn[i] *= norm
			fs[i] *= norm
		}

		w := t.Grid.Weight[j]
		maxM := minInt(t.L, len(fn)-1)
		for m := 0; m <= maxM; m++ {
			even := w * (fn[m] + fs[m])
			odd := w * (fn[m] - fs[m])
			for l := m; l <= t.L+1; l++ {
				p := t.legendre.at(j, l, m)
				if p == 0 {
					continue
				}
				if (l-m)%2 == 0 {
					out.AddAt(l, m, complex(p, 0)*even)
				} else {
					out.AddAt(l, m, complex(p, 0)*odd)
				}
			}
		}
	}
	out.Truncate()
	out.FixRealDC()
	return nil
}

// Inverse transforms spectral coefficients into a grid-space scalar field,
// overwriting grid.
func (t *SpectralTransform) Inverse(in *Spectral, grid []float64) error {
	if len(grid) != t.Grid.N {
		return shapeErrorf("Inverse", "grid field has length %d, want %d", len(grid), t.Grid.N)
	}
	if in.L != t.L {
		return shapeErrorf("Inverse", "spectral field truncation %d, want %d", in.L, t.L)
	}
	nNorth := t.Grid.NLat / 2
	for j := 0; j < nNorth; j++ {
		south := t.Grid.NLat - 1 - j
		nc := t.fftNorth[j].Len()/2 + 1
		for i := range t.coeffNorth[:nc] {
			t.coeffNorth[i] = 0
			t.coeffSouth[i] = 0
		}
		maxM := minInt(t.L, nc-1)
		for m := 0; m <= maxM; m++ {
			var even, odd complex128
			for l := m; l <= t.L; l++ {
				p := t.legendre.at(j, l, m)
				if p == 0 {
					continue
				}
				c := in.At(l, m)
				if (l-m)%2 == 0 {
					even += complex(p, 0) * c
				} else {
					odd += complex(p, 0) * c
				}
			}
			t.coeffNorth[m] = even + odd
			t.coeffSouth[m] = even - odd
		}
		// Sequence(Coefficients(x)) returns nlon*x, so the physical
		// amplitudes built here (Forward's Coefficients/nlon) go into
		// Sequence unscaled and come back as the grid values themselves.
		north := t.Grid.Ring(grid, j)
		southRing := t.Grid.Ring(grid, south)
		t.fftNorth[j].Sequence(north, t.coeffNorth[:nc])
		t.fftNorth[j].Sequence(southRing, t.coeffSouth[:nc])
	}
	return nil
}
