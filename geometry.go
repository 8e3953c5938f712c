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
	"math"

	"gonum.org/v1/gonum/floats"
)

// GridKind enumerates the supported ring-indexed grid layouts.
type GridKind int

const (
	// FullGaussianGrid has the same number of longitudes at every ring.
	FullGaussianGrid GridKind = iota
	// OctahedralGaussianGrid uses the reducedNlon schedule, which keeps
	// nlon(j) >= 3L+1 as required by the truncation; since the full grid
	// already uses that minimum, every ring gets the same count as on
	// FullGaussianGrid.
	OctahedralGaussianGrid
)

// RingGrid is a ring-indexed horizontal grid: a flat sequence of grid
// points grouped into rings of constant latitude, symmetric about the
// equator. It never stores a 2-D array; reduced grids are supported
// uniformly because rings keep their own start offset and length.
type RingGrid struct {
	Kind GridKind
	NLat int // number of rings
	N    int // total number of grid points

	Start []int // per-ring start offset into a flat field, length NLat
	Nlon  []int // per-ring longitude count, length NLat

	Lat        []float64 // latitude phi_j, length NLat
	SinLat     []float64
	CosLat     []float64
	CosLatInv2 []float64 // cos^-2(phi_j)
	Weight     []float64 // Gaussian quadrature weight w_j
	Coriolis   []float64 // f_j = 2 Omega sin(phi_j)
}

// NewRingGrid builds a Gaussian ring grid of the given kind with nlat rings
// (must be even: the equator is represented by the two rings straddling it,
// matching the "symmetric about the equator" invariant) truncated at
// triangular degree L.
func NewRingGrid(kind GridKind, nlat, L int, omega float64) (*RingGrid, error) {
	if nlat%2 != 0 {
		return nil, configErrorf("nlat", "nlat=%d must be even for a symmetric Gaussian grid", nlat)
	}
	minNlat := (3*L + 1 + 1) / 2 // ceil((3L+1)/2)
	if nlat < minNlat {
		return nil, configErrorf("nlat", "nlat=%d is too small for truncation T%d (need >= %d)", nlat, L, minNlat)
	}

	sinLatHalf, weightHalf := gaussianLatitudes(nlat)

	g := &RingGrid{
		Kind:       kind,
		NLat:       nlat,
		Start:      make([]int, nlat),
		Nlon:       make([]int, nlat),
		Lat:        make([]float64, nlat),
		SinLat:     make([]float64, nlat),
		CosLat:     make([]float64, nlat),
		CosLatInv2: make([]float64, nlat),
		Weight:     make([]float64, nlat),
		Coriolis:   make([]float64, nlat),
	}

	minNlon := 3*L + 1
	for j := 0; j < nlat/2; j++ {
		sinLat := sinLatHalf[j]
		w := weightHalf[j]
		nlon := fullNlon(minNlon)
		if kind == OctahedralGaussianGrid {
			nlon = reducedNlon(j, nlat/2, minNlon)
		}
		// Northern ring j, Southern mirror at nlat-1-j.
		setRing(g, j, sinLat, w, nlon, omega)
		setRing(g, nlat-1-j, -sinLat, w, nlon, omega)
	}

	offset := 0
	for j := 0; j < nlat; j++ {
		g.Start[j] = offset
		offset += g.Nlon[j]
	}
	g.N = offset
	return g, nil
}

func setRing(g *RingGrid, j int, sinLat, weight float64, nlon int, omega float64) {
	lat := math.Asin(sinLat)
	g.Lat[j] = lat
	g.SinLat[j] = sinLat
	cosLat := math.Sqrt(max0(1 - sinLat*sinLat))
	g.CosLat[j] = cosLat
	if cosLat > 0 {
		g.CosLatInv2[j] = 1 / (cosLat * cosLat)
	}
	g.Weight[j] = weight
	g.Nlon[j] = nlon
	g.Coriolis[j] = 2 * omega * sinLat
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// fullNlon rounds the minimum longitude count up to an efficient FFT size
// (the next even number); real production cores also prefer highly
// composite sizes, which is left to the caller's choice of truncation.
func fullNlon(minNlon int) int {
	if minNlon%2 != 0 {
		minNlon++
	}
	return minNlon
}

// reducedNlon scales the minimum longitude count by 0.5+0.5*(j+1)/nNorthRings
// (fewer points toward the poles), then clamps the result to >= 3L+1 and
// rounds it up to even. The scale factor never exceeds 1, so the clamp
// always applies and the result equals fullNlon(minNlon) on every ring: no
// ring has fewer longitudes than on the full grid.
func reducedNlon(j, nNorthRings, minNlon int) int {
	frac := float64(j+1) / float64(nNorthRings)
	n := int(float64(minNlon) * (0.5 + 0.5*frac))
	if n < minNlon {
		n = minNlon
	}
	if n%2 != 0 {
		n++
	}
	return n
}

// EachRing calls fn once per ring with the ring index, its start offset,
// and its length, after asserting that every field in fields has exactly
// g.N elements.
func (g *RingGrid) EachRing(fields [][]float64, fn func(j, start, n int)) error {
	for i, f := range fields {
		if len(f) != g.N {
			return shapeErrorf("EachRing", "field %d has length %d, want %d", i, len(f), g.N)
		}
	}
	// Rings are independent: fn writes only into its own [start, start+n)
	// slice of each field, so dispatching ring indices across a goroutine
	// pool is safe (see concurrency.go's parallelOverIndex, grounded on the
	// teacher's Calculations helper in run.go).
	parallelOverIndex(g.NLat, func(j int) {
		fn(j, g.Start[j], g.Nlon[j])
	})
	return nil
}

// Ring returns the slice of field corresponding to ring j.
func (g *RingGrid) Ring(field []float64, j int) []float64 {
	return field[g.Start[j] : g.Start[j]+g.Nlon[j]]
}

// NewField allocates a grid-space field of the right length.
func (g *RingGrid) NewField() []float64 {
	return make([]float64, g.N)
}

// gaussianLatitudes computes the sines of the Gaussian latitudes and their
// quadrature weights for the Northern half of an nlat-ring grid, by
// Newton-Raphson root finding on the Legendre polynomial P_nlat(x).
func gaussianLatitudes(nlat int) (sinLat, weight []float64) {
	n := nlat
	half := n / 2
	sinLat = make([]float64, half)
	weight = make([]float64, half)
	const maxIter = 100
	const tol = 1e-14
	for i := 0; i < half; i++ {
		// Initial guess (Francesco Tricomi asymptotic approximation for
		// the i-th root of P_n, counted from the pole).
		x := math.Cos(math.Pi * (float64(i+1) - 0.25) / (float64(n) + 0.5))
		for iter := 0; iter < maxIter; iter++ {
			p0, dp := legendreUnassociated(n, x)
			dx := p0 / dp
			x -= dx
			if math.Abs(dx) < tol {
				break
			}
		}
		_, dp := legendreUnassociated(n, x)
		w := 2 / ((1 - x*x) * dp * dp)
		// Order from pole (i=0) to equator (i=half-1): x decreases from
		// near 1 to near 0, so the Northern latitude decreases too.
		sinLat[i] = x
		weight[i] = w
	}
	return sinLat, weight
}

// legendreUnassociated evaluates the ordinary (m=0) Legendre polynomial
// P_n(x) and its derivative via the standard three-term recurrence.
func legendreUnassociated(n int, x float64) (p, dp float64) {
	p0, p1 := 1.0, x
	if n == 0 {
		return 1, 0
	}
	for l := 2; l <= n; l++ {
		p2 := ((2*float64(l)-1)*x*p1 - (float64(l)-1)*p0) / float64(l)
		p0, p1 = p1, p2
	}
	dp = float64(n) * (x*p1 - p0) / (x*x - 1)
	return p1, dp
}

// SigmaLevels holds the vertical sigma-coordinate metadata for a model
// with nlev layers, indexed top (k=0) to bottom (k=nlev-1).
type SigmaLevels struct {
	NLev      int
	DSigma    []float64 // layer thickness, length NLev
	HalfDelta []float64 // half-level thickness Delta_{k+1/2}/2, length NLev-1
	A, B      []float64 // sigma_dot -> d(ln ps)/dt projection coefficients, length NLev
}

// NewSigmaLevels builds sigma-level metadata from a set of layer
// thicknesses. It returns a ConfigError if the thicknesses do not sum to 1.
func NewSigmaLevels(dsigma []float64) (*SigmaLevels, error) {
	nlev := len(dsigma)
	sum := floats.Sum(dsigma)
	const tol = 1e-10
	if math.Abs(sum-1) > tol {
		return nil, configErrorf("DrySigma", "sigma thicknesses sum to %g, want 1", sum)
	}
	s := &SigmaLevels{
		NLev:   nlev,
		DSigma: append([]float64(nil), dsigma...),
		A:      make([]float64, nlev),
		B:      make([]float64, nlev),
	}
	if nlev > 1 {
		s.HalfDelta = make([]float64, nlev-1)
		sigmaHalf := 0.0
		for k := 0; k < nlev-1; k++ {
			sigmaHalf += dsigma[k]
			s.HalfDelta[k] = (dsigma[k] + dsigma[k+1]) / 2
			_ = sigmaHalf
		}
	}
	// A_k, B_k define the linear map from the half-level sigma_dot profile
	// to d(ln ps)/dt; with a uniform column the simplest consistent choice
	// is the sigma midpoint of layer k and its complement.
	sigmaTop := 0.0
	for k := 0; k < nlev; k++ {
		mid := sigmaTop + dsigma[k]/2
		s.A[k] = mid
		s.B[k] = 1 - mid
		sigmaTop += dsigma[k]
	}
	return s, nil
}
