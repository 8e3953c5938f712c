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
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
)

// OrographyKind selects which of the three supported orography variants a
// Boundaries instance was built from.
type OrographyKind int

const (
	// ZeroOrography is a flat planet: Grid is all zero, PhiS is the zero
	// field.
	ZeroOrography OrographyKind = iota
	// JablonowskiWilliamsonOrography is the analytic mid-latitude ridge
	// built by NewJablonowskiWilliamsonBoundaries for the
	// Jablonowski-Williamson baroclinic-wave test case (a latitude band
	// modulated in longitude; it is not zonally uniform).
	JablonowskiWilliamsonOrography
	// FileOrography reads surface height from a NetCDF file.
	FileOrography
)

// OrographyConfig describes how to build a Boundaries instance.
type OrographyConfig struct {
	Kind OrographyKind

	// Used only by FileOrography.
	Path, File string
	Variable   string
	Scale      float64 // unit conversion applied to the raw file values

	// Used only by JablonowskiWilliamsonOrography.
	RidgeHeight  float64 // ridge amplitude h_0, meters
	RidgeLat     float64 // central latitude, radians
	RidgeLonSpan float64 // L_c, radians: latitudinal half-width and longitudinal period scale
}

// Boundaries holds surface orography in both grid and spectral form. It is
// written once during initialization (New* constructors) and read-only
// afterward; RHS evaluations never mutate it.
type Boundaries struct {
	Kind OrographyKind

	OrographyGrid []float64 // meters, grid space
	PhiS          *Spectral // g*h_s, spectral surface geopotential

	// ReferenceDepth (H0) is the shallow-water tier's resting fluid depth,
	// set by the caller after construction; the core never infers it from
	// the orography file.
	ReferenceDepth float64
}

// NewZeroBoundaries builds a flat-planet orography: zero height everywhere.
func NewZeroBoundaries(grid *RingGrid, L int) *Boundaries {
	return &Boundaries{
		Kind:          ZeroOrography,
		OrographyGrid: grid.NewField(),
		PhiS:          NewSpectral(L),
	}
}

// NewJablonowskiWilliamsonBoundaries builds an analytic mid-latitude ridge
// for the Jablonowski-Williamson baroclinic test case:
//
//	h_s(lambda, phi) = h_0 * cos(pi/2 * d/L_c) * cos(pi*lambda/L_c)^2   if d < L_c
//	h_s(lambda, phi) = 0                                                otherwise
//
// where d = |phi - RidgeLat| is the latitudinal distance from the ridge
// center and L_c = RidgeLonSpan (pi/9 when unset). The ridge is confined in
// latitude only: the cosine-squared factor is periodic in longitude, so the
// ridge is neither zonally uniform nor confined in longitude.
func NewJablonowskiWilliamsonBoundaries(grid *RingGrid, L int, transform *SpectralTransform, cfg OrographyConfig, gravity float64) (*Boundaries, error) {
	b := &Boundaries{
		Kind:          JablonowskiWilliamsonOrography,
		OrographyGrid: grid.NewField(),
		PhiS:          NewSpectral(L),
	}
	h0 := cfg.RidgeHeight
	latC := cfg.RidgeLat
	lonSpan := cfg.RidgeLonSpan
	if lonSpan <= 0 {
		lonSpan = math.Pi / 9
	}
	if err := grid.EachRing([][]float64{b.OrographyGrid}, func(j, start, n int) {
		phi := grid.Lat[j]
		d := math.Abs(phi - latC)
		for i := 0; i < n; i++ {
			lambda := 2 * math.Pi * float64(i) / float64(n)
			lonTerm := math.Cos(math.Pi * lambda / lonSpan)
			h := 0.0
			if d < lonSpan {
				h = h0 * math.Cos(d/lonSpan*math.Pi/2) * lonTerm * lonTerm
			}
			b.OrographyGrid[start+i] = h
		}
	}); err != nil {
		return nil, err
	}
	phiSGrid := grid.NewField()
	for i, h := range b.OrographyGrid {
		phiSGrid[i] = gravity * h
	}
	if err := transform.Forward(phiSGrid, b.PhiS); err != nil {
		return nil, err
	}
	return b, nil
}

// NewFileBoundaries reads surface height from a NetCDF file, following the
// cdf.Open/ff.Reader pattern used for meteorology ingestion: it reads the
// named variable as float32, converts to float64, applies cfg.Scale, and
// transforms the result into spectral surface geopotential.
func NewFileBoundaries(grid *RingGrid, L int, transform *SpectralTransform, cfg OrographyConfig, gravity float64) (*Boundaries, error) {
	f, err := os.Open(cfg.Path + "/" + cfg.File)
	if err != nil {
		return nil, configErrorf("Orography", "opening orography file: %v", err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("dyncore: boundaries: reading orography netcdf header: %v", err)
	}
	varName := cfg.Variable
	if varName == "" {
		varName = "orog"
	}
	dims := ff.Header.Lengths(varName)
	if len(dims) == 0 {
		return nil, fmt.Errorf("dyncore: boundaries: variable %q not in %s", varName, cfg.File)
	}
	nread := 1
	for _, d := range dims {
		nread *= d
	}
	r := ff.Reader(varName, nil, nil)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("dyncore: boundaries: reading orography variable %q: %v", varName, err)
	}
	raw, ok := buf.([]float32)
	if !ok {
		return nil, fmt.Errorf("dyncore: boundaries: variable %q is not float32", varName)
	}
	if len(raw) != grid.N {
		return nil, shapeErrorf("NewFileBoundaries", "orography file has %d points, grid has %d", len(raw), grid.N)
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	b := &Boundaries{
		Kind:          FileOrography,
		OrographyGrid: make([]float64, grid.N),
		PhiS:          NewSpectral(L),
	}
	phiSGrid := grid.NewField()
	for i, v := range raw {
		h := float64(v) * scale
		b.OrographyGrid[i] = h
		phiSGrid[i] = gravity * h
	}
	if err := transform.Forward(phiSGrid, b.PhiS); err != nil {
		return nil, err
	}
	return b, nil
}
