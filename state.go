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

// Leapfrog wraps a spectral field with two time slices, selected by a
// leapfrog index lf in {1, 2}. It never allocates after construction.
type Leapfrog struct {
	slot [2]*Spectral
}

// NewLeapfrog allocates both time slices at truncation L.
func NewLeapfrog(L int) *Leapfrog {
	return &Leapfrog{slot: [2]*Spectral{NewSpectral(L), NewSpectral(L)}}
}

// At returns the slice for leapfrog index lf (1 or 2); any other value
// returns nil so a caller mistake surfaces as a nil pointer panic rather
// than silently aliasing a slot.
func (lf *Leapfrog) At(i int) *Spectral {
	if i != 1 && i != 2 {
		return nil
	}
	return lf.slot[i-1]
}

// PrognosticLayer holds the two-leapfrog-slot spectral state carried by one
// vertical layer: vorticity and divergence always, temperature for
// Primitive only, humidity only when the model carries moisture.
type PrognosticLayer struct {
	Vor   *Leapfrog
	Div   *Leapfrog
	Temp  *Leapfrog
	Humid *Leapfrog // nil for a dry core
}

func newPrognosticLayer(L int, wet, hasTemp bool) *PrognosticLayer {
	pl := &PrognosticLayer{
		Vor: NewLeapfrog(L),
		Div: NewLeapfrog(L),
	}
	if hasTemp {
		pl.Temp = NewLeapfrog(L)
	}
	if wet {
		pl.Humid = NewLeapfrog(L)
	}
	return pl
}

// PrognosticVariables is the packed triangular spectral state of the model:
// per-layer vorticity/divergence (plus temperature for Primitive, and
// humidity when the model carries moisture), plus the surface log-pressure
// state.
type PrognosticVariables struct {
	L, NLev int
	Wet     bool

	Layers []*PrognosticLayer
	Pres   *Leapfrog // log surface pressure; unused (nil) for Barotropic
}

// NewPrognosticVariables allocates the prognostic state for a model tier.
// hasTemp/hasPres are derived by the caller from the tier (see model.go);
// a Barotropic run never carries Temp or Pres leapfrog slots.
func NewPrognosticVariables(L, nlev int, wet, hasTemp, hasPres bool) *PrognosticVariables {
	v := &PrognosticVariables{L: L, NLev: nlev, Wet: wet}
	v.Layers = make([]*PrognosticLayer, nlev)
	for k := range v.Layers {
		v.Layers[k] = newPrognosticLayer(L, wet, hasTemp)
	}
	if hasPres {
		v.Pres = NewLeapfrog(L)
	}
	return v
}

// DiagnosticLayer is the grid-space and scratch state owned exclusively by
// one vertical layer during a single RHS evaluation. Every field here is
// overwritten each evaluation; none persists across steps.
type DiagnosticLayer struct {
	// Grid-space images of the prognostic state, restored by gridded!.
	U, V           []float64 // U = u*cos(phi), V = v*cos(phi)
	VorGrid        []float64
	DivGrid        []float64
	TempGrid       []float64
	HumidGrid      []float64 // unused for a dry core
	TempVirtGrid   []float64

	// General-purpose spectral/grid scratch, exclusive per layer.
	A, B         *Spectral
	AGrid, BGrid []float64

	// Psi, Phi are the streamfunction/velocity-potential scratch used by
	// Operators.UVFromVorDiv; allocated once here rather than per call.
	Psi, Phi *Spectral

	// Half-level vertical-flux scratch (step 4). SigmaTend and SigmaM are
	// kept as genuinely distinct arrays: the source aliases them by typo
	// (9's "Open questions"), and this is deliberately not reproduced.
	SigmaTend []float64
	SigmaM    []float64

	UVDLnP       []float64 // uv.grad(ln p_s) for this layer
	LnPVertAdv   []float64 // A_k*sigma_tend_above + B_k*sigma_tend_below

	Bernoulli     *Spectral
	BernoulliGrid []float64
	Geopot        *Spectral // layer geopotential, hydrostatically integrated
	GeopotGrid    []float64 // grid-space image of Geopot, written by geopotential!

	UCoslat, VCoslat []float64

	// Grid-space tendency accumulators (steps 6-8), transformed into the
	// spectral Tend fields below before the RHS evaluation returns.
	UTendGrid, VTendGrid       []float64
	TempTendGrid, HumidTendGrid []float64

	// Spectral tendencies written by this RHS evaluation; consumed by the
	// external time integrator.
	VorTend, DivTend, TempTend, HumidTend *Spectral
}

func newDiagnosticLayer(L int, n int, wet bool) *DiagnosticLayer {
	d := &DiagnosticLayer{
		U:             make([]float64, n),
		V:             make([]float64, n),
		VorGrid:       make([]float64, n),
		DivGrid:       make([]float64, n),
		TempGrid:      make([]float64, n),
		TempVirtGrid:  make([]float64, n),
		A:             NewSpectral(L),
		B:             NewSpectral(L),
		AGrid:         make([]float64, n),
		BGrid:         make([]float64, n),
		Psi:           NewSpectral(L),
		Phi:           NewSpectral(L),
		SigmaTend:     make([]float64, n),
		SigmaM:        make([]float64, n),
		UVDLnP:        make([]float64, n),
		LnPVertAdv:    make([]float64, n),
		Bernoulli:     NewSpectral(L),
		BernoulliGrid: make([]float64, n),
		Geopot:        NewSpectral(L),
		GeopotGrid:    make([]float64, n),
		UCoslat:       make([]float64, n),
		VCoslat:       make([]float64, n),
		UTendGrid:     make([]float64, n),
		VTendGrid:     make([]float64, n),
		TempTendGrid:  make([]float64, n),
		VorTend:       NewSpectral(L),
		DivTend:       NewSpectral(L),
		TempTend:      NewSpectral(L),
	}
	if wet {
		d.HumidGrid = make([]float64, n)
		d.HumidTendGrid = make([]float64, n)
		d.HumidTend = NewSpectral(L)
	}
	return d
}

// SurfaceDiagnostics is the vertical-mean and surface-pressure scratch
// shared by every layer during steps 2-4 of the tendency pipeline.
type SurfaceDiagnostics struct {
	PresGrid      []float64
	DPresDLonGrid []float64
	DPresDLatGrid []float64
	DPresDLon     *Spectral
	DPresDLat     *Spectral

	UMeanGrid   []float64
	VMeanGrid   []float64
	DivMeanGrid []float64
	DivMean     *Spectral

	PresTend     *Spectral
	PresTendGrid []float64
}

func newSurfaceDiagnostics(L, n int) *SurfaceDiagnostics {
	return &SurfaceDiagnostics{
		PresGrid:      make([]float64, n),
		DPresDLonGrid: make([]float64, n),
		DPresDLatGrid: make([]float64, n),
		DPresDLon:     NewSpectral(L),
		DPresDLat:     NewSpectral(L),
		UMeanGrid:     make([]float64, n),
		VMeanGrid:     make([]float64, n),
		DivMeanGrid:   make([]float64, n),
		DivMean:       NewSpectral(L),
		PresTend:      NewSpectral(L),
		PresTendGrid:  make([]float64, n),
	}
}

// DiagnosticVariables is the full scratch state for one RHS evaluation:
// per-layer grids/scratch plus the surface vertical-mean/pressure-tendency
// scratch. Allocated once at initialization, sized to the grid/truncation,
// and never reallocated during integration.
type DiagnosticVariables struct {
	Layers  []*DiagnosticLayer
	Surface *SurfaceDiagnostics
}

// NewDiagnosticVariables allocates the scratch state for a grid of n points
// per field, nlev layers, truncation L.
func NewDiagnosticVariables(grid *RingGrid, L, nlev int, wet bool) *DiagnosticVariables {
	d := &DiagnosticVariables{
		Layers:  make([]*DiagnosticLayer, nlev),
		Surface: newSurfaceDiagnostics(L, grid.N),
	}
	for k := range d.Layers {
		d.Layers[k] = newDiagnosticLayer(L, grid.N, wet)
	}
	return d
}
