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
	"time"

	"github.com/sirupsen/logrus"
)

// TendencyEngine orchestrates one right-hand-side evaluation of the
// dynamical core: the strict sequence of gridded!, vertical-average,
// surface-pressure, vertical-velocity, vertical-advection, vorticity/
// divergence, temperature, humidity, and Bernoulli-potential steps (for the
// Primitive tier), or the reduced Barotropic/ShallowWater flows.
type TendencyEngine struct {
	Grid      *RingGrid
	Transform *SpectralTransform
	Ops       *Operators
	Sigma     *SigmaLevels
	Planet    PlanetConstants
	Atmos     AtmosphereConstants
	Tier      ModelTier
	Wet       bool
	DryCore   bool
	Boundary  *Boundaries
	Relax     *Relaxation

	Log logrus.FieldLogger

	// zeroDiv is a permanently-zero divergence field, allocated once, used
	// by the Barotropic tier's UVFromVorDiv call so no scratch is
	// allocated per RHS evaluation.
	zeroDiv *Spectral
}

// NewTendencyEngine builds the engine for a fixed truncation/grid/tier. Log
// defaults to logrus.StandardLogger() when nil, matching the teacher's
// eieio.Server convention.
func NewTendencyEngine(grid *RingGrid, transform *SpectralTransform, ops *Operators, sigma *SigmaLevels, planet PlanetConstants, atmos AtmosphereConstants, tier ModelTier, wet bool, boundary *Boundaries, relax *Relaxation, log logrus.FieldLogger) *TendencyEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TendencyEngine{
		Grid: grid, Transform: transform, Ops: ops, Sigma: sigma,
		Planet: planet, Atmos: atmos, Tier: tier, Wet: wet, DryCore: !wet,
		Boundary: boundary, Relax: relax, Log: log,
		zeroDiv: NewSpectral(ops.L),
	}
}

// Evaluate computes tendencies for leapfrog slot lf at model time t
// (seconds), writing into diag's spectral Tend/PresTend fields.
func (e *TendencyEngine) Evaluate(prog *PrognosticVariables, diag *DiagnosticVariables, lf int, t float64) error {
	start := time.Now()
	var err error
	switch e.Tier {
	case Barotropic:
		err = e.evaluateBarotropic(prog, diag, lf)
	case ShallowWater:
		err = e.evaluateShallowWater(prog, diag, lf, t)
	case Primitive:
		err = e.evaluatePrimitive(prog, diag, lf)
	default:
		return configErrorf("Tier", "unrecognized model tier %d", e.Tier)
	}
	e.Log.WithFields(logrus.Fields{
		"step":     lf,
		"tier":     e.Tier.String(),
		"walltime": time.Since(start),
	}).Debug("RHS evaluation")
	return err
}

// ---- Primitive-equation flow (4.3) ----

func (e *TendencyEngine) evaluatePrimitive(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	if err := e.gridded(prog, diag, lf); err != nil {
		return err
	}
	if err := e.geopotential(diag); err != nil {
		return err
	}
	if err := e.verticalAverages(prog, diag, lf); err != nil {
		return err
	}
	if err := e.surfacePressureTendency(prog, diag, lf); err != nil {
		return err
	}
	e.verticalVelocity(diag)
	e.verticalAdvection(diag)
	if err := e.vordivTendencies(prog, diag, lf); err != nil {
		return err
	}
	if err := e.temperatureTendency(prog, diag, lf); err != nil {
		return err
	}
	if e.Wet {
		if err := e.humidityTendency(prog, diag, lf); err != nil {
			return err
		}
	}
	return e.bernoulliPotential(diag)
}

// gridded restores grid-space fields from the current spectral state
// (step 1 of 4.3).
func (e *TendencyEngine) gridded(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	for k, pl := range prog.Layers {
		dl := diag.Layers[k]
		vor, div := pl.Vor.At(lf), pl.Div.At(lf)
		if err := e.Ops.UVFromVorDiv(vor, div, dl.A, dl.B, dl.Psi, dl.Phi); err != nil {
			return err
		}
		if err := e.Transform.Inverse(dl.A, dl.U); err != nil {
			return err
		}
		if err := e.Transform.Inverse(dl.B, dl.V); err != nil {
			return err
		}
		if err := e.Transform.Inverse(vor, dl.VorGrid); err != nil {
			return err
		}
		if err := e.Transform.Inverse(div, dl.DivGrid); err != nil {
			return err
		}
		if pl.Temp != nil {
			if err := e.Transform.Inverse(pl.Temp.At(lf), dl.TempGrid); err != nil {
				return err
			}
		}
		if e.Wet && pl.Humid != nil {
			if err := e.Transform.Inverse(pl.Humid.At(lf), dl.HumidGrid); err != nil {
				return err
			}
		}
		for i := range dl.TempGrid {
			if e.DryCore || !e.Wet {
				dl.TempVirtGrid[i] = dl.TempGrid[i]
			} else {
				dl.TempVirtGrid[i] = dl.TempGrid[i] * (1 + (e.Atmos.Rv/e.Atmos.Rd-1)*dl.HumidGrid[i])
			}
		}
	}
	if prog.Pres != nil {
		return e.Transform.Inverse(prog.Pres.At(lf), diag.Surface.PresGrid)
	}
	return nil
}

// geopotential hydrostatically integrates each layer's full-level
// geopotential bottom-up from the boundary's spectral surface geopotential
// Boundary.PhiS through the virtual-temperature profile gridded just wrote
// into TempVirtGrid. Uses the discrete hydrostatic finite-difference scheme
// of Simmons & Burridge (1981): within layer k the full-level correction is
// alpha_k = 1-(sigma_top_k/dsigma_k)*ln(sigma_bottom_k/sigma_top_k), except
// for the top layer, where sigma_top=0 makes that ratio singular and
// alpha_0 takes its limiting value of ln(2). Must run after gridded (needs
// TempVirtGrid) and before bernoulliPotential (step 9 of 4.3 adds Geopot
// into the Bernoulli potential).
func (e *TendencyEngine) geopotential(diag *DiagnosticVariables) error {
	n := e.Grid.N
	nlev := len(diag.Layers)
	Rd := e.Atmos.Rd
	below := make([]float64, n)
	if err := e.Transform.Inverse(e.Boundary.PhiS, below); err != nil {
		return err
	}
	sigmaBottom := 1.0
	for k := nlev - 1; k >= 0; k-- {
		dl := diag.Layers[k]
		dsig := e.Sigma.DSigma[k]
		sigmaTop := sigmaBottom - dsig
		var lnRatio, alpha float64
		if k == 0 {
			alpha = math.Ln2
		} else {
			lnRatio = math.Log(sigmaBottom / sigmaTop)
			alpha = 1 - (sigmaTop/dsig)*lnRatio
		}
		for i := 0; i < n; i++ {
			dl.GeopotGrid[i] = below[i] + Rd*dl.TempVirtGrid[i]*alpha
		}
		if err := e.Transform.Forward(dl.GeopotGrid, dl.Geopot); err != nil {
			return err
		}
		if k > 0 {
			for i := 0; i < n; i++ {
				below[i] += Rd * dl.TempVirtGrid[i] * lnRatio
			}
		}
		sigmaBottom = sigmaTop
	}
	return nil
}

// verticalAverages accumulates the vertical-mean U, V, D in grid space and
// the vertical-mean D in spectral space (step 2 of 4.3).
func (e *TendencyEngine) verticalAverages(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	if len(diag.Layers) != e.Sigma.NLev {
		return shapeErrorf("verticalAverages", "diag has %d layers, sigma levels has %d", len(diag.Layers), e.Sigma.NLev)
	}
	s := diag.Surface
	for i := range s.UMeanGrid {
		s.UMeanGrid[i] = 0
		s.VMeanGrid[i] = 0
		s.DivMeanGrid[i] = 0
	}
	s.DivMean.Zero()
	for k, dl := range diag.Layers {
		dsig := e.Sigma.DSigma[k]
		for i := range s.UMeanGrid {
			s.UMeanGrid[i] += dsig * dl.U[i]
			s.VMeanGrid[i] += dsig * dl.V[i]
			s.DivMeanGrid[i] += dsig * dl.DivGrid[i]
		}
		div := prog.Layers[k].Div.At(lf)
		for m := 0; m <= div.M; m++ {
			for l := m; l <= div.L; l++ {
				s.DivMean.AddAt(l, m, complex(dsig, 0)*div.At(l, m))
			}
		}
	}
	return nil
}

// surfacePressureTendency computes pres_tend and forces its (0,0) mode to
// zero for mass conservation (step 3 of 4.3; invariant 4/6).
func (e *TendencyEngine) surfacePressureTendency(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	s := diag.Surface
	if err := e.Ops.Gradient(prog.Pres.At(lf), s.DPresDLon, s.DPresDLat, false, false); err != nil {
		return err
	}
	if err := e.Transform.Inverse(s.DPresDLon, s.DPresDLonGrid); err != nil {
		return err
	}
	if err := e.Transform.Inverse(s.DPresDLat, s.DPresDLatGrid); err != nil {
		return err
	}
	if err := e.Grid.EachRing([][]float64{s.PresTendGrid, s.UMeanGrid, s.VMeanGrid, s.DPresDLonGrid, s.DPresDLatGrid}, func(j, start, n int) {
		invCosLat := 0.0
		if e.Grid.CosLat[j] > 0 {
			invCosLat = 1 / e.Grid.CosLat[j]
		}
		for i := start; i < start+n; i++ {
			s.PresTendGrid[i] = -(s.UMeanGrid[i]*s.DPresDLonGrid[i] + s.VMeanGrid[i]*s.DPresDLatGrid[i]) * invCosLat
		}
	}); err != nil {
		return err
	}
	if err := e.Transform.Forward(s.PresTendGrid, s.PresTend); err != nil {
		return err
	}
	for m := 0; m <= s.PresTend.M; m++ {
		for l := m; l <= s.PresTend.L; l++ {
			s.PresTend.AddAt(l, m, -s.DivMean.At(l, m))
		}
	}
	s.PresTend.Set(0, 0, 0)
	return nil
}

// verticalVelocity computes the half-level sigma_tend/sigma_m flux by
// top-to-bottom recursion (step 4 of 4.3; invariant 9). Boundary half
// levels (top of layer 0, bottom of the last layer) are left at zero.
func (e *TendencyEngine) verticalVelocity(diag *DiagnosticVariables) {
	s := diag.Surface
	n := e.Grid.N
	above := make([]float64, n)
	aboveM := make([]float64, n)
	nlev := len(diag.Layers)
	for k, dl := range diag.Layers {
		dsig := e.Sigma.DSigma[k]
		for i := 0; i < n; i++ {
			dl.UVDLnP[i] = (dl.U[i]-s.UMeanGrid[i])*s.DPresDLonGrid[i] + (dl.V[i]-s.VMeanGrid[i])*s.DPresDLatGrid[i]
		}
		if k == nlev-1 {
			for i := range dl.SigmaTend {
				dl.SigmaTend[i] = 0
				dl.SigmaM[i] = 0
			}
		} else {
			for i := 0; i < n; i++ {
				dl.SigmaTend[i] = above[i] - dsig*(dl.UVDLnP[i]+dl.DivGrid[i]-s.DivMeanGrid[i])
				dl.SigmaM[i] = aboveM[i] - dsig*dl.UVDLnP[i]
			}
		}
		copy(above, dl.SigmaTend)
		copy(aboveM, dl.SigmaM)
	}
}

// verticalAdvection computes the centered vertical advection of U, V, T,
// (q) using the half-level flux computed by verticalVelocity (step 5 of
// 4.3). The vertical neighbor index saturates at the column boundaries
// rather than wrapping, per the target-implementation recommendation in 9.
func (e *TendencyEngine) verticalAdvection(diag *DiagnosticVariables) {
	nlev := len(diag.Layers)
	n := e.Grid.N
	R := e.Planet.Radius
	for k, dl := range diag.Layers {
		aboveIdx, belowIdx := k-1, k+1
		if aboveIdx < 0 {
			aboveIdx = 0
		}
		if belowIdx > nlev-1 {
			belowIdx = nlev - 1
		}
		var aboveFlux []float64
		if k == 0 {
			aboveFlux = make([]float64, n) // zero, top half-level
		} else {
			aboveFlux = diag.Layers[k-1].SigmaTend
		}
		belowFlux := dl.SigmaTend // zero at k==nlev-1, by construction
		halfInvDSig := 0.5 * R / e.Sigma.DSigma[k]

		for i := 0; i < n; i++ {
			dl.UTendGrid[i] = 0
			dl.VTendGrid[i] = 0
			dl.TempTendGrid[i] = 0
			if e.Wet {
				dl.HumidTendGrid[i] = 0
			}
		}
		advect := func(x, xAbove, xBelow []float64, accum []float64) {
			for i := 0; i < n; i++ {
				accum[i] += halfInvDSig * (aboveFlux[i]*(x[i]-xAbove[i]) + belowFlux[i]*(xBelow[i]-x[i]))
			}
		}
		advect(dl.U, diag.Layers[aboveIdx].U, diag.Layers[belowIdx].U, dl.UTendGrid)
		advect(dl.V, diag.Layers[aboveIdx].V, diag.Layers[belowIdx].V, dl.VTendGrid)
		advect(dl.TempGrid, diag.Layers[aboveIdx].TempGrid, diag.Layers[belowIdx].TempGrid, dl.TempTendGrid)
		if e.Wet {
			advect(dl.HumidGrid, diag.Layers[aboveIdx].HumidGrid, diag.Layers[belowIdx].HumidGrid, dl.HumidTendGrid)
		}
		for i := 0; i < n; i++ {
			dl.LnPVertAdv[i] = e.Sigma.A[k]*aboveFlux[i] + e.Sigma.B[k]*belowFlux[i]
		}
	}
}

// vordivTendencies computes the grid-space (u,v) tendency from the
// vorticity/Coriolis flux and the pressure-gradient force, transforms it,
// and splits it into vor_tend/div_tend via curl/div (step 6 of 4.3).
func (e *TendencyEngine) vordivTendencies(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	s := diag.Surface
	Rd := e.Atmos.Rd
	for _, dl := range diag.Layers {
		dl.VorTend.Zero()
		dl.DivTend.Zero()
		if err := e.Grid.EachRing([][]float64{dl.UTendGrid, dl.VTendGrid}, func(j, start, n int) {
			f := e.Grid.Coriolis[j]
			cosInv2 := e.Grid.CosLatInv2[j]
			for i := start; i < start+n; i++ {
				zeta := dl.VorGrid[i] + f
				dl.UTendGrid[i] += (dl.V[i]*zeta - Rd*dl.TempVirtGrid[i]*s.DPresDLonGrid[i]) * cosInv2
				dl.VTendGrid[i] += (-dl.U[i]*zeta - Rd*dl.TempVirtGrid[i]*s.DPresDLatGrid[i]) * cosInv2
			}
		}); err != nil {
			return err
		}
		if err := e.Transform.Forward(dl.UTendGrid, dl.A); err != nil {
			return err
		}
		if err := e.Transform.Forward(dl.VTendGrid, dl.B); err != nil {
			return err
		}
		if err := e.Ops.DivergenceCurl(dl.A, dl.B, dl.DivTend, dl.VorTend, true, false); err != nil {
			return err
		}
	}
	return nil
}

// temperatureTendency adds the thermodynamic source term and the flux
// divergence of (u,v)T (step 7 of 4.3).
func (e *TendencyEngine) temperatureTendency(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	s := diag.Surface
	kappa := e.Atmos.Kappa()
	for _, dl := range diag.Layers {
		for i := range dl.TempTendGrid {
			dl.TempTendGrid[i] += dl.TempGrid[i]*dl.DivGrid[i] + kappa*dl.TempVirtGrid[i]*(dl.UVDLnP[i]-s.DivMeanGrid[i]+dl.LnPVertAdv[i])
		}
		if err := e.Transform.Forward(dl.TempTendGrid, dl.TempTend); err != nil {
			return err
		}
		if err := e.fluxDivergence(dl, dl.TempGrid, dl.TempTend); err != nil {
			return err
		}
	}
	return nil
}

// humidityTendency mirrors temperatureTendency for specific humidity
// (step 8 of 4.3); skipped entirely for a dry core.
func (e *TendencyEngine) humidityTendency(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	for _, dl := range diag.Layers {
		for i := range dl.HumidTendGrid {
			dl.HumidTendGrid[i] += dl.HumidGrid[i] * dl.DivGrid[i]
		}
		if err := e.Transform.Forward(dl.HumidTendGrid, dl.HumidTend); err != nil {
			return err
		}
		if err := e.fluxDivergence(dl, dl.HumidGrid, dl.HumidTend); err != nil {
			return err
		}
	}
	return nil
}

// bernoulliPotential adds -Laplacian(B) into div_tend, where
// B = 1/2(u^2+v^2)/cos^2(phi) + geopotential (step 9 of 4.3).
func (e *TendencyEngine) bernoulliPotential(diag *DiagnosticVariables) error {
	for _, dl := range diag.Layers {
		if err := e.Grid.EachRing([][]float64{dl.BernoulliGrid}, func(j, start, n int) {
			cosInv2 := e.Grid.CosLatInv2[j]
			for i := start; i < start+n; i++ {
				dl.BernoulliGrid[i] = 0.5 * (dl.U[i]*dl.U[i] + dl.V[i]*dl.V[i]) * cosInv2
			}
		}); err != nil {
			return err
		}
		if err := e.Transform.Forward(dl.BernoulliGrid, dl.Bernoulli); err != nil {
			return err
		}
		for m := 0; m <= dl.Bernoulli.M; m++ {
			for l := m; l <= dl.Bernoulli.L; l++ {
				dl.Bernoulli.AddAt(l, m, dl.Geopot.At(l, m))
			}
		}
		if err := e.Ops.Laplacian(dl.Bernoulli, dl.DivTend, true, true); err != nil {
			return err
		}
	}
	return nil
}

// fluxDivergence implements 4.5: -div((u,v)*A), accumulated with
// add=true, flipsign=true into target. a_grid/b_grid (the layer's general
// scratch) are clobbered; aGrid, the caller's A field, is read-only.
func (e *TendencyEngine) fluxDivergence(dl *DiagnosticLayer, aGrid []float64, target *Spectral) error {
	if err := e.Grid.EachRing([][]float64{dl.AGrid, dl.BGrid, aGrid}, func(j, start, n int) {
		cosInv2 := e.Grid.CosLatInv2[j]
		for i := start; i < start+n; i++ {
			scaled := aGrid[i] * cosInv2
			dl.AGrid[i] = dl.U[i] * scaled
			dl.BGrid[i] = dl.V[i] * scaled
		}
	}); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.AGrid, dl.A); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.BGrid, dl.B); err != nil {
		return err
	}
	return e.Ops.DivergenceCurl(dl.A, dl.B, target, nil, true, true)
}

// ---- Reduced tiers (4.4) ----

// evaluateBarotropic implements the single-layer vorticity-only flow: the
// flux divergence of the absolute-vorticity flux is the only tendency.
func (e *TendencyEngine) evaluateBarotropic(prog *PrognosticVariables, diag *DiagnosticVariables, lf int) error {
	pl := prog.Layers[0]
	dl := diag.Layers[0]
	vor := pl.Vor.At(lf)
	if err := e.Ops.UVFromVorDiv(vor, e.zeroDiv, dl.A, dl.B, dl.Psi, dl.Phi); err != nil {
		return err
	}
	if err := e.Transform.Inverse(dl.A, dl.U); err != nil {
		return err
	}
	if err := e.Transform.Inverse(dl.B, dl.V); err != nil {
		return err
	}
	if err := e.Transform.Inverse(vor, dl.VorGrid); err != nil {
		return err
	}
	if err := e.Grid.EachRing([][]float64{dl.AGrid, dl.BGrid}, func(j, start, n int) {
		f := e.Grid.Coriolis[j]
		cosInv2 := e.Grid.CosLatInv2[j]
		for i := start; i < start+n; i++ {
			omega := (dl.VorGrid[i] + f) * cosInv2
			dl.AGrid[i] = dl.U[i] * omega
			dl.BGrid[i] = dl.V[i] * omega
		}
	}); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.AGrid, dl.A); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.BGrid, dl.B); err != nil {
		return err
	}
	dl.VorTend.Zero()
	return e.Ops.DivergenceCurl(dl.A, dl.B, dl.VorTend, nil, true, true)
}

// evaluateShallowWater implements the single-layer vorticity+divergence+
// interface flow of 4.4, including the optional interface relaxation.
func (e *TendencyEngine) evaluateShallowWater(prog *PrognosticVariables, diag *DiagnosticVariables, lf int, t float64) error {
	pl := prog.Layers[0]
	dl := diag.Layers[0]
	vor, div := pl.Vor.At(lf), pl.Div.At(lf)
	if err := e.Ops.UVFromVorDiv(vor, div, dl.A, dl.B, dl.Psi, dl.Phi); err != nil {
		return err
	}
	if err := e.Transform.Inverse(dl.A, dl.U); err != nil {
		return err
	}
	if err := e.Transform.Inverse(dl.B, dl.V); err != nil {
		return err
	}
	if err := e.Transform.Inverse(vor, dl.VorGrid); err != nil {
		return err
	}
	eta := prog.Pres.At(lf) // interface displacement, reusing the surface slot
	etaGrid := diag.Surface.PresGrid
	if err := e.Transform.Inverse(eta, etaGrid); err != nil {
		return err
	}

	g := e.Planet.Gravity
	if err := e.Grid.EachRing([][]float64{dl.AGrid, dl.BGrid, dl.BernoulliGrid}, func(j, start, n int) {
		f := e.Grid.Coriolis[j]
		cosInv2 := e.Grid.CosLatInv2[j]
		for i := start; i < start+n; i++ {
			omega := (dl.VorGrid[i] + f) * cosInv2
			dl.AGrid[i] = dl.U[i] * omega
			dl.BGrid[i] = dl.V[i] * omega
			dl.BernoulliGrid[i] = 0.5*(dl.U[i]*dl.U[i]+dl.V[i]*dl.V[i])*cosInv2 + g*etaGrid[i]
		}
	}); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.AGrid, dl.A); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.BGrid, dl.B); err != nil {
		return err
	}
	// vor_tend = -div(u*omega, v*omega), the same flux-divergence form as
	// the Barotropic tier; div_tend takes the curl of the same flux (4.4).
	dl.VorTend.Zero()
	if err := e.Ops.DivergenceCurl(dl.A, dl.B, dl.VorTend, nil, true, true); err != nil {
		return err
	}
	dl.DivTend.Zero()
	if err := e.Ops.DivergenceCurl(dl.A, dl.B, nil, dl.DivTend, true, false); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.BernoulliGrid, dl.Bernoulli); err != nil {
		return err
	}
	if err := e.Ops.Laplacian(dl.Bernoulli, dl.DivTend, true, true); err != nil {
		return err
	}

	orog := e.Boundary.OrographyGrid
	h0 := e.Boundary.ReferenceDepth
	if err := e.Grid.EachRing([][]float64{dl.AGrid, dl.BGrid}, func(j, start, n int) {
		invCosLat := 0.0
		if e.Grid.CosLat[j] > 0 {
			invCosLat = 1 / e.Grid.CosLat[j]
		}
		for i := start; i < start+n; i++ {
			h := etaGrid[i] + h0 - orog[i]
			dl.AGrid[i] = dl.U[i] * h * invCosLat
			dl.BGrid[i] = dl.V[i] * h * invCosLat
		}
	}); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.AGrid, dl.A); err != nil {
		return err
	}
	if err := e.Transform.Forward(dl.BGrid, dl.B); err != nil {
		return err
	}
	diag.Surface.PresTend.Zero()
	if err := e.Ops.DivergenceCurl(dl.A, dl.B, diag.Surface.PresTend, nil, true, true); err != nil {
		return err
	}
	if e.Relax != nil {
		e.Relax.Apply(diag.Surface.PresTend, eta, t)
	}
	return nil
}
