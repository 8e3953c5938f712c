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

// Operators holds the precomputed epsilon-recurrence table shared by every
// spectral differential operator for a truncation L and a planet radius R.
// It owns no per-call scratch: every operator writes directly into the
// caller-supplied target, combined through add/flipsign the same way
// writeOp composes in spectralfield.go.
type Operators struct {
	L int
	R float64

	eps *epsilonTable
}

// NewOperators builds the differential-operator table for truncation L on a
// sphere of radius R. Use R=1 for non-dimensional runs.
func NewOperators(L int, R float64) *Operators {
	return &Operators{L: L, R: R, eps: newEpsilonTable(L)}
}

// gradLambdaAt returns i*m*F_l^m, the zonal derivative at a single (l, m).
func gradLambdaAt(f *Spectral, l, m int) complex128 {
	return complex(0, float64(m)) * f.At(l, m)
}

// gradPhiAt returns (l-1)*eps_l^m*F_{l-1}^m - (l+2)*eps_{l+1}^m*F_{l+1}^m,
// the banded meridional-derivative recurrence of 4.2. F's tail row l=L+1 is
// read as zero by Spectral.At whenever l+1 exceeds L+1, and any genuine
// tail-row content is always zero because every operator truncates its
// output before returning.
func gradPhiAt(eps *epsilonTable, f *Spectral, l, m int) complex128 {
	var term1, term2 complex128
	if l-1 >= m {
		term1 = complex(float64(l-1)*eps.at(l, m), 0) * f.At(l-1, m)
	}
	term2 = complex(float64(l+2)*eps.at(l+1, m), 0) * f.At(l+1, m)
	return term1 - term2
}

// Gradient computes the spectral gradient of scalar field f, writing the
// zonal derivative into dLambda and the meridional derivative into dPhi
// (both composed via add/flipsign, per writeOp). dPhi's recurrence already
// carries the cos(phi) factor that UVFromVorDiv relies on, matching the
// convention implied by 4.2's (U,V) formulas.
func (o *Operators) Gradient(f, dLambda, dPhi *Spectral, add, flipsign bool) error {
	if err := sameShape("Gradient", f, dLambda); err != nil {
		return err
	}
	if err := sameShape("Gradient", f, dPhi); err != nil {
		return err
	}
	for m := 0; m <= f.M; m++ {
		for l := m; l <= f.L; l++ {
			writeOp(dLambda, l, m, gradLambdaAt(f, l, m), add, flipsign)
			writeOp(dPhi, l, m, gradPhiAt(o.eps, f, l, m), add, flipsign)
		}
	}
	dLambda.Truncate()
	dPhi.Truncate()
	return nil
}

// DivergenceCurl computes D = div(u,v) and zeta = curl(u,v) from the
// spectral vector (U,V) = (u*cos(phi), v*cos(phi)), using the same
// epsilon-recurrence as Gradient with the planet radius folded in.
func (o *Operators) DivergenceCurl(u, v, div, curl *Spectral, add, flipsign bool) error {
	if err := sameShape("DivergenceCurl", u, v); err != nil {
		return err
	}
	if div != nil {
		if err := sameShape("DivergenceCurl", u, div); err != nil {
			return err
		}
	}
	if curl != nil {
		if err := sameShape("DivergenceCurl", u, curl); err != nil {
			return err
		}
	}
	invR := complex(1/o.R, 0)
	for m := 0; m <= u.M; m++ {
		for l := m; l <= u.L; l++ {
			if div != nil {
				d := invR * (gradLambdaAt(u, l, m) + gradPhiAt(o.eps, v, l, m))
				writeOp(div, l, m, d, add, flipsign)
			}
			if curl != nil {
				c := invR * (gradLambdaAt(v, l, m) - gradPhiAt(o.eps, u, l, m))
				writeOp(curl, l, m, c, add, flipsign)
			}
		}
	}
	if div != nil {
		div.Truncate()
	}
	if curl != nil {
		curl.Truncate()
	}
	return nil
}

// Laplacian multiplies f by -l(l+1)/R^2, writing into out (add/flipsign
// composable).
func (o *Operators) Laplacian(f, out *Spectral, add, flipsign bool) error {
	if err := sameShape("Laplacian", f, out); err != nil {
		return err
	}
	r2 := o.R * o.R
	for m := 0; m <= f.M; m++ {
		for l := m; l <= f.L; l++ {
			scale := -float64(l*(l+1)) / r2
			writeOp(out, l, m, complex(scale, 0)*f.At(l, m), add, flipsign)
		}
	}
	out.Truncate()
	return nil
}

// InverseLaplacian multiplies f by -R^2/(l(l+1)), writing into out
// (add/flipsign composable). The (l=0,m=0) entry is always fixed to zero,
// the arbitrary additive constant of the inversion.
func (o *Operators) InverseLaplacian(f, out *Spectral, add, flipsign bool) error {
	if err := sameShape("InverseLaplacian", f, out); err != nil {
		return err
	}
	r2 := o.R * o.R
	for m := 0; m <= f.M; m++ {
		for l := m; l <= f.L; l++ {
			if l == 0 && m == 0 {
				writeOp(out, l, m, 0, false, false)
				continue
			}
			scale := -r2 / float64(l*(l+1))
			writeOp(out, l, m, complex(scale, 0)*f.At(l, m), add, flipsign)
		}
	}
	out.Truncate()
	out.Set(0, 0, 0)
	return nil
}

// UVFromVorDiv recovers the spectral vector (U,V) = (u*cos(phi), v*cos(phi))
// from vorticity and divergence via the streamfunction/velocity-potential
// inversion of 4.2: Laplacian(psi) = vor, Laplacian(phi) = div, then
// U = -gradPhi(psi) + gradLambda(phi), V = gradPhi(phi) + gradLambda(psi).
// The (l=0,m=0) mode of psi and phi (and hence of U, V) is the inversion's
// arbitrary constant and is fixed to zero. psi and phi are caller-owned
// scratch (same truncation as vor/div): Operators itself allocates nothing
// per call, so the caller is expected to supply buffers allocated once at
// initialization (see DiagnosticLayer.Psi/Phi in state.go).
func (o *Operators) UVFromVorDiv(vor, div, u, v, psi, phi *Spectral) error {
	if err := sameShape("UVFromVorDiv", vor, div); err != nil {
		return err
	}
	if err := sameShape("UVFromVorDiv", vor, u); err != nil {
		return err
	}
	if err := sameShape("UVFromVorDiv", vor, v); err != nil {
		return err
	}
	if err := sameShape("UVFromVorDiv", vor, psi); err != nil {
		return err
	}
	if err := sameShape("UVFromVorDiv", vor, phi); err != nil {
		return err
	}
	if err := o.InverseLaplacian(vor, psi, false, false); err != nil {
		return err
	}
	if err := o.InverseLaplacian(div, phi, false, false); err != nil {
		return err
	}
	u.Zero()
	v.Zero()
	for m := 0; m <= vor.M; m++ {
		for l := m; l <= vor.L; l++ {
			uVal := -gradPhiAt(o.eps, psi, l, m) + gradLambdaAt(phi, l, m)
			vVal := gradPhiAt(o.eps, phi, l, m) + gradLambdaAt(psi, l, m)
			u.Set(l, m, uVal)
			v.Set(l, m, vVal)
		}
	}
	u.Truncate()
	v.Truncate()
	u.Set(0, 0, 0)
	v.Set(0, 0, 0)
	return nil
}
