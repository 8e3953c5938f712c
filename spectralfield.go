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
	"github.com/ctessum/sparse"
)

// Spectral is a packed triangular spherical-harmonic coefficient array of
// maximum degree L and order M<=L, holding an extra "tail" degree l=L+1
// per order m so that the epsilon-recurrence used by the differential
// operators can reference l+1 without branching. Storage is a dense
// (L+2)x(M+1) rectangle; entries with m>l are never written and always
// read as zero.
type Spectral struct {
	L, M   int
	Re, Im *sparse.DenseArray // shape (L+2, M+1)
}

// NewSpectral allocates a zeroed spectral field for a T_L truncation.
func NewSpectral(L int) *Spectral {
	return &Spectral{
		L:  L,
		M:  L,
		Re: sparse.ZerosDense(L+2, L+1),
		Im: sparse.ZerosDense(L+2, L+1),
	}
}

func (s *Spectral) inRange(l, m int) bool {
	return m >= 0 && m <= s.M && l >= m && l <= s.L+1
}

// At returns the coefficient at degree l, order m. Coefficients with m>l
// (or out of range) are defined to be zero.
func (s *Spectral) At(l, m int) complex128 {
	if !s.inRange(l, m) {
		return 0
	}
	return complex(s.Re.Get(l, m), s.Im.Get(l, m))
}

// Set overwrites the coefficient at (l, m). This writes Elements directly
// at the array's computed index rather than going through
// sparse.DenseArray.Set, which silently no-ops on a zero value (it is
// written for a sparse-array caller that wants to skip storing
// explicit zeros) — here, overwriting a genuinely non-zero coefficient
// back to exactly zero must actually happen.
func (s *Spectral) Set(l, m int, v complex128) {
	if !s.inRange(l, m) {
		return
	}
	s.Re.Elements[s.Re.Index1d(l, m)] = real(v)
	s.Im.Elements[s.Im.Index1d(l, m)] = imag(v)
}

// AddAt accumulates v into the coefficient at (l, m).
func (s *Spectral) AddAt(l, m int, v complex128) {
	if !s.inRange(l, m) {
		return
	}
	s.Re.AddVal(real(v), l, m)
	s.Im.AddVal(imag(v), l, m)
}

// Zero clears every coefficient.
func (s *Spectral) Zero() {
	for i := range s.Re.Elements {
		s.Re.Elements[i] = 0
	}
	for i := range s.Im.Elements {
		s.Im.Elements[i] = 0
	}
}

// CopyFrom overwrites s with a's coefficients. The two fields must share
// truncation.
func (s *Spectral) CopyFrom(a *Spectral) error {
	if s.L != a.L || s.M != a.M {
		return shapeErrorf("Spectral.CopyFrom", "truncation mismatch (%d,%d) vs (%d,%d)", s.L, s.M, a.L, a.M)
	}
	copy(s.Re.Elements, a.Re.Elements)
	copy(s.Im.Elements, a.Im.Elements)
	return nil
}

// Truncate zeroes the tail degree l=L+1 for every order, the policy that
// must run after every transform or operator whose recurrence can leave
// non-zero values there.
func (s *Spectral) Truncate() {
	for m := 0; m <= s.M; m++ {
		s.Set(s.L+1, m, 0)
	}
}

// FixRealDC forces the (l=0, m=0) coefficient to be purely real, the
// invariant required of every spectral scalar field.
func (s *Spectral) FixRealDC() {
	s.Set(0, 0, complex(real(s.At(0, 0)), 0))
}

// sameShape reports whether a and b share truncation, for operator bounds
// checks.
func sameShape(op string, a, b *Spectral) error {
	if a.L != b.L || a.M != b.M {
		return shapeErrorf(op, "truncation mismatch (%d,%d) vs (%d,%d)", a.L, a.M, b.L, b.M)
	}
	return nil
}

// writeOp is the accumulate/overwrite/flip-sign combinator shared by every
// spectral operator: target[l,m] = (add ? target[l,m] : 0) +/- value.
func writeOp(target *Spectral, l, m int, value complex128, add, flipsign bool) {
	if flipsign {
		value = -value
	}
	if add {
		target.AddAt(l, m, value)
	} else {
		target.Set(l, m, value)
	}
}
