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

	"github.com/ctessum/sparse"
)

// epsilonTable holds epsilon_l^m = sqrt((l^2-m^2)/(4l^2-1)) for 0<=m<=l<=L+1,
// and its reciprocal (0 where the numerator vanishes), shared by the
// meridional-derivative recurrence and the Legendre-table recurrence.
type epsilonTable struct {
	L       int
	Eps     *sparse.DenseArray // shape (L+2, M+1)
	EpsInv  *sparse.DenseArray // shape (L+2, M+1)
}

func newEpsilonTable(L int) *epsilonTable {
	t := &epsilonTable{
		L:      L,
		Eps:    sparse.ZerosDense(L+2, L+1),
		EpsInv: sparse.ZerosDense(L+2, L+1),
	}
	for m := 0; m <= L; m++ {
		for l := m; l <= L+1; l++ {
			var e float64
			if l > 0 {
				e = math.Sqrt(float64(l*l-m*m) / float64(4*l*l-1))
			}
			t.Eps.Set(e, l, m)
			if e != 0 {
				t.EpsInv.Set(1/e, l, m)
			}
		}
	}
	return t
}

func (t *epsilonTable) at(l, m int) float64 {
	if m < 0 || m > t.L || l < m || l > t.L+1 {
		return 0
	}
	return t.Eps.Get(l, m)
}

// legendreTable holds the normalized associated Legendre polynomials
// P_l^m(sin(phi_j)) for the Northern-hemisphere rings of a grid, for
// 0<=m<=l<=L+1. Southern values are obtained by parity:
// P_l^m(-x) = (-1)^(l+m) P_l^m(x).
type legendreTable struct {
	L      int
	NNorth int
	P      *sparse.DenseArray // shape (NNorth, L+2, M+1)
}

func newLegendreTable(L int, sinLatNorth []float64, eps *epsilonTable) *legendreTable {
	nNorth := len(sinLatNorth)
	t := &legendreTable{
		L:      L,
		NNorth: nNorth,
		P:      sparse.ZerosDense(nNorth, L+2, L+1),
	}
	for j, x := range sinLatNorth {
		cosLat := math.Sqrt(max0(1 - x*x))
		// P_0^0, orthonormal over [-1, 1].
		pmm := math.Sqrt(0.5)
		t.P.Set(pmm, j, 0, 0)
		for m := 1; m <= L; m++ {
			pmm *= -math.Sqrt(1+1/(2*float64(m))) * cosLat
			// The sign convention (Condon-Shortley phase) is immaterial
			// because it cancels in every product the transform forms;
			// only the magnitude and recurrence relation matter here.
			pmm = math.Abs(pmm)
			t.P.Set(pmm, j, m, m)
		}
		for m := 0; m <= L; m++ {
			if m+1 <= L+1 {
				pmm := t.P.Get(j, m, m)
				pm1 := math.Sqrt(float64(2*m+3)) * x * pmm
				t.P.Set(pm1, j, m+1, m)
			}
			for l := m + 2; l <= L+1; l++ {
				pPrev1 := t.P.Get(j, l-1, m)
				pPrev2 := t.P.Get(j, l-2, m)
				e := eps.at(l, m)
				ePrev := eps.at(l-1, m)
				var p float64
				if e != 0 {
					p = (x*pPrev1 - ePrev*pPrev2) / e
				}
				t.P.Set(p, j, l, m)
			}
		}
	}
	return t
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// at returns P_l^m(sin(phi)) at Northern ring j (0<=j<NNorth).
func (t *legendreTable) at(j, l, m int) float64 {
	if m < 0 || m > t.L || l < m || l > t.L+1 {
		return 0
	}
	return t.P.Get(j, l, m)
}
