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

import "math"

// interfaceConversion is the empirical 45/23.5 factor converting a tropic-
// of-cancer latitude ratio into the amplitude of the (l=1) and (l=2),
// m=0 Legendre modes used by the interface-relaxation target.
const interfaceConversion = 45.0 / 23.5

// Relaxation configures the shallow-water interface relaxation of 4.6: a
// seasonal target interface height nudged into pres_tend at two low-order
// zonal modes only.
type Relaxation struct {
	Seasonal    bool
	EquinoxDays float64 // t_eq, days
	TropicLat   float64 // phi_T, radians
	Amplitude   float64 // A
	Tau         float64 // relaxation timescale, seconds
}

// Apply adds tau^-1*(target-current) into presTend at the (l=1,m=0) and
// (l=2,m=0) modes, where current is the interface-height field's present
// spectral state (the prognostic surface field being relaxed) and t is the
// model time in seconds.
func (r *Relaxation) Apply(presTend, current *Spectral, t float64) {
	if r.Tau <= 0 {
		return
	}
	theta := 0.0
	if r.Seasonal {
		theta = interfaceConversion * r.TropicLat * math.Sin(2*math.Pi*(t/86400-r.EquinoxDays)/365.25)
	}
	eta2 := r.Amplitude * 2 * math.Sin(theta)
	eta3 := r.Amplitude * (0.2 - 1.5*math.Cos(theta))

	invTau := complex(1/r.Tau, 0)
	current2 := current.At(1, 0)
	current3 := current.At(2, 0)
	presTend.AddAt(1, 0, invTau*(complex(eta2, 0)-current2))
	presTend.AddAt(2, 0, invTau*(complex(eta3, 0)-current3))
}
