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

// Package dyncore implements the dynamical core of a global spectral-transform
// atmospheric model: the spherical-harmonic transform, the spectral
// differential operators, and the per-timestep tendency pipeline shared by
// the barotropic vorticity, shallow-water, and primitive-equation model
// tiers. Time integration, physics parameterizations, initial conditions,
// and output are the responsibility of collaborators injected through the
// interfaces in model.go.
package dyncore
