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

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/floats"
)

// ModelTier selects which of the three supported dynamical-core variants a
// Model runs: this is a tagged variant chosen once at construction, not a
// per-timestep dispatch (see model.go).
type ModelTier int

const (
	Barotropic ModelTier = iota
	ShallowWater
	Primitive
)

func (t ModelTier) String() string {
	switch t {
	case Barotropic:
		return "barotropic"
	case ShallowWater:
		return "shallow_water"
	case Primitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// SpectralGridConfig describes the truncation and grid layout of a run.
type SpectralGridConfig struct {
	Trunc    int // triangular truncation L
	NlatHalf int // number of Gaussian rings in one hemisphere
	Kind     GridKind
}

// Validate checks that the grid is large enough to resolve Trunc.
func (c SpectralGridConfig) Validate() error {
	if c.Trunc < 1 {
		return configErrorf("Trunc", "truncation %d must be >= 1", c.Trunc)
	}
	nlat := 2 * c.NlatHalf
	minNlat := (3*c.Trunc + 1 + 1) / 2
	if nlat < minNlat {
		return configErrorf("NlatHalf", "2*NlatHalf=%d is too small for truncation T%d (need >= %d)", nlat, c.Trunc, minNlat)
	}
	return nil
}

// PlanetConstants describes the rotating sphere a model runs on.
type PlanetConstants struct {
	Gravity float64 // m/s^2
	Omega   float64 // rotation rate, rad/s
	Radius  float64 // m
}

// Validate checks that Gravity and Radius are strictly positive; Omega is
// not checked.
func (c PlanetConstants) Validate() error {
	if c.Gravity <= 0 {
		return configErrorf("Gravity", "must be > 0, got %g", c.Gravity)
	}
	if c.Radius <= 0 {
		return configErrorf("Radius", "must be > 0, got %g", c.Radius)
	}
	return nil
}

// EarthConstants are standard Earth values, provided as a convenient
// default for tests and the CLI.
var EarthConstants = PlanetConstants{
	Gravity: 9.81,
	Omega:   7.292e-5,
	Radius:  6.371e6,
}

// AtmosphereConstants describes the dry/moist gas constants of the working
// fluid. Kappa is derived (Rd/Cp), not independently configurable.
type AtmosphereConstants struct {
	Rd float64 // dry-air gas constant, J/(kg K)
	Rv float64 // water-vapor gas constant, J/(kg K)
	Cp float64 // specific heat at constant pressure, J/(kg K)
}

// Kappa returns Rd/Cp.
func (c AtmosphereConstants) Kappa() float64 {
	return c.Rd / c.Cp
}

// Validate checks the constants are physically sane.
func (c AtmosphereConstants) Validate() error {
	if c.Rd <= 0 {
		return configErrorf("Rd", "must be > 0, got %g", c.Rd)
	}
	if c.Cp <= 0 {
		return configErrorf("Cp", "must be > 0, got %g", c.Cp)
	}
	if c.Rv <= 0 {
		return configErrorf("Rv", "must be > 0, got %g", c.Rv)
	}
	return nil
}

// EarthAtmosphere are standard dry-Earth-atmosphere values.
var EarthAtmosphere = AtmosphereConstants{
	Rd: 287.0,
	Rv: 461.5,
	Cp: 1004.0,
}

// ModelConfig composes every descriptor needed to build a Model: spectral
// grid, planet and atmosphere constants, tier, vertical levels, and
// orography. It is the unit loaded from a TOML file or composed directly
// by a test.
type ModelConfig struct {
	Grid       SpectralGridConfig
	Planet     PlanetConstants
	Atmosphere AtmosphereConstants

	Tier      ModelTier
	NLev      int
	DrySigma  []float64
	DryCore   bool
	Orography OrographyConfig
	Relax     Relaxation
}

// Validate runs every component Validate method and additionally checks
// tier/NLev/DrySigma consistency. It must be called (and must succeed)
// before the first RHS evaluation.
func (c ModelConfig) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Planet.Validate(); err != nil {
		return err
	}
	if err := c.Atmosphere.Validate(); err != nil {
		return err
	}
	switch c.Tier {
	case Barotropic:
		if c.NLev != 1 {
			return configErrorf("NLev", "barotropic tier requires NLev=1, got %d", c.NLev)
		}
	case ShallowWater:
		if c.NLev != 1 {
			return configErrorf("NLev", "shallow-water tier requires NLev=1, got %d", c.NLev)
		}
	case Primitive:
		if c.NLev < 1 {
			return configErrorf("NLev", "primitive tier requires NLev >= 1, got %d", c.NLev)
		}
	default:
		return configErrorf("Tier", "unrecognized model tier %d", c.Tier)
	}
	if len(c.DrySigma) != c.NLev {
		return configErrorf("DrySigma", "has %d entries, want NLev=%d", len(c.DrySigma), c.NLev)
	}
	sum := floats.Sum(c.DrySigma)
	if math.Abs(sum-1) > 1e-10 {
		return configErrorf("DrySigma", "sigma thicknesses sum to %g, want 1", sum)
	}
	return nil
}

// LoadModelConfig decodes a TOML configuration file into a ModelConfig,
// following the same BurntSushi/toml decode-then-Validate shape the
// teacher's preprocessor configuration uses.
func LoadModelConfig(path string) (*ModelConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dyncore: loading configuration %s: %v", path, err)
	}
	defer f.Close()
	var cfg ModelConfig
	if _, err := toml.DecodeReader(f, &cfg); err != nil {
		return nil, fmt.Errorf("dyncore: decoding configuration %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
