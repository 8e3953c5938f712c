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
	"github.com/sirupsen/logrus"
)

// TimeIntegrator advances the prognostic state one step given the
// tendencies most recently written by a TendencyEngine evaluation. A
// production implementation (leapfrog with a Robert-Asselin filter,
// semi-implicit gravity-wave correction, horizontal hyperdiffusion) is an
// external collaborator; the core depends only on this interface.
type TimeIntegrator interface {
	Step(prog *PrognosticVariables, diag *DiagnosticVariables, lf int, dt float64) (nextLF int, err error)
}

// InitialConditions populates a freshly allocated PrognosticVariables with
// a starting atmospheric state. Implementations are external collaborators
// (analytic test cases, a restart file reader, a balanced-state generator).
type InitialConditions interface {
	Initialize(prog *PrognosticVariables, grid *RingGrid) error
}

// OutputWriter receives snapshots of the prognostic (and selected
// diagnostic) state at scheduled steps. An external collaborator; the core
// never owns file formats or schedules.
type OutputWriter interface {
	Write(step int, t float64, prog *PrognosticVariables, diag *DiagnosticVariables) error
}

// Model composes a complete, ready-to-step dynamical core: the geometry,
// transform, operator, and tendency-engine tables for one model tier,
// built once at construction (a tagged variant, not a per-step dispatch:
// see 9's "Polymorphism across model tiers").
type Model struct {
	Config ModelConfig

	Grid      *RingGrid
	Sigma     *SigmaLevels
	Transform *SpectralTransform
	Ops       *Operators
	Boundary  *Boundaries
	Engine    *TendencyEngine

	Prog *PrognosticVariables
	Diag *DiagnosticVariables

	Log logrus.FieldLogger
}

// NewModel builds a Model from a validated ModelConfig. log defaults to
// logrus.StandardLogger() when nil.
func NewModel(cfg ModelConfig, log logrus.FieldLogger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	grid, err := NewRingGrid(cfg.Grid.Kind, 2*cfg.Grid.NlatHalf, cfg.Grid.Trunc, cfg.Planet.Omega)
	if err != nil {
		return nil, err
	}
	sigma, err := NewSigmaLevels(cfg.DrySigma)
	if err != nil {
		return nil, err
	}
	transform := NewSpectralTransform(grid, cfg.Grid.Trunc)
	ops := NewOperators(cfg.Grid.Trunc, cfg.Planet.Radius)

	var boundary *Boundaries
	switch cfg.Orography.Kind {
	case JablonowskiWilliamsonOrography:
		boundary, err = NewJablonowskiWilliamsonBoundaries(grid, cfg.Grid.Trunc, transform, cfg.Orography, cfg.Planet.Gravity)
	case FileOrography:
		boundary, err = NewFileBoundaries(grid, cfg.Grid.Trunc, transform, cfg.Orography, cfg.Planet.Gravity)
	default:
		boundary = NewZeroBoundaries(grid, cfg.Grid.Trunc)
	}
	if err != nil {
		return nil, err
	}

	wet := !cfg.DryCore
	hasTemp := cfg.Tier == Primitive
	hasPres := cfg.Tier != Barotropic
	prog := NewPrognosticVariables(cfg.Grid.Trunc, cfg.NLev, wet, hasTemp, hasPres)
	diag := NewDiagnosticVariables(grid, cfg.Grid.Trunc, cfg.NLev, wet)

	relax := cfg.Relax
	engine := NewTendencyEngine(grid, transform, ops, sigma, cfg.Planet, cfg.Atmosphere, cfg.Tier, wet, boundary, &relax, log)

	return &Model{
		Config: cfg, Grid: grid, Sigma: sigma, Transform: transform, Ops: ops,
		Boundary: boundary, Engine: engine, Prog: prog, Diag: diag, Log: log,
	}, nil
}

// Evaluate runs one RHS evaluation at the given leapfrog index and model
// time (seconds), writing tendencies into m.Diag.
func (m *Model) Evaluate(lf int, t float64) error {
	return m.Engine.Evaluate(m.Prog, m.Diag, lf, t)
}
