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

package main

import (
	"fmt"
	"time"

	"github.com/ctessum/dyncore"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Cfg holds CLI configuration, the same shape as the teacher's
// inmaputil.Cfg: a *viper.Viper embedded for flag/file/env resolution,
// plus the cobra command tree it backs.
type Cfg struct {
	*viper.Viper

	Root, runCmd, infoCmd *cobra.Command
}

var cfg = initializeConfig()

// Root is the top-level command dyncore's main package executes.
var Root *cobra.Command

func initializeConfig() *Cfg {
	c := &Cfg{Viper: viper.New()}

	c.Root = &cobra.Command{
		Use:   "dyncore",
		Short: "A spectral-transform dynamical core.",
		Long: `dyncore builds and steps the spectral-transform dynamical core described
in this repository. The model configuration is read from the TOML file named
by --config, which both subcommands require; run additionally takes the
--steps and --dt flags.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(c)
		},
	}
	c.Root.PersistentFlags().String("config", "", "path to a TOML configuration file")

	c.infoCmd = &cobra.Command{
		Use:               "info",
		Short:             "Print the resolved model configuration without running it.",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.GetString("config")
			if path == "" {
				return fmt.Errorf("dyncore: info requires --config")
			}
			mc, err := dyncore.LoadModelConfig(path)
			if err != nil {
				return err
			}
			cmd.Printf("tier=%s trunc=%d nlev=%d dry=%v\n", mc.Tier, mc.Grid.Trunc, mc.NLev, mc.DryCore)
			return nil
		},
	}

	c.runCmd = &cobra.Command{
		Use:               "run",
		Short:             "Build a Model and step it, reporting per-step timing.",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.GetString("config")
			if path == "" {
				return fmt.Errorf("dyncore: run requires --config")
			}
			steps := c.GetInt("steps")
			mc, err := dyncore.LoadModelConfig(path)
			if err != nil {
				return err
			}
			m, err := dyncore.NewModel(*mc, logrus.StandardLogger())
			if err != nil {
				return err
			}
			integrator := holdingPatternIntegrator{dt: c.GetFloat64("dt")}
			lf, t := 1, 0.0
			for s := 0; s < steps; s++ {
				start := time.Now()
				if err := m.Evaluate(lf, t); err != nil {
					return err
				}
				lf, err = integrator.Step(m.Prog, m.Diag, lf, integrator.dt)
				if err != nil {
					return err
				}
				t += integrator.dt
				cmd.Printf("step %d: %s\n", s, time.Since(start))
			}
			return nil
		},
	}
	c.runCmd.Flags().Int("steps", 1, "number of RHS evaluations to run")
	c.runCmd.Flags().Float64("dt", 900, "time step, seconds (used only by the holding-pattern integrator)")

	c.Root.AddCommand(c.infoCmd, c.runCmd)
	c.BindPFlags(c.Root.PersistentFlags())
	c.BindPFlags(c.runCmd.Flags())

	Root = c.Root
	return c
}

func setConfig(c *Cfg) error {
	if cfgpath := c.GetString("config"); cfgpath != "" {
		c.SetConfigFile(cfgpath)
		if err := c.MergeInConfig(); err != nil {
			return fmt.Errorf("dyncore: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// holdingPatternIntegrator is the minimal TimeIntegrator wired into the CLI
// purely so the run path is exercisable end-to-end: it swaps the leapfrog
// index without applying any filter or semi-implicit correction. A real
// time integrator is an external collaborator (see model.go).
type holdingPatternIntegrator struct {
	dt float64
}

func (holdingPatternIntegrator) Step(prog *dyncore.PrognosticVariables, diag *dyncore.DiagnosticVariables, lf int, dt float64) (int, error) {
	if lf == 1 {
		return 2, nil
	}
	return 1, nil
}
