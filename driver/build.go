// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"math"
	"math/rand"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/collide"
	"github.com/cpmech/marsdisk/config"
	"github.com/cpmech/marsdisk/grid"
	"github.com/cpmech/marsdisk/phase"
	"github.com/cpmech/marsdisk/radiation"
	"github.com/cpmech/marsdisk/sublim"
	"github.com/cpmech/marsdisk/supply"
)

// buildGrid constructs the shared size grid from config.Grid (spec §4.1).
func buildGrid(cfg *config.Config) (*grid.Grid, error) {
	return grid.MakeGrid(cfg.Grid.SMin, cfg.Grid.SMax, cfg.Grid.K, cfg.Grid.Rho)
}

// cellWeights returns the initial PSD mass-weight vector for cell idx.
// When cfg.Cells does not supply one explicitly it draws a lognormal
// mixture seeded from rng_seed+idx if rng_seed is nonzero, and
// otherwise falls back to a single-bin weight at s_min (spec §4.1: "implementation is free so long as"
// the mass/Σ_surf normalisation invariant holds, P12).
func cellWeights(cfg *config.Config, g *grid.Grid, idx int) []float64 {
	if idx < len(cfg.Cells.InitialWeights) && len(cfg.Cells.InitialWeights[idx]) == g.K {
		return cfg.Cells.InitialWeights[idx]
	}
	if cfg.Dynamics.RngSeed != 0 {
		rng := rand.New(rand.NewSource(cfg.Dynamics.RngSeed + int64(idx)))
		return lognormalMixtureWeights(rng, g)
	}
	w := make([]float64, g.K)
	w[0] = 1.0
	return w
}

// lognormalMixtureWeights draws a two-component lognormal-mixture
// initial PSD (a small-grain background population plus a coarser
// debris population, spec §9 "implementation is free" on initial
// conditions), jittering the mixture fraction per cell from rng so
// that cells seeded independently do not share an identical initial
// PSD shape, while remaining fully reproducible given rng_seed.
func lognormalMixtureWeights(rng *rand.Rand, g *grid.Grid) []float64 {
	mu1, sigma1 := math.Log(3*g.Edges[0]), 0.4
	mu2, sigma2 := math.Log(g.Cent[g.K/2]), 0.6
	frac := 0.7 + 0.1*(2*rng.Float64()-1)
	w := make([]float64, g.K)
	total := 0.0
	for k, s := range g.Cent {
		x := math.Log(s)
		p1 := math.Exp(-0.5*math.Pow((x-mu1)/sigma1, 2)) / sigma1
		p2 := math.Exp(-0.5*math.Pow((x-mu2)/sigma2, 2)) / sigma2
		w[k] = frac*p1 + (1-frac)*p2
		total += w[k]
	}
	if total > 0 {
		for k := range w {
			w[k] /= total
		}
	}
	return w
}

func buildCells(cfg *config.Config, g *grid.Grid) ([]*grid.CellState, error) {
	n := len(cfg.Cells.R)
	cells := make([]*grid.CellState, n)
	for i := 0; i < n; i++ {
		w := cellWeights(cfg, g, i)
		c, err := grid.MakeCellState(g, w, cfg.Cells.SigSurf0[i], cfg.Cells.R[i])
		if err != nil {
			return nil, chk.Err("driver: cannot build cell %d: %v", i, err)
		}
		cells[i] = c
	}
	return cells, nil
}

func radiationConstants(cfg *config.Config) radiation.Constants {
	return radiation.Constants{
		SigmaSB: cfg.Physical.SigmaSB,
		RM:      cfg.Physical.RM,
		GMM:     cfg.Physical.GM,
		C:       cfg.Physical.C,
		Rho:     cfg.Grid.Rho,
	}
}

func chiBlow(cfg *config.Config) radiation.ChiBlow {
	return radiation.ChiBlow{Auto: cfg.Radiation.ChiBlowAuto, Fixed: cfg.Radiation.ChiBlow}
}

func buildCollideConfig(cfg *config.Config, qd collide.QDStarTable) (collide.Config, error) {
	vmode, err := collide.ParseVelocityMode(cfg.Collisions.VelocityMode)
	if err != nil {
		return collide.Config{}, err
	}
	return collide.Config{
		VelocityMode: vmode,
		AlphaFrag:    cfg.Collisions.AlphaFrag,
		Hfactor:      cfg.Dynamics.HFactor,
		FMin:         cfg.Collisions.FMin,
		QD:           qd,
	}, nil
}

func buildSublimConfig(cfg *config.Config) (sublim.Config, error) {
	mode, err := sublim.ParseMode(cfg.Sublimation.Mode)
	if err != nil {
		return sublim.Config{}, err
	}
	return sublim.Config{
		Mode:    mode,
		AlphaEv: cfg.Sublimation.AlphaEvap,
		Mu:      cfg.Sublimation.Mu,
		PGas:    cfg.Sublimation.PGas,
		Rho:     cfg.Grid.Rho,
	}, nil
}

func buildPhaseConfig(cfg *config.Config) (phase.Config, error) {
	var input phase.TemperatureInput
	switch cfg.Phase.TemperatureInput {
	case "particle":
		input = phase.Particle
	case "mars_surface", "":
		input = phase.MarsSurface
	default:
		return phase.Config{}, chk.Err("driver: unrecognised phase.temperature_input %q", cfg.Phase.TemperatureInput)
	}
	return phase.Config{
		Enabled:             cfg.Phase.Enabled,
		TemperatureInput:    input,
		QAbsMean:            cfg.Phase.QAbsMean,
		TCondense:           cfg.Phase.TCondense,
		TVaporize:           cfg.Phase.TVaporize,
		TauGate:             cfg.Phase.TauGate,
		TauStopGate:         cfg.Phase.TauStopGate,
		AllowTL2003Coupling: cfg.Phase.AllowTL2003Coupling,
	}, nil
}

func parseSupplyMode(s string) (supply.Mode, error) {
	switch strings.ToLower(s) {
	case "const", "":
		return supply.ModeConst, nil
	case "powerlaw":
		return supply.ModePowerlaw, nil
	case "table":
		return supply.ModeTable, nil
	case "piecewise":
		return supply.ModePiecewise, nil
	}
	return 0, chk.Err("driver: unrecognised supply.mode %q", s)
}

func parseTransportMode(s string) (supply.TransportMode, error) {
	switch strings.ToLower(s) {
	case "direct", "":
		return supply.Direct, nil
	case "deep_mixing":
		return supply.DeepMixing, nil
	}
	return 0, chk.Err("driver: unrecognised supply.transport.mode %q", s)
}

func parseReservoirDepletion(s string) (supply.ReservoirDepletion, error) {
	switch strings.ToLower(s) {
	case "", "hard_stop":
		return supply.HardStop, nil
	case "taper":
		return supply.Taper, nil
	}
	return 0, chk.Err("driver: unrecognised supply.reservoir.depletion_mode %q", s)
}

func parseHeadroomPolicy(s string) (supply.HeadroomPolicy, error) {
	switch strings.ToLower(s) {
	case "clip", "":
		return supply.Clip, nil
	case "off":
		return supply.Off, nil
	}
	return 0, chk.Err("driver: unrecognised supply.headroom_policy %q", s)
}

// buildSupplyConfig builds one independent supply.Config per cell: the
// Reservoir and Feedback sub-structs carry mutable per-run state
// (consumed mass, PI integral), so each cell must own its own copy
// rather than share one (spec §5: "per-cell state is exclusively
// owned by the worker computing it").
func buildSupplyConfig(cfg *config.Config) (supply.Config, error) {
	mode, err := parseSupplyMode(cfg.Supply.Mode)
	if err != nil {
		return supply.Config{}, err
	}
	injMode, err := supply.ParseInjectionMode(cfg.Supply.InjectionMode)
	if err != nil {
		return supply.Config{}, err
	}
	transportMode, err := parseTransportMode(cfg.Supply.Transport.Mode)
	if err != nil {
		return supply.Config{}, err
	}
	depletion, err := parseReservoirDepletion(cfg.Supply.Reservoir.DepletionMode)
	if err != nil {
		return supply.Config{}, err
	}
	headroomPolicy, err := parseHeadroomPolicy(cfg.Supply.HeadroomPolicy)
	if err != nil {
		return supply.Config{}, err
	}
	return supply.Config{
		Mode:          mode,
		EpsMix:        cfg.Supply.EpsMix,
		MuOrbit:       cfg.Supply.MuOrbit,
		OrbitFraction: cfg.Supply.OrbitFraction,
		InjectionMode: injMode,
		InjectionQ:    cfg.Supply.InjectionQ,
		InjSMin:       cfg.Supply.InjSMin,
		InjSMax:       cfg.Supply.InjSMax,
		Reservoir: supply.Reservoir{
			Enabled:       cfg.Supply.Reservoir.Enabled,
			MTotal:        cfg.Supply.Reservoir.MTotal,
			Depletion:     depletion,
			TaperFraction: cfg.Supply.Reservoir.TaperFraction,
		},
		Feedback: supply.Feedback{
			Enabled:    cfg.Supply.Feedback.Enabled,
			TargetTau:  cfg.Supply.Feedback.TargetTau,
			Gain:       cfg.Supply.Feedback.Gain,
			ResponseYr: cfg.Supply.Feedback.ResponseYr * yearInSeconds,
			MinScale:   cfg.Supply.Feedback.MinScale,
			MaxScale:   cfg.Supply.Feedback.MaxScale,
		},
		Temperature: supply.TemperatureCoupling{
			Enabled:  cfg.Supply.Temperature.Enabled,
			RefK:     cfg.Supply.Temperature.RefK,
			Exponent: cfg.Supply.Temperature.Exponent,
			Floor:    cfg.Supply.Temperature.Floor,
			Cap:      cfg.Supply.Temperature.Cap,
		},
		Transport: supply.Transport{
			Mode:         transportMode,
			TMixOrbits:   cfg.Supply.Transport.TMixOrbits,
			HeadroomGate: cfg.Supply.Transport.HeadroomGate,
		},
		HeadroomPolicy: headroomPolicy,
	}, nil
}
