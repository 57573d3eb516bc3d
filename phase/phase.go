// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phase implements the solid/vapor phase classification and the
// supply/blow-out gates of spec.md §4.4, including the hysteresis
// thresholds T_cond < T_vap. Sum-type-friendly choices are represented
// as an explicit Phase variant rather than scattered booleans (spec §9).
package phase

import "math"

// Phase is the solid/vapor classification of a cell.
type Phase int

const (
	Solid Phase = iota
	Vapor
)

func (p Phase) String() string {
	if p == Vapor {
		return "vapor"
	}
	return "solid"
}

// TemperatureInput selects which temperature feeds the phase/gate logic.
type TemperatureInput int

const (
	MarsSurface TemperatureInput = iota
	Particle
)

// Config groups the phase-component run-time options (spec §6).
type Config struct {
	Enabled             bool
	TemperatureInput    TemperatureInput
	QAbsMean             float64 // <Q_abs> used by the particle-equilibrium temperature
	TCondense, TVaporize float64 // hysteresis thresholds T_cond < T_vap
	TauGate              float64 // blow-out gate threshold on tau_los
	TauStopGate          float64 // supply gate threshold (allow_supply requires tau not violated)
	AllowTL2003Coupling  bool    // spec §9 open question: gas-rich surface-ODE opt-in, default false
}

// ParticleTemperature computes T_p = T_M * <Qabs>^(1/4) * sqrt(RM/2r),
// the particle-equilibrium temperature alternative to T_M (spec §4.4).
func ParticleTemperature(TM, qAbsMean, RM, r float64) float64 {
	return TM * math.Pow(qAbsMean, 0.25) * math.Sqrt(RM/(2*r))
}

// Classify determines Solid/Vapor from the configured temperature input
// against the hysteresis thresholds. prevPhase is the cell's phase at
// the previous step, needed because the condensation/vaporisation
// thresholds straddle a dead band [TCondense, TVaporize].
func Classify(cfg Config, T float64, prevPhase Phase) Phase {
	if !cfg.Enabled {
		return Solid
	}
	switch prevPhase {
	case Solid:
		if T >= cfg.TVaporize {
			return Vapor
		}
		return Solid
	default: // Vapor
		if T <= cfg.TCondense {
			return Solid
		}
		return Vapor
	}
}

// Gates bundles the boolean activation decisions derived from phase and
// optical depth (spec §4.4).
type Gates struct {
	AllowSupply  bool
	AllowBlowout bool
}

// Evaluate computes the supply/blow-out gates for the current phase and
// line-of-sight optical depth.
func Evaluate(cfg Config, ph Phase, tauLOS float64) Gates {
	solid := ph == Solid
	return Gates{
		AllowSupply:  solid && tauLOS < cfg.TauStopGate,
		AllowBlowout: solid && tauLOS < cfg.TauGate,
	}
}

// AltSinkRate returns the per-bin alternative sink rate (e.g.
// hydrodynamic escape) active in vapor phase when blow-out is disabled,
// represented uniformly as 1/t_sink,k (spec §4.4).
func AltSinkRate(tSinkK []float64, out []float64) {
	for k, t := range tSinkK {
		if t > 0 {
			out[k] = 1.0 / t
		} else {
			out[k] = 0
		}
	}
}
