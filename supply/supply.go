// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package supply implements the external mass-supply pipeline of
// spec.md §4.5: nominal -> scaled -> applied rate, the τ-feedback and
// temperature-coupling modifiers, the reservoir/deep-mixing transport
// routing, and the per-bin injection-weight variants. Sum-type-friendly
// choices (injection mode, transport mode, reservoir depletion mode)
// are explicit registries rather than scattered booleans (spec §9).
package supply

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Mode records the configured supply mode (spec §6 Supply.mode).
// Evaluate does not read it: the nominal (pre-feedback) rate is RBase
// under every mode.
type Mode int

const (
	ModeConst Mode = iota
	ModePowerlaw
	ModeTable
	ModePiecewise
)

// InjectionMode selects the per-bin weight construction (spec §4.5 step 6).
type InjectionMode int

const (
	MinBin InjectionMode = iota
	PowerlawBins
	InitialPSD
)

// TransportMode selects where the applied rate is routed (spec §4.5 step 5).
type TransportMode int

const (
	Direct TransportMode = iota
	DeepMixing
)

// ReservoirDepletion selects the behaviour once a finite reservoir
// empties (spec §6 Supply.reservoir.depletion_mode).
type ReservoirDepletion int

const (
	HardStop ReservoirDepletion = iota
	Taper
)

// ParseInjectionMode maps a config string to an InjectionMode.
func ParseInjectionMode(s string) (InjectionMode, error) {
	switch strings.ToLower(s) {
	case "min_bin":
		return MinBin, nil
	case "powerlaw_bins":
		return PowerlawBins, nil
	case "initial_psd":
		return InitialPSD, nil
	}
	return 0, chk.Err("supply: unrecognised injection_mode %q", s)
}

// Reservoir holds the finite supply-reservoir configuration and its
// mutable remaining-mass state (spec §4.5 step 4).
type Reservoir struct {
	Enabled        bool
	MTotal         float64
	Depletion      ReservoirDepletion
	TaperFraction  float64 // below this remaining-fraction, Taper mode ramps to zero
	consumed       float64
}

// RemainingFraction returns the reservoir's remaining-fraction gate
// factor: 1 when disabled or full, 0 once a HardStop reservoir is
// exhausted, or a linear ramp-down under Taper mode.
func (r *Reservoir) RemainingFraction() float64 {
	if !r.Enabled || r.MTotal <= 0 {
		return 1.0
	}
	remaining := (r.MTotal - r.consumed) / r.MTotal
	if remaining < 0 {
		remaining = 0
	}
	switch r.Depletion {
	case HardStop:
		if remaining <= 0 {
			return 0
		}
		return 1.0
	case Taper:
		if r.TaperFraction <= 0 {
			return remaining
		}
		if remaining >= r.TaperFraction {
			return 1.0
		}
		return remaining / r.TaperFraction
	}
	return 1.0
}

// Consume records mass drawn from the reservoir during a step.
func (r *Reservoir) Consume(mass float64) {
	r.consumed += mass
}

// Feedback implements the first-order PI controller scaling the
// supply rate toward a target optical depth (spec §4.5 step 3).
type Feedback struct {
	Enabled     bool
	TargetTau   float64
	Gain        float64
	ResponseYr  float64 // response time tau_resp, in the same time units as Step's dt
	MinScale    float64
	MaxScale    float64
	integral    float64
}

// Scale advances the PI integral by dt and returns the clipped
// feedback scale factor for the current τ_field reading.
func (f *Feedback) Scale(tauField, dt float64) float64 {
	if !f.Enabled {
		return 1.0
	}
	err := f.TargetTau - tauField
	if f.ResponseYr > 0 {
		f.integral += (err / f.ResponseYr) * dt
	}
	scale := 1.0 + f.Gain*err + f.integral
	if scale < f.MinScale {
		scale = f.MinScale
	}
	if scale > f.MaxScale {
		scale = f.MaxScale
	}
	return scale
}

// TemperatureCoupling implements f_temp(T_M), either a power law
// (T/Tref)^alpha or a constant 1 when disabled (spec §4.5 step 3).
type TemperatureCoupling struct {
	Enabled  bool
	RefK     float64
	Exponent float64
	Floor    float64
	Cap      float64
}

func (t TemperatureCoupling) Scale(TM float64) float64 {
	if !t.Enabled || t.RefK <= 0 {
		return 1.0
	}
	v := math.Pow(TM/t.RefK, t.Exponent)
	if t.Floor > 0 && v < t.Floor {
		v = t.Floor
	}
	if t.Cap > 0 && v > t.Cap {
		v = t.Cap
	}
	return v
}

// Transport routes the applied rate between the surface and an
// optional deep reservoir (spec §4.5 step 5).
type Transport struct {
	Mode        TransportMode
	TMixOrbits  float64 // deep_mixing characteristic time, in orbits
	HeadroomGate string // "hard" or "soft"
}

// MixTime returns t_mix = n_orbits * 2*pi/Omega.
func (t Transport) MixTime(omega float64) float64 {
	if omega <= 0 {
		return math.Inf(1)
	}
	return t.TMixOrbits * 2 * math.Pi / omega
}

// HeadroomPolicy selects whether the applied rate is clipped to
// headroom or passed through uncapped (spec §4.5 step 5).
type HeadroomPolicy int

const (
	Clip HeadroomPolicy = iota
	Off
)
