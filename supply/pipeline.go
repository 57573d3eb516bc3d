// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package supply

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// Config groups every run-time supply option (spec §6 Supply group).
type Config struct {
	Mode            Mode
	EpsMix          float64
	MuOrbit         float64 // mu_orbit10pct
	OrbitFraction   float64 // f_orb
	InjectionMode   InjectionMode
	InjectionQ      float64 // power-law exponent for powerlaw_bins
	InjSMin, InjSMax float64
	Reservoir       Reservoir
	Feedback        Feedback
	Temperature     TemperatureCoupling
	Transport       Transport
	HeadroomPolicy  HeadroomPolicy
}

// Result bundles every diagnostic field the supply pipeline emits for
// the output series (spec §6 output schema).
type Result struct {
	Nominal          float64
	Scaled           float64
	Applied          float64
	ProdToDeep       float64
	DeepToSurf       float64
	Headroom         float64
	SupplyClipFactor float64
	FeedbackScale    float64
	TemperatureScale float64
	ReservoirRemain  float64
}

// RBase computes the canonical nominal-rate baseline
// R_base = mu_sup * Sigma_{tau_ref=1} / (eps_mix * t_blow) (spec §4.5 step 1).
func RBase(muSup, sigmaTauRef1, epsMix, tBlow float64) float64 {
	if epsMix <= 0 || tBlow <= 0 {
		return 0
	}
	return muSup * sigmaTauRef1 / (epsMix * tBlow)
}

// Evaluate runs the full supply pipeline for one step (spec §4.5 steps
// 2-5). sigmaTauOne and sigSurf are read from the previous step's
// shielding evaluation (the τ-feedback cycle is broken per spec §9).
// omega is the orbital frequency, used for the deep-mixing timescale.
func Evaluate(cfg *Config, TM, sigmaTauOne, sigSurf, tauField, muSup, tBlow, omega, dt float64, allowSupply bool) Result {

	var res Result

	if !allowSupply {
		res.ReservoirRemain = cfg.Reservoir.RemainingFraction()
		return res
	}

	// 1-2. nominal
	rBase := RBase(muSup, sigmaTauOne, cfg.EpsMix, tBlow)
	nominal := cfg.EpsMix * rBase
	if nominal < 0 {
		nominal = 0
	}
	res.Nominal = nominal

	// 3. scaled = nominal * f_temp * f_feedback
	fTemp := cfg.Temperature.Scale(TM)
	fFeedback := cfg.Feedback.Scale(tauField, dt)
	scaled := nominal * fTemp * fFeedback
	if scaled < 0 {
		io.Pfyel("marsdisk: warning: supply scaled rate clipped to zero (was %v)\n", scaled)
		scaled = 0
	}
	res.Scaled = scaled
	res.FeedbackScale = fFeedback
	res.TemperatureScale = fTemp

	// 4. reservoir gate
	remFrac := cfg.Reservoir.RemainingFraction()
	res.ReservoirRemain = remFrac
	gated := scaled * remFrac

	// 5. headroom and transport split
	headroom := math.Inf(1)
	if !math.IsInf(sigmaTauOne, 1) {
		headroom = (sigmaTauOne - sigSurf) / dt
		if headroom < 0 {
			headroom = 0
		}
	}
	res.Headroom = headroom

	applied := gated
	clipFactor := 1.0
	if cfg.HeadroomPolicy == Clip && !math.IsInf(headroom, 1) {
		if gated > headroom {
			applied = headroom
			if gated > 0 {
				clipFactor = headroom / gated
			}
		}
	}
	res.SupplyClipFactor = clipFactor

	switch cfg.Transport.Mode {
	case Direct:
		res.Applied = applied
	case DeepMixing:
		overflow := 0.0
		if cfg.HeadroomPolicy == Clip && !math.IsInf(headroom, 1) && gated > headroom {
			overflow = gated - headroom
		}
		res.Applied = applied
		res.ProdToDeep = overflow
	}

	cfg.Reservoir.Consume(res.Applied * dt)
	return res
}

// DeepToSurfaceFlux returns the flux out of the deep reservoir toward
// the surface, Σ_deep / t_mix (spec §4.5 step 5, deep_mixing pathway).
func DeepToSurfaceFlux(sigDeep float64, transport Transport, omega float64) float64 {
	tMix := transport.MixTime(omega)
	if tMix <= 0 || math.IsInf(tMix, 1) {
		return 0
	}
	return sigDeep / tMix
}
