// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sublim implements the Hertz-Knudsen-Langmuir sublimation
// sink of spec.md §4.6: the HKL mass flux, ds/dt, and the two
// dispatch modes (timescale / mass_conserving).
package sublim

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/tables"
)

// Mode selects how the HKL flux is folded into the bin update (spec §6).
type Mode int

const (
	None Mode = iota
	Timescale
	MassConserving
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return None, nil
	case "timescale":
		return Timescale, nil
	case "mass_conserving":
		return MassConserving, nil
	}
	return 0, chk.Err("sublim: unrecognised mode %q", s)
}

// Config groups the sublimation run-time options (spec §6).
type Config struct {
	Mode    Mode
	AlphaEv float64 // alpha_evap, sticking/evaporation coefficient
	Mu      float64 // molar mass [kg/mol]
	PGas    float64 // ambient gas partial pressure [Pa]
	Rho     float64 // grain internal density [kg/m^3]
}

const gasConstant = 8.31446261815324 // R [J/(mol K)]

// Flux computes the HKL mass flux J(T_p) = alpha_evap * max(Psat-Pgas,0)
// * sqrt(mu/(2*pi*R*T_p)) (spec §4.6).
func Flux(cfg Config, Tp float64, psat tables.SatPressureTable) float64 {
	if Tp <= 0 {
		return 0
	}
	driving := psat.PSat(Tp) - cfg.PGas
	if driving < 0 {
		driving = 0
	}
	return cfg.AlphaEv * driving * math.Sqrt(cfg.Mu/(2*math.Pi*gasConstant*Tp))
}

// DSDt returns ds/dt = -J/rho (grains shrink, spec §4.6).
func DSDt(cfg Config, J float64) float64 {
	if cfg.Rho <= 0 {
		return 0
	}
	return -J / cfg.Rho
}

// TimescaleSink fills S, the per-bin sink coefficient 1/t_sub,k with
// t_sub,k = s_k / |ds/dt| (spec §4.6 mode "timescale").
func TimescaleSink(cent []float64, dsdt float64, S []float64) {
	rate := math.Abs(dsdt)
	for k, s := range cent {
		if rate <= 0 || s <= 0 {
			S[k] = 0
			continue
		}
		tSub := s / rate
		S[k] = 1.0 / tSub
	}
}

// MassConservingStep advances every bin's mass by the uniform ds
// implied by dsdt*dt, re-binning via first-order conservative upwind
// onto the fixed grid edges. Mass whose resulting size falls below
// sMinEff is transferred out of N and returned as lost mass, to be
// added to M_loss_blow per spec §4.6/(I6).
func MassConservingStep(edges, cent, mass, N []float64, dsdt, dt, sMinEff float64, newN []float64) (lostMass float64) {
	K := len(cent)
	ds := dsdt * dt
	for k := 0; k < K; k++ {
		newN[k] = 0
	}
	for k := 0; k < K; k++ {
		if N[k] <= 0 {
			continue
		}
		sNew := cent[k] + ds
		massBin := mass[k] * N[k]
		if sNew <= sMinEff {
			lostMass += massBin
			continue
		}
		j := binOfSorted(edges, sNew)
		if j < 0 {
			lostMass += massBin
			continue
		}
		mNew := (4.0 / 3.0) * math.Pi * rhoFromMassSize(mass[k], cent[k]) * sNew * sNew * sNew
		if mNew <= 0 {
			lostMass += massBin
			continue
		}
		newN[j] += massBin / mNew
	}
	return lostMass
}

func rhoFromMassSize(m, s float64) float64 {
	if s <= 0 {
		return 0
	}
	return m / ((4.0 / 3.0) * math.Pi * s * s * s)
}

func binOfSorted(edges []float64, s float64) int {
	K := len(edges) - 1
	if s < edges[0] || s >= edges[K] {
		return -1
	}
	lo, hi := 0, K
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s < edges[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}
