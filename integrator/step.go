// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Input bundles everything one cell's IMEX update needs for a single
// outer step Δt (spec §4.8). G and F are number-rate vectors (1/s per
// area, matching N's units): G is the mass-conserving collisional gain
// (collide.GainContraction), F is the external source rate (supply's
// per-bin injection). LambdaCollisional is the collisional loss rate
// (collide.LossRates); it caps the initial dt_eff guess and enters the
// implicit loss denominator together with LambdaSink.
// LambdaSink is the sum of all non-collisional per-bin loss rates
// (blow-out + sublimation + alternative sink), which remove mass from
// the system rather than redistributing it internally.
type Input struct {
	N                 []float64
	Mass              []float64
	G                 []float64
	F                 []float64
	LambdaCollisional []float64
	LambdaSink        []float64
	Dt                float64
	TBlow             float64 // representative blow-out timescale, for the fast-blow-out ratio
}

// Result bundles the outcome of one accepted outer step (spec §4.8,
// §6 output schema).
type Result struct {
	N             []float64
	DtEffAccepted float64   // last dt_eff used in the final (innermost) sub-step
	DtEffHistory  []float64 // one entry per sub-step, each itself the accepted dt_eff
	EpsMass       float64   // ε_mass of the final sub-step
	Iterations    int       // total bisection halvings across all sub-steps
	MassSupplied  float64   // Σ_k m_k F_k integrated over the full Δt (step-averaged, spec §4.8 step 4)
	MassSunk      float64   // explicit sink mass (blow-out+sublimation+alt) integrated over the full Δt
	NSubsteps     int
	FlagGt3       bool // r_fb = Δt/t_blow > 3
	FlagGt10      bool // r_fb = Δt/t_blow > 10
}

// Step performs the IMEX-BDF(1) update for one cell over Δt, applying
// the fast-blow-out sub-stepping rule of spec §4.8 when configured and
// triggered, and the positivity/mass-budget bisection within each
// sub-step. The outer simulation time is always considered to advance
// by the full Δt (spec §4.8 step 4); mass-rate contributions accrued
// over an accepted dt_eff are scaled to represent the full Δt for the
// cumulative counters.
func Step(cfg Config, in Input) (Result, error) {
	rFb := 0.0
	if in.TBlow > 0 {
		rFb = in.Dt / in.TBlow
	}
	res := Result{
		FlagGt3:  rFb > 3,
		FlagGt10: rFb > 10,
	}

	nSub := 1
	if cfg.SubstepFastBlowout && in.TBlow > 0 && cfg.SubstepMaxRatio > 0 && rFb > cfg.SubstepMaxRatio {
		nSub = int(math.Ceil(rFb / cfg.SubstepMaxRatio))
	}
	res.NSubsteps = nSub
	dtSub := in.Dt / float64(nSub)

	N := append([]float64(nil), in.N...)
	for s := 0; s < nSub; s++ {
		sub, err := oneStep(cfg, N, in.Mass, in.G, in.F, in.LambdaCollisional, in.LambdaSink, dtSub)
		if err != nil {
			return Result{}, err
		}
		N = sub.n
		res.DtEffAccepted = sub.dtEff
		res.DtEffHistory = append(res.DtEffHistory, sub.dtEff)
		res.Iterations += sub.iterations
		res.EpsMass = sub.epsMass

		// scale this sub-step's rate-based contributions up to the
		// full Δt for the cumulative counters (spec §4.8 step 4).
		scale := in.Dt / float64(nSub)
		if sub.dtEff > 0 {
			res.MassSupplied += (sub.massSupplied / sub.dtEff) * scale
			res.MassSunk += (sub.massSunk / sub.dtEff) * scale
		}
	}
	res.N = N
	return res, nil
}

type subResult struct {
	n            []float64
	dtEff        float64
	epsMass      float64
	iterations   int
	massSupplied float64
	massSunk     float64
}

// oneStep implements spec §4.8 steps 1-3 for a single Δt window
// (which may itself be a fast-blow-out sub-step): choose dt_eff0,
// then bisect on positivity and mass-budget until both are satisfied
// or cfg.NMax halvings are exhausted.
func oneStep(cfg Config, N, mass, G, F, lambdaColl, lambdaSink []float64, dt float64) (subResult, error) {
	K := len(N)

	minTcoll := math.Inf(1)
	for k := 0; k < K; k++ {
		if lambdaColl[k] > 0 {
			t := 1.0 / lambdaColl[k]
			if t < minTcoll {
				minTcoll = t
			}
		}
	}
	dtEff := dt
	if !math.IsInf(minTcoll, 1) {
		if cap := cfg.Safety * minTcoll; cap < dtEff {
			dtEff = cap
		}
	}

	mBefore := 0.0
	for k := 0; k < K; k++ {
		mBefore += mass[k] * N[k]
	}

	newN := make([]float64, K)
	iterations := 0
	for {
		ok := true
		for k := 0; k < K; k++ {
			lamTotal := lambdaColl[k] + lambdaSink[k]
			newN[k] = (N[k] + dtEff*(G[k]+F[k])) / (1 + dtEff*lamTotal)
			if math.IsNaN(newN[k]) || math.IsInf(newN[k], 0) {
				return subResult{}, chk.Err("integrator: non-finite N at bin %d (dtEff=%v)", k, dtEff)
			}
			if newN[k] < 0 {
				ok = false
			}
		}

		massSupplied := 0.0
		for k := 0; k < K; k++ {
			massSupplied += mass[k] * F[k]
		}
		massSupplied *= dtEff

		massSunk := 0.0
		for k := 0; k < K; k++ {
			massSunk += mass[k] * newN[k] * lambdaSink[k]
		}
		massSunk *= dtEff

		mAfter := 0.0
		for k := 0; k < K; k++ {
			mAfter += mass[k] * newN[k]
		}

		denom := mBefore
		if denom < cfg.EpsFloor {
			denom = cfg.EpsFloor
		}
		epsMass := math.Abs((mAfter+massSunk)-(mBefore+massSupplied)) / denom
		if math.IsNaN(epsMass) || math.IsInf(epsMass, 0) {
			return subResult{}, chk.Err("integrator: non-finite epsilon_mass (dtEff=%v)", dtEff)
		}

		if ok && epsMass <= cfg.MassTol {
			return subResult{
				n:            newN,
				dtEff:        dtEff,
				epsMass:      epsMass,
				iterations:   iterations,
				massSupplied: massSupplied,
				massSunk:     massSunk,
			}, nil
		}

		if iterations >= cfg.NMax {
			return subResult{}, chk.Err("integrator: bisection did not converge within %d halvings (last epsMass=%v, ok=%v)", cfg.NMax, epsMass, ok)
		}
		dtEff /= 2
		iterations++
	}
}

// SurfaceStep implements the separable surface-ODE variant (spec
// §4.8): Σ_surf^{n+1} = (Σ_surf^n + dt·Σ̇_prod) / (1 + dt·(1/t_blow +
// 1/t_coll + 1/t_sink)), returning the new surface density and the
// implied blow-out mass flux Σ_surf^{n+1}/t_blow. Disabled by default
// per spec §9 (ALLOW_TL2003 open question); callers opt in explicitly.
func SurfaceStep(sigSurf, dt, sigDotProd, tBlow, tColl, tSink float64) (sigNew, blowoutFlux float64) {
	rate := 0.0
	if tBlow > 0 {
		rate += 1 / tBlow
	}
	if tColl > 0 {
		rate += 1 / tColl
	}
	if tSink > 0 {
		rate += 1 / tSink
	}
	sigNew = (sigSurf + dt*sigDotProd) / (1 + dt*rate)
	if tBlow > 0 {
		blowoutFlux = sigNew / tBlow
	}
	return sigNew, blowoutFlux
}
