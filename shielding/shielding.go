// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shielding implements the PSD-derived surface opacity, the
// shielding-factor/optical-depth coupling, and the Σ_{τ=1} diagnostic
// of spec.md §4.3. The Φ↔τ cycle is broken by a single self-consistent
// evaluation at the current state, never iterated to convergence
// within a step (spec §9).
package shielding

import (
	"math"

	"github.com/cpmech/marsdisk/tables"
)

// KappaSurf computes the PSD-derived surface opacity
// κ_surf = Σ_k (π s_k^2 Qpr(s_k) N_k) / Σ_surf.
func KappaSurf(cent, N []float64, TM, sigSurf float64, qpr *tables.QprTable) float64 {
	if sigSurf <= 0 {
		return 0
	}
	sum := 0.0
	for k := range cent {
		sum += math.Pi * cent[k] * cent[k] * qpr.At(cent[k], TM) * N[k]
	}
	return sum / sigSurf
}

// Result bundles the self-consistent shielding evaluation for one step.
type Result struct {
	KappaSurf   float64
	KappaEff    float64
	TauLOS      float64
	SigmaTauOne float64 // +Inf when KappaEff <= 0
}

// Evaluate computes κ_surf, τ_los = f_los·κ_eff·Σ_surf with
// κ_eff = Φ(τ_los,ω0,g)·κ_surf, and Σ_{τ=1} = 1/κ_eff, from the
// PREVIOUS step's state (spec §9: single self-consistent evaluation,
// no inner iteration). omega0 and g are the single-scattering albedo
// and asymmetry parameter, held fixed by configuration.
func Evaluate(cent, N []float64, TM, sigSurf, fLOS, omega0, g float64, qpr *tables.QprTable, phi *tables.PhiTable) Result {
	kSurf := KappaSurf(cent, N, TM, sigSurf, qpr)
	// self-consistent: evaluate Phi at the tau implied by kSurf alone,
	// then fold the shielding factor into kEff in one pass.
	tauSeed := fLOS * kSurf * sigSurf
	phiVal := phi.At(tauSeed, omega0, g)
	kEff := phiVal * kSurf
	tauLOS := fLOS * kEff * sigSurf
	sigTauOne := math.Inf(1)
	if kEff > 0 {
		sigTauOne = 1.0 / kEff
	}
	return Result{KappaSurf: kSurf, KappaEff: kEff, TauLOS: tauLOS, SigmaTauOne: sigTauOne}
}
