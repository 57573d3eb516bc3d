// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package radiation implements the radiation-pressure blow-out physics
// of spec.md §4.2: β(s,T_M), s_blow, t_blow, and the per-bin blow-out
// sink coefficient.
package radiation

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/tables"
)

// Constants is the small set of physical constants needed to evaluate
// β and s_blow (spec §4.2). Grouped the way gofem's mdl/solid model
// structs group their coefficient inputs.
type Constants struct {
	SigmaSB float64 // Stefan-Boltzmann constant [W m^-2 K^-4]
	RM      float64 // Mars radius [m]
	GMM     float64 // G*M_Mars [m^3 s^-2]
	C       float64 // speed of light [m s^-1]
	Rho     float64 // grain internal density [kg m^-3]
}

// Beta computes β(s,T_M,ρ,Q_pr) = 3 σSB T_M^4 RM^2 <Qpr(s)> / (4 G M c ρ s).
func Beta(s, TM float64, cst Constants, qpr *tables.QprTable) float64 {
	if s <= 0 {
		return math.Inf(1)
	}
	q := qpr.At(s, TM)
	num := 3 * cst.SigmaSB * math.Pow(TM, 4) * cst.RM * cst.RM * q
	den := 4 * cst.GMM * cst.C * cst.Rho * s
	return num / den
}

// SBlow solves β(s_blow) = 0.5 for s_blow. When Q_pr does not depend on
// s (a single representative value), this is a closed-form division;
// when it does, a fixed-point contraction of at most 8 passes (rel.
// tol 1e-6) is used, as specified in spec §4.2.
func SBlow(TM float64, cst Constants, qpr *tables.QprTable) (float64, error) {
	if TM <= 0 {
		return 0, chk.Err("radiation: T_M must be positive (got %v)", TM)
	}
	// coefficient form at beta = 0.5, holding Q_pr fixed at an initial guess
	coeff := func(q float64) float64 {
		return 3 * cst.SigmaSB * math.Pow(TM, 4) * cst.RM * cst.RM * q / (4 * cst.GMM * cst.C * cst.Rho * 0.5)
	}
	s := coeff(1.0)
	for pass := 0; pass < 8; pass++ {
		q := qpr.At(s, TM)
		sNew := coeff(q)
		if sNew <= 0 || math.IsNaN(sNew) || math.IsInf(sNew, 0) {
			return 0, chk.Err("radiation: s_blow contraction diverged at pass %d", pass)
		}
		relDiff := math.Abs(sNew-s) / math.Max(s, 1e-300)
		s = sNew
		if relDiff < 1e-6 {
			break
		}
	}
	return s, nil
}

// ChiBlow is the dimensionless coefficient converting orbital frequency
// Ω into a blow-out timescale. "auto" mode derives it from β and Q_pr,
// clipped to [0.5, 2] as specified in spec §4.2.
type ChiBlow struct {
	Auto  bool
	Fixed float64
}

func (c ChiBlow) Value(betaAtSBlow float64) float64 {
	if !c.Auto {
		return c.Fixed
	}
	chi := 2 * betaAtSBlow
	if chi < 0.5 {
		return 0.5
	}
	if chi > 2.0 {
		return 2.0
	}
	return chi
}

// TBlow returns t_blow = χ_blow / Ω, with Ω = sqrt(GM/r^3).
func TBlow(chi ChiBlow, betaAtSBlow, GM, r float64) (float64, error) {
	if r <= 0 || GM <= 0 {
		return 0, chk.Err("radiation: GM and r must be positive (GM=%v, r=%v)", GM, r)
	}
	omega := math.Sqrt(GM / (r * r * r))
	return chi.Value(betaAtSBlow) / omega, nil
}

// BlowoutSink fills S, the per-bin blow-out sink coefficient
// S_blow,k = 1/t_blow for s_k <= s_blow, else 0 (spec §4.2).
func BlowoutSink(cent []float64, sBlow, tBlow float64, S []float64) {
	rate := 0.0
	if tBlow > 0 {
		rate = 1.0 / tBlow
	}
	for k, s := range cent {
		if s <= sBlow {
			S[k] = rate
		} else {
			S[k] = 0
		}
	}
}
