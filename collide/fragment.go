// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "math"

// fragPowerlawIntegral computes ∫_lo^hi s^{-alpha} ds in closed form,
// used both for the fragment-weight construction below and wherever
// a size power-law must be integrated over a bin.
func fragPowerlawIntegral(lo, hi, alpha float64) float64 {
	if hi <= lo {
		return 0
	}
	if math.Abs(alpha-1.0) < 1e-12 {
		return math.Log(hi / lo)
	}
	return (math.Pow(hi, 1-alpha) - math.Pow(lo, 1-alpha)) / (1 - alpha)
}

// FragWeights fills w with the normalised fragment-mass weights
// w_k^frag ∝ ∫_{s_k-}^{s_k+} s^{-alpha_frag} ds for k <= kLR (spec
// §4.7), zero above kLR.
func FragWeights(edges []float64, alphaFrag float64, kLR int, w []float64) {
	total := 0.0
	for k := 0; k <= kLR && k < len(w); k++ {
		w[k] = fragPowerlawIntegral(edges[k], edges[k+1], alphaFrag)
		total += w[k]
	}
	for k := kLR + 1; k < len(w); k++ {
		w[k] = 0
	}
	if total > 0 {
		for k := 0; k <= kLR && k < len(w); k++ {
			w[k] /= total
		}
	}
}

// LargestRemnantBin finds k_LR(i,j): the bin index whose centre is
// closest to, but not above, the mass-conserving largest-remnant size
// s_LR = ((m_i+m_j)*F_LF / ((4/3) pi rho))^(1/3) implied by F_LF.
func LargestRemnantBin(cent []float64, sLR float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for k, s := range cent {
		if s > sLR {
			continue
		}
		d := sLR - s
		if d < bestDiff {
			bestDiff = d
			best = k
		}
	}
	return best
}

// FragmentYield returns Y_{k,i,j} for a single bin k, given the
// precomputed largest-remnant bin kLR, the largest-remnant fraction
// fLF, and the fragment-weight vector wFrag (spec §4.7):
//   Y_kij = fLF * delta(k, kLR) + (1-fLF) * wFrag(k)
// By construction Σ_k Y_kij = fLF + (1-fLF)*Σ_k wFrag(k) = 1 whenever
// wFrag is normalised, satisfying invariant (I4)/(P3).
func FragmentYield(k, kLR int, fLF float64, wFrag []float64) float64 {
	y := (1 - fLF) * wFrag[k]
	if k == kLR {
		y += fLF
	}
	return y
}

// PairOutcome bundles the per-pair (i,j) fragmentation outcome needed
// by GainContraction: the largest-remnant bin and fraction. Computed
// once per (i,j) by the integrator (spec §9: Y_kij contracted on the
// fly rather than stored densely).
type PairOutcome struct {
	KLR int
	FLF float64
}

// GainContraction accumulates the gain vector
//   G_k = Σ_{i<=j} C_ij * (m_i+m_j)/m_k * Y_kij
// evaluating the fragment tensor on-the-fly per pair from outcome
// rather than materialising a dense Y tensor (spec §9 Arenas). scratch
// must have length K and is reused across the (i,j) loop; edges is the
// grid's bin-edge array, passed explicitly so this package carries no
// hidden global state (spec §9: "no hidden globals").
func GainContraction(cfg Config, edges, mass []float64, Cij [][]float64, outcome [][]PairOutcome, scratch []float64, G []float64) {
	K := len(mass)
	for k := range G {
		G[k] = 0
	}
	for i := 0; i < K; i++ {
		for j := i; j < K; j++ {
			cij := Cij[i][j]
			if cij == 0 {
				continue
			}
			o := outcome[i][j]
			FragWeights(edges, cfg.AlphaFrag, o.KLR, scratch)
			mSum := mass[i] + mass[j]
			for k := 0; k <= o.KLR && k < K; k++ {
				y := FragmentYield(k, o.KLR, o.FLF, scratch)
				G[k] += cij * mSum / mass[k] * y
			}
		}
	}
}
