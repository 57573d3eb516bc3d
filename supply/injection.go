// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package supply

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// InjectionWeights fills w with the per-bin mass-injection weights
// (spec §4.5 step 6), normalised so Σ_k w_k = 1.
func InjectionWeights(mode InjectionMode, grid Grid, cfg *Config, initialMassWeights []float64, w []float64) error {
	switch mode {
	case MinBin:
		return minBinWeights(grid, cfg, w)
	case PowerlawBins:
		return powerlawBinWeights(grid, cfg, w)
	case InitialPSD:
		return initialPSDWeights(initialMassWeights, w)
	}
	return chk.Err("supply: unknown injection mode %d", mode)
}

// Grid is the minimal read-only size-grid view the supply package
// needs, decoupling it from the grid package's concrete type.
type Grid interface {
	NumBins() int
	Edge(k int) float64 // k in [0, NumBins()]
	Centre(k int) float64
}

func minBinWeights(g Grid, cfg *Config, w []float64) error {
	K := g.NumBins()
	if len(w) != K {
		return chk.Err("supply: weight vector length mismatch")
	}
	target := 0
	best := math.Inf(1)
	for k := 0; k < K; k++ {
		d := math.Abs(g.Centre(k) - cfg.InjSMin)
		if d < best {
			best = d
			target = k
		}
	}
	for k := range w {
		w[k] = 0
	}
	w[target] = 1.0
	return nil
}

func powerlawBinWeights(g Grid, cfg *Config, w []float64) error {
	K := g.NumBins()
	if len(w) != K {
		return chk.Err("supply: weight vector length mismatch")
	}
	q := cfg.InjectionQ
	total := 0.0
	for k := 0; k < K; k++ {
		lo := math.Max(g.Edge(k), cfg.InjSMin)
		hi := math.Min(g.Edge(k+1), cfg.InjSMax)
		if hi <= lo {
			w[k] = 0
			continue
		}
		w[k] = powerlawIntegral(lo, hi, q)
		total += w[k]
	}
	if total <= 0 {
		return chk.Err("supply: powerlaw_bins injection window does not overlap the grid")
	}
	for k := range w {
		w[k] /= total
	}
	return nil
}

// powerlawIntegral computes ∫_lo^hi s^{-q} ds in closed form.
func powerlawIntegral(lo, hi, q float64) float64 {
	if math.Abs(q-1.0) < 1e-12 {
		return math.Log(hi / lo)
	}
	return (math.Pow(hi, 1-q) - math.Pow(lo, 1-q)) / (1 - q)
}

func initialPSDWeights(initialMassWeights []float64, w []float64) error {
	if len(initialMassWeights) != len(w) {
		return chk.Err("supply: initial-PSD weight vector length mismatch")
	}
	total := 0.0
	for _, v := range initialMassWeights {
		total += v
	}
	if total <= 0 {
		return chk.Err("supply: initial-PSD weights sum to zero")
	}
	for k, v := range initialMassWeights {
		w[k] = v / total
	}
	return nil
}

// PerBinSourceRate fills F (per-bin number-density source rate) from
// the injection weights w, the mass-rate sigDot, and per-bin masses m,
// such that Σ_k m_k F_k = sigDot (spec §4.5 step 6).
func PerBinSourceRate(w, m []float64, sigDot float64, F []float64) {
	for k := range F {
		if m[k] > 0 {
			F[k] = sigDot * w[k] / m[k]
		} else {
			F[k] = 0
		}
	}
}
