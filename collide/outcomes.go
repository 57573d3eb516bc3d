// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "math"

// BuildOutcomes fills outcome[i][j] for every i<=j with the
// largest-remnant bin and fraction implied by a single-velocity
// collision between bins i and j (spec §4.7). The target size for the
// Q_D*(s) lookup is the larger of the two colliding particles, per the
// usual target/impactor convention; rho is the grid's internal grain
// density, used to convert the largest-remnant mass fraction into a
// size via s_LR = ((m_i+m_j) F_LF / ((4/3) pi rho))^(1/3).
func BuildOutcomes(cfg Config, cent, mass []float64, rho, vij float64, outcome [][]PairOutcome) error {
	K := len(cent)
	for i := 0; i < K; i++ {
		for j := i; j < K; j++ {
			sTarget := cent[i]
			if cent[j] > sTarget {
				sTarget = cent[j]
			}
			qdStar, err := cfg.QD.At(sTarget, rho, vij)
			if err != nil {
				return err
			}
			qr := SpecificImpactEnergy(mass[i], mass[j], vij)
			fLF := LargestRemnantFraction(qr, qdStar, cfg.FMin)
			mSum := mass[i] + mass[j]
			sLR := math.Cbrt(mSum * fLF / ((4.0 / 3.0) * math.Pi * rho))
			kLR := LargestRemnantBin(cent, sLR)
			outcome[i][j] = PairOutcome{KLR: kLR, FLF: fLF}
		}
	}
	return nil
}
