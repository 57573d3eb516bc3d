// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "math"

// Config groups the collision-component run-time parameters (spec §6).
type Config struct {
	VelocityMode VelocityMode
	AlphaFrag    float64 // fragment power-law exponent
	Hfactor      float64
	FMin         float64 // floor on the largest-remnant fraction
	QD           QDStarTable
}

// AssembleCij fills the dense K x K collision-rate matrix
// C_ij = N_i N_j / (1+delta_ij) * pi (s_i+s_j)^2 * v_ij / (sqrt(2 pi) H_ij)
// (spec §4.7), reusing the caller-owned Cij buffer (spec §9 Arenas).
func AssembleCij(cfg Config, cent, N []float64, e, inc, r, vK float64, Cij [][]float64) {
	K := len(cent)
	// all bins share the same dynamical inclination in this 0D model,
	// so H_k is a single scalar and H_ij = H*sqrt(2) for every pair.
	H := ScaleHeight(cfg.Hfactor, inc, r)
	Hij := CombinedScaleHeight(H, H)
	vij := RelVel(cfg.VelocityMode, vK, e, inc)
	for a := 0; a < K; a++ {
		for b := 0; b < K; b++ {
			delta := 0.0
			if a == b {
				delta = 1.0
			}
			if Hij <= 0 {
				Cij[a][b] = 0
				continue
			}
			sSum := cent[a] + cent[b]
			Cij[a][b] = N[a] * N[b] / (1 + delta) * math.Pi * sSum * sSum * vij / (math.Sqrt(2*math.Pi) * Hij)
		}
	}
}

// LossRates fills lambda, the per-bin collisional loss rate
// lambda_k = (Σ_j C_kj + C_kk) / N_k (spec §4.8; the self-pair C_kk is
// retained as an explicit addend per spec §9's open-question decision,
// not half-counted).
func LossRates(Cij [][]float64, N []float64, lambda []float64) {
	K := len(N)
	for k := 0; k < K; k++ {
		if N[k] <= 0 {
			lambda[k] = 0
			continue
		}
		sum := Cij[k][k]
		for j := 0; j < K; j++ {
			sum += Cij[k][j]
		}
		lambda[k] = sum / N[k]
	}
}

// SpecificImpactEnergy returns Q_R = m_i m_j v_ij^2 / (2 (m_i+m_j)^2).
func SpecificImpactEnergy(mi, mj, vij float64) float64 {
	denom := 2 * (mi + mj) * (mi + mj)
	if denom <= 0 {
		return 0
	}
	return mi * mj * vij * vij / denom
}

// Regime classifies a pair interaction as cratering or fragmentation
// based on the largest-remnant fraction F_LF (spec §4.7).
type Regime int

const (
	Fragmentation Regime = iota
	Cratering
)

// LargestRemnantFraction returns F_LF = 0.5*(QR/QDstar)^-0.5, clipped
// to [FMin, 1] (spec §4.7).
func LargestRemnantFraction(QR, QDstar, FMin float64) float64 {
	if QDstar <= 0 || QR <= 0 {
		return 1.0
	}
	f := 0.5 * math.Pow(QR/QDstar, -0.5)
	if f < FMin {
		f = FMin
	}
	if f > 1.0 {
		f = 1.0
	}
	return f
}

// ClassifyRegime returns Cratering when F_LF > 0.5, else Fragmentation.
func ClassifyRegime(fLF float64) Regime {
	if fLF > 0.5 {
		return Cratering
	}
	return Fragmentation
}
