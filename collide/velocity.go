// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collide implements the Smoluchowski binary-collision cascade
// of spec.md §4.7: relative velocities, the collision-rate matrix C_ij,
// the Q_D* strength law, the fragment-yield tensor, and the gain
// vector contraction, with the fragment tensor evaluated on-the-fly
// per spec §9 Arenas (no dense Y_kij storage).
package collide

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// VelocityMode selects the relative-velocity closure (spec §4.7).
type VelocityMode int

const (
	RayleighLowE VelocityMode = iota
	Pericentre
)

func ParseVelocityMode(s string) (VelocityMode, error) {
	switch strings.ToLower(s) {
	case "rayleigh", "rayleigh_low_e", "":
		return RayleighLowE, nil
	case "pericentre", "pericenter":
		return Pericentre, nil
	}
	return 0, chk.Err("collide: unrecognised velocity mode %q", s)
}

// RelVel computes v_ij for the configured closure (spec §4.7):
// low-e Rayleigh: v_K * sqrt(1.25 e^2 + i^2);
// pericentre:     v_K * sqrt((1+e)/(1-e)).
func RelVel(mode VelocityMode, vK, e, i float64) float64 {
	switch mode {
	case Pericentre:
		if e >= 1 {
			return math.Inf(1)
		}
		return vK * math.Sqrt((1+e)/(1-e))
	default:
		return vK * math.Sqrt(1.25*e*e+i*i)
	}
}

// ScaleHeight returns H_k = Hfactor * i * r.
func ScaleHeight(Hfactor, i, r float64) float64 {
	return Hfactor * i * r
}

// CombinedScaleHeight returns H_ij = sqrt(Hi^2 + Hj^2).
func CombinedScaleHeight(Hi, Hj float64) float64 {
	return math.Sqrt(Hi*Hi + Hj*Hj)
}
