// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

import "math"

// PhiTable is the shielding factor Φ(τ, ω0, g) (spec §4.3, §6). Mode
// "absorption_only" bypasses the table entirely with Φ = exp(-τ).
type PhiTable struct {
	Mode   string // "table" or "absorption_only"
	Tau    []float64
	Omega0 []float64
	G      []float64
	Val    [][][]float64 // Val[i][j][k] = Phi(Tau[i], Omega0[j], G[k])
	warner *clampWarner
}

type phiFile struct {
	Tau    []float64     `json:"tau"`
	Omega0 []float64     `json:"omega0"`
	G      []float64     `json:"g"`
	Val    [][][]float64 `json:"val"`
}

// NewAbsorptionOnlyPhi returns the analytic Φ = exp(-τ) mode used when
// no Φ(τ,ω0,g) table is configured (spec §4.3).
func NewAbsorptionOnlyPhi() *PhiTable {
	return &PhiTable{Mode: "absorption_only"}
}

// LoadPhiTable reads and validates a trilinear Φ table from a JSON file.
func LoadPhiTable(path string) (*PhiTable, error) {
	var raw phiFile
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("tau", raw.Tau); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("omega0", raw.Omega0); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("g", raw.G); err != nil {
		return nil, err
	}
	if len(raw.Val) != len(raw.Tau) {
		return nil, chkErrShape("phi", "tau", len(raw.Tau), len(raw.Val))
	}
	for _, plane := range raw.Val {
		if len(plane) != len(raw.Omega0) {
			return nil, chkErrShape("phi", "omega0", len(raw.Omega0), len(plane))
		}
		for _, row := range plane {
			if len(row) != len(raw.G) {
				return nil, chkErrShape("phi", "g", len(raw.G), len(row))
			}
			if !isFiniteRow(row) {
				return nil, errNonFiniteTable("phi")
			}
		}
	}
	return &PhiTable{
		Mode: "table", Tau: raw.Tau, Omega0: raw.Omega0, G: raw.G, Val: raw.Val,
		warner: newClampWarner(),
	}, nil
}

func isFiniteRow(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// At returns Φ(τ, ω0, g), either the analytic absorption-only form or a
// trilinear interpolation of the loaded table, clamped at the edges.
func (p *PhiTable) At(tau, omega0, g float64) float64 {
	if p.Mode == "absorption_only" {
		return math.Exp(-tau)
	}
	i, ft := clamp1D(p.Tau, tau, "phi", "tau", p.warner)
	j, fo := clamp1D(p.Omega0, omega0, "phi", "omega0", p.warner)
	k, fg := clamp1D(p.G, g, "phi", "g", p.warner)
	v := 0.0
	for _, corner := range [8]struct {
		di, dj, dk int
		w          float64
	}{
		{0, 0, 0, (1 - ft) * (1 - fo) * (1 - fg)},
		{1, 0, 0, ft * (1 - fo) * (1 - fg)},
		{0, 1, 0, (1 - ft) * fo * (1 - fg)},
		{1, 1, 0, ft * fo * (1 - fg)},
		{0, 0, 1, (1 - ft) * (1 - fo) * fg},
		{1, 0, 1, ft * (1 - fo) * fg},
		{0, 1, 1, (1 - ft) * fo * fg},
		{1, 1, 1, ft * fo * fg},
	} {
		v += corner.w * p.Val[i+corner.di][j+corner.dj][k+corner.dk]
	}
	return v
}
