// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

// SupplyTable is the optional prescribed Σ̇_in(t) table (spec §6),
// linearly interpolated and held at the edges.
type SupplyTable struct {
	Time []float64
	Rate []float64
}

type supplyFile struct {
	Time []float64 `json:"time"`
	Rate []float64 `json:"rate"`
}

// LoadSupplyTable reads a Σ̇_in(t) table from a JSON file.
func LoadSupplyTable(path string) (*SupplyTable, error) {
	var raw supplyFile
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("time", raw.Time); err != nil {
		return nil, err
	}
	if len(raw.Rate) != len(raw.Time) {
		return nil, chkErrShape("supply", "time", len(raw.Time), len(raw.Rate))
	}
	return &SupplyTable{Time: raw.Time, Rate: raw.Rate}, nil
}

// At returns the prescribed supply rate at time t, held constant beyond
// the table's edges.
func (s *SupplyTable) At(t float64) float64 {
	n := len(s.Time)
	if n == 0 {
		return 0
	}
	if t <= s.Time[0] {
		return s.Rate[0]
	}
	if t >= s.Time[n-1] {
		return s.Rate[n-1]
	}
	i, frac := clamp1D(s.Time, t, "supply", "time", nil)
	return s.Rate[i]*(1-frac) + s.Rate[i+1]*frac
}
