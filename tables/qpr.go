// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

// QprTable is the Planck-averaged radiation-pressure efficiency
// <Q_pr(s, T_M)>, bilinearly interpolated over a (s, T) grid (spec §6).
type QprTable struct {
	S      []float64   // size axis [m], strictly increasing
	T      []float64   // temperature axis [K], strictly increasing
	Q      [][]float64 // Q[i][j] = Q_pr(S[i], T[j])
	warner *clampWarner
}

// qprFile is the on-disk JSON schema for a Q_pr table.
type qprFile struct {
	S []float64   `json:"s"`
	T []float64   `json:"t"`
	Q [][]float64 `json:"q"`
}

// LoadQprTable reads and validates a Q_pr table from a JSON file.
func LoadQprTable(path string) (*QprTable, error) {
	var raw qprFile
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("s", raw.S); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("t", raw.T); err != nil {
		return nil, err
	}
	if len(raw.Q) != len(raw.S) {
		return nil, errTableShape("qpr", "s", len(raw.S), len(raw.Q))
	}
	for i, row := range raw.Q {
		if len(row) != len(raw.T) {
			return nil, errTableShape("qpr", "t", len(raw.T), len(row))
		}
		_ = i
	}
	if !isFiniteMatrix(raw.Q) {
		return nil, errNonFiniteTable("qpr")
	}
	return &QprTable{S: raw.S, T: raw.T, Q: raw.Q, warner: newClampWarner()}, nil
}

// NewConstantQpr returns a degenerate Q_pr table with a single constant
// value everywhere, useful for the K=1 constant-efficiency scenarios of
// spec §8 scenario 1 without requiring an on-disk table file.
func NewConstantQpr(value float64) *QprTable {
	return &QprTable{
		S:      []float64{0, 1},
		T:      []float64{0, 1e6},
		Q:      [][]float64{{value, value}, {value, value}},
		warner: newClampWarner(),
	}
}

// At returns Q_pr(s, T) via bilinear interpolation, clamping out-of-range
// lookups to the table edge and logging once per axis per run.
func (q *QprTable) At(s, T float64) float64 {
	i, fs := clamp1D(q.S, s, "qpr", "s", q.warner)
	j, ft := clamp1D(q.T, T, "qpr", "t", q.warner)
	q00 := q.Q[i][j]
	q10 := q.Q[i+1][j]
	q01 := q.Q[i][j+1]
	q11 := q.Q[i+1][j+1]
	return q00*(1-fs)*(1-ft) + q10*fs*(1-ft) + q01*(1-fs)*ft + q11*fs*ft
}

func errTableShape(table, axis string, want, got int) error {
	return chkErrShape(table, axis, want, got)
}
