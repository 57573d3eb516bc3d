// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tables implements the immutable, once-loaded input tables of
// spec.md §6: Q_pr(s,T_M), Φ(τ,ω0,g), T_M(t), P_sat(T), and an optional
// prescribed supply-rate table. Every table is safe for unsynchronised
// concurrent reads once Load returns (spec §5).
package tables

import (
	"encoding/json"
	"math"
	"os"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// clampWarner emits at most one warning per (table, axis) pair per run,
// as required by spec §7 "Out-of-range interpolation".
type clampWarner struct {
	mu    sync.Mutex
	fired map[string]bool
}

func newClampWarner() *clampWarner {
	return &clampWarner{fired: make(map[string]bool)}
}

func (w *clampWarner) warn(table, axis string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := table + "/" + axis
	if w.fired[key] {
		return
	}
	w.fired[key] = true
	io.Pfyel("marsdisk: warning: %s lookup clamped to table edge on axis %q\n", table, axis)
}

// clamp1D finds the bracketing interval [i, i+1] for x in a monotone
// increasing axis, returning the fractional position within it, and
// reports (via warner) whenever x fell outside the axis range.
func clamp1D(axis []float64, x float64, table, axisName string, warner *clampWarner) (i int, frac float64) {
	n := len(axis)
	if n == 1 {
		return 0, 0
	}
	if x <= axis[0] {
		if x < axis[0] && warner != nil {
			warner.warn(table, axisName)
		}
		return 0, 0
	}
	if x >= axis[n-1] {
		if x > axis[n-1] && warner != nil {
			warner.warn(table, axisName)
		}
		return n - 2, 1
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < axis[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	frac = (x - axis[lo]) / (axis[lo+1] - axis[lo])
	return lo, frac
}

// readJSON loads a JSON-encoded table file into v.
func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return chk.Err("tables: cannot open %q: %v", path, err)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(v); err != nil {
		return chk.Err("tables: cannot parse %q: %v", path, err)
	}
	return nil
}

// strictlyIncreasing validates that axis is malformed-free (spec §7 Table taxonomy).
func strictlyIncreasing(name string, axis []float64) error {
	if len(axis) == 0 {
		return chk.Err("tables: axis %q is empty", name)
	}
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return chk.Err("tables: axis %q is not strictly increasing at index %d (%v <= %v)", name, i, axis[i], axis[i-1])
		}
	}
	return nil
}

func chkErrShape(table, axis string, want, got int) error {
	return chk.Err("tables: %s table row length mismatch on axis %q: want %d, got %d", table, axis, want, got)
}

func errNonFiniteTable(table string) error {
	return chk.Err("tables: %s table contains non-finite values", table)
}

func isFiniteMatrix(m [][]float64) bool {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
