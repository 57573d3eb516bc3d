// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// MassBudgetRow is one per-step ε_mass record (spec §6 output: "Mass-
// budget log with per-step ε_mass values").
type MassBudgetRow struct {
	Time       float64 `json:"time"`
	CellIndex  int     `json:"cell_index"`
	EpsMass    float64 `json:"eps_mass"`
	Iterations int     `json:"iterations"`
	DtEff      float64 `json:"dt_eff"`
}

// MassBudgetWriter appends newline-delimited JSON ε_mass records.
type MassBudgetWriter struct {
	f      *os.File
	w      *bufio.Writer
	enc    *json.Encoder
	closed bool
	max    float64
}

// OpenMassBudgetWriter creates (or truncates) path for the mass-budget
// log.
func OpenMassBudgetWriter(path string) (*MassBudgetWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, chk.Err("output: cannot create mass-budget log %q: %v", path, err)
	}
	w := bufio.NewWriter(f)
	return &MassBudgetWriter{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// Append writes one row and tracks the running maximum ε_mass, used
// to populate Summary.MaxEpsMass at the end of a run.
func (o *MassBudgetWriter) Append(row MassBudgetRow) error {
	if row.EpsMass > o.max {
		o.max = row.EpsMass
	}
	if err := o.enc.Encode(&row); err != nil {
		return chk.Err("output: cannot append mass-budget row: %v", err)
	}
	return nil
}

// MaxEpsMass returns the largest ε_mass appended so far.
func (o *MassBudgetWriter) MaxEpsMass() float64 { return o.max }

// Close flushes and closes the underlying file. Idempotent.
func (o *MassBudgetWriter) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return chk.Err("output: cannot flush mass-budget log: %v", err)
	}
	return o.f.Close()
}
