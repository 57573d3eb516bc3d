// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// CellSummary bundles the per-cell closing diagnostics for a run.
type CellSummary struct {
	CellIndex         int     `json:"cell_index"`
	StopReason        string  `json:"stop_reason"`
	StopTime          float64 `json:"stop_time"`
	MassLossBlow      float64 `json:"mass_loss_blow"`
	MassLossSink      float64 `json:"mass_loss_sink"`
	EffectiveProdRate float64 `json:"effective_production_rate"`
}

// Summary is the run-level JSON artefact of spec §6: cumulative
// totals, the maximum observed mass-budget error, per-cell stop
// reasons, and effective production rates. Grounded on
// inp.Simulation.GetInfo's json.MarshalIndent usage.
type Summary struct {
	ConfigHash    string        `json:"config_hash"`
	SchemaVersion int           `json:"schema_version"`
	Steps         int           `json:"steps"`
	TFinal        float64       `json:"t_final"`
	MaxEpsMass    float64       `json:"max_eps_mass"`
	TotalMassLoss float64       `json:"total_mass_loss"`
	Cells         []CellSummary `json:"cells"`
}

// Save writes the summary as indented JSON, matching
// inp.Simulation.GetInfo's MarshalIndent convention. The write itself
// uses the standard library directly: a single whole-file write of a
// short JSON document has no need for gosl/io's VTU/mesh-oriented
// multi-writer helpers.
func (o *Summary) Save(path string) error {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("output: cannot marshal summary: %v", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return chk.Err("output: cannot write summary file %q: %v", path, err)
	}
	return nil
}

// LoadSummary reads back a summary previously written by Save.
func LoadSummary(path string) (*Summary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("output: cannot read summary file %q: %v", path, err)
	}
	var s Summary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, chk.Err("output: cannot parse summary file %q: %v", path, err)
	}
	return &s, nil
}
