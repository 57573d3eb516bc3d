// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package output implements the external-interface artifacts of
// spec.md §6: the per-step-per-cell time series, the PSD history, the
// run summary, the mass-budget log, and the checkpoint snapshot codec.
// Each writer is a scoped resource: the driver acquires it and closes
// it exactly once, regardless of how the step loop terminates (spec
// §9 Resource management), matching gofem's Driver/Summary
// acquire-then-defer-Close convention.
package output

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// SeriesRow is one row of the tabular time series (spec §6 output
// schema), one per outer step and cell.
type SeriesRow struct {
	Time             float64 `json:"time"`
	Dt               float64 `json:"dt"`
	CellIndex        int     `json:"cell_index"`
	Rm               float64 `json:"r_m"`
	TM               float64 `json:"t_m"`
	BetaSRef         float64 `json:"beta_s_ref"`
	SBlow            float64 `json:"s_blow"`
	SMin             float64 `json:"s_min"`
	KappaSurf        float64 `json:"kappa_surf"`
	TauLOS           float64 `json:"tau_los"`
	SigSurf          float64 `json:"sig_surf"`
	SigDeep          float64 `json:"sig_deep"`
	SigmaTauOne      float64 `json:"sigma_tau_one"`
	SigDotNominal    float64 `json:"sig_dot_nominal"`
	SigDotScaled     float64 `json:"sig_dot_scaled"`
	SigDotApplied    float64 `json:"sig_dot_applied"`
	ProdToDeep       float64 `json:"prod_to_deep"`
	DeepToSurf       float64 `json:"deep_to_surf"`
	Headroom         float64 `json:"headroom"`
	SupplyClipFactor float64 `json:"supply_clip_factor"`
	FeedbackScale    float64 `json:"feedback_scale"`
	TemperatureScale float64 `json:"temperature_scale"`
	ReservoirRemain  float64 `json:"reservoir_remaining"`
	MOutDot          float64 `json:"m_out_dot"`
	MSinkDot         float64 `json:"m_sink_dot"`
	MLossCum         float64 `json:"m_loss_cum"`
	MSinkCum         float64 `json:"m_sink_cum"`
	TCollMin         float64 `json:"t_coll_min"`
	TBlow            float64 `json:"t_blow"`
	DtEff            float64 `json:"dt_eff"`
	DtOverTBlow      float64 `json:"dt_over_t_blow"`
	FlagGt3          bool    `json:"flag_gt3"`
	FlagGt10         bool    `json:"flag_gt10"`
	NSubsteps        int     `json:"n_substeps"`
	Phase            string  `json:"phase"`
	AllowSupply      bool    `json:"allow_supply"`
	AllowBlowout     bool    `json:"allow_blowout"`
	StopReason       string  `json:"stop_reason"`
}

// SeriesWriter appends newline-delimited JSON records to a file,
// flushing on Close. Safe to call Close more than once.
type SeriesWriter struct {
	f      *os.File
	w      *bufio.Writer
	enc    *json.Encoder
	closed bool
}

// OpenSeriesWriter creates (or truncates) path and returns a writer
// ready for Append. The driver is expected to `defer w.Close()`
// immediately after a successful open so the file is flushed on every
// exit path (spec §9 Resource management).
func OpenSeriesWriter(path string) (*SeriesWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, chk.Err("output: cannot create series file %q: %v", path, err)
	}
	w := bufio.NewWriter(f)
	return &SeriesWriter{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// Append writes one row.
func (o *SeriesWriter) Append(row SeriesRow) error {
	if err := o.enc.Encode(&row); err != nil {
		return chk.Err("output: cannot append series row: %v", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Idempotent.
func (o *SeriesWriter) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return chk.Err("output: cannot flush series file: %v", err)
	}
	return o.f.Close()
}
