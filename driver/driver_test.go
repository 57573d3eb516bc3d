// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/config"
	"github.com/cpmech/marsdisk/grid"
)

func minimalConfig() *config.Config {
	var c config.Config
	c.SetDefault()
	c.Grid.K = 10
	c.Grid.SMin = 1e-7
	c.Grid.SMax = 1e-2
	c.Cells.R = []float64{2 * c.Physical.RM}
	c.Cells.SigSurf0 = []float64{1.0}
	c.Collisions.VRefList = []float64{1000, 3000, 5000}
	c.Collisions.QsList = []float64{1e4, 1.5e4, 2e4}
	c.Collisions.AsList = []float64{-0.3, -0.3, -0.3}
	c.Collisions.BList = []float64{1, 1, 1}
	c.Collisions.BgList = []float64{1.3, 1.3, 1.3}
	c.Numerics.DtInit = 1e4
	c.Numerics.TEndYears = 1e-3
	return &c
}

func newTestDriver(tst *testing.T) *Driver {
	cfg := minimalConfig()
	if err := cfg.Validate(); err != nil {
		tst.Fatalf("test config should validate: %v", err)
	}
	dir := tst.TempDir()
	d, err := New(cfg, filepath.Join(dir, "series.ndjson"), filepath.Join(dir, "psd.ndjson"), filepath.Join(dir, "mass_budget.ndjson"))
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	return d
}

func Test_driver01_new_builds_every_component(tst *testing.T) {

	chk.PrintTitle("driver01")

	d := newTestDriver(tst)
	defer d.Close()

	if len(d.cells) != 1 {
		tst.Fatalf("expected 1 cell, got %d", len(d.cells))
	}
	if len(d.rt) != 1 || d.rt[0].outcome == nil {
		tst.Fatalf("expected a built pair-outcome table for cell 0")
	}
	if len(d.rt[0].outcome) != d.grid.K {
		tst.Fatalf("outcome table row count %d != K=%d", len(d.rt[0].outcome), d.grid.K)
	}
}

func Test_driver02_run_single_cell_to_horizon(tst *testing.T) {

	chk.PrintTitle("driver02")

	d := newTestDriver(tst)

	summary, err := d.Run(false)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	if summary.Steps == 0 {
		tst.Fatalf("expected at least one step to have run")
	}
	if len(summary.Cells) != 1 {
		tst.Fatalf("expected one cell summary, got %d", len(summary.Cells))
	}
	if summary.Cells[0].MassLossBlow < 0 || summary.Cells[0].MassLossSink < 0 {
		tst.Fatalf("cumulative mass loss must stay non-negative (blow=%v, sink=%v)",
			summary.Cells[0].MassLossBlow, summary.Cells[0].MassLossSink)
	}
}

func Test_driver03_stopped_cell_is_frozen(tst *testing.T) {

	chk.PrintTitle("driver03")

	d := newTestDriver(tst)
	defer d.Close()

	c := d.cells[0]
	c.Status = grid.StoppedTau
	c.StopReason = "tau_los exceeded tau_stop"
	nBefore := append([]float64(nil), c.N...)

	if err := d.stepCell(0, 1000, 1e-6, 0.4, d.cfg.Numerics.DtInit); err != nil {
		tst.Fatalf("stepCell on a stopped cell should not error: %v", err)
	}
	for k := range nBefore {
		if c.N[k] != nBefore[k] {
			tst.Fatalf("bin %d changed for a stopped cell: before=%v after=%v", k, nBefore[k], c.N[k])
		}
	}
	if c.Status != grid.StoppedTau {
		tst.Fatalf("a stopped cell must never transition, got %v", c.Status)
	}
}

func Test_driver04_cancellation_stops_the_loop_early(tst *testing.T) {

	chk.PrintTitle("driver04")

	d := newTestDriver(tst)
	d.cfg.Numerics.TEndYears = 1e6 // would otherwise run for a long time

	cancel := make(chan struct{})
	d.Cancel = cancel
	close(cancel)

	summary, err := d.Run(false)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	if summary.Steps != 0 {
		tst.Fatalf("expected zero steps after immediate cancellation, got %d", summary.Steps)
	}
}
