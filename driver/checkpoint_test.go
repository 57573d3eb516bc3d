// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/output"
)

// Test_checkpoint01_written_during_run exercises the checkpoint write
// hook end to end: a disabled-by-default feature turned on via config,
// periodic files written by a running Driver with at most keep_last_n
// retained, and the last file reloaded and restored into a freshly
// built cell. The restored cell is not run on or compared against an
// uninterrupted run.
func Test_checkpoint01_written_during_run(tst *testing.T) {

	chk.PrintTitle("driver-checkpoint01")

	cfg := baseScenarioConfig()
	cfg.Grid.K = 4
	cfg.Numerics.TEndYears = 1
	cfg.Numerics.DtInit = yearInSeconds / 20
	cfg.Numerics.Checkpoint.Enabled = true
	cfg.Numerics.Checkpoint.IntervalYears = 0.2
	cfg.Numerics.Checkpoint.KeepLastN = 2

	if err := cfg.Validate(); err != nil {
		tst.Fatalf("scenario config should validate: %v", err)
	}
	dir := tst.TempDir()
	d, err := New(cfg, filepath.Join(dir, "series.ndjson"), filepath.Join(dir, "psd.ndjson"), filepath.Join(dir, "mass_budget.ndjson"))
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}

	if _, err := d.Run(false); err != nil {
		tst.Fatalf("Run failed: %v", err)
	}

	ckptDir := filepath.Join(dir, "checkpoints")
	entries, err := os.ReadDir(ckptDir)
	if err != nil {
		tst.Fatalf("expected checkpoint directory %q to exist: %v", ckptDir, err)
	}
	if len(entries) == 0 {
		tst.Fatalf("expected at least one checkpoint file, found none")
	}
	if len(entries) > cfg.Numerics.Checkpoint.KeepLastN {
		tst.Fatalf("expected at most %d retained checkpoints, found %d", cfg.Numerics.Checkpoint.KeepLastN, len(entries))
	}

	last := entries[len(entries)-1]
	cp, err := output.LoadCheckpoint(filepath.Join(ckptDir, last.Name()))
	if err != nil {
		tst.Fatalf("LoadCheckpoint failed: %v", err)
	}
	if len(cp.Cells) != len(cfg.Cells.R) {
		tst.Fatalf("checkpoint has %d cells, want %d", len(cp.Cells), len(cfg.Cells.R))
	}

	g, err := buildGrid(cfg)
	if err != nil {
		tst.Fatalf("buildGrid failed: %v", err)
	}
	restored, err := buildCells(cfg, g)
	if err != nil {
		tst.Fatalf("buildCells failed: %v", err)
	}
	output.Restore(restored[0], cp.Cells[0])
	if restored[0].SigSurf < 0 {
		tst.Fatalf("restored SigSurf is negative: %v", restored[0].SigSurf)
	}
}
