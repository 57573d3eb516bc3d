// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/config"
	"github.com/cpmech/marsdisk/radiation"
)

// baseScenarioConfig returns a validated configuration with every
// group populated at its documented default plus the collision-law
// coefficients every scenario below needs (spec §8 seeds these runs
// against a fixed Q_D* law, not the zero-value one).
func baseScenarioConfig() *config.Config {
	var c config.Config
	c.SetDefault()
	c.Collisions.VRefList = []float64{1000, 3000, 5000}
	c.Collisions.QsList = []float64{1e4, 1.5e4, 2e4}
	c.Collisions.AsList = []float64{-0.3, -0.3, -0.3}
	c.Collisions.BList = []float64{1, 1, 1}
	c.Collisions.BgList = []float64{1.3, 1.3, 1.3}
	return &c
}

func runScenario(tst *testing.T, cfg *config.Config) *Driver {
	if err := cfg.Validate(); err != nil {
		tst.Fatalf("scenario config should validate: %v", err)
	}
	dir := tst.TempDir()
	d, err := New(cfg, filepath.Join(dir, "series.ndjson"), filepath.Join(dir, "psd.ndjson"), filepath.Join(dir, "mass_budget.ndjson"))
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	return d
}

// sBlowAt mirrors how the driver itself derives s_blow (LoadTables +
// radiationConstants + radiation.SBlow), so a scenario test can
// bracket a single bin around the production value instead of a
// hand-computed constant.
func sBlowAt(tst *testing.T, cfg *config.Config, TM float64) float64 {
	tabs, err := LoadTables(cfg)
	if err != nil {
		tst.Fatalf("LoadTables failed: %v", err)
	}
	s, err := radiation.SBlow(TM, radiationConstants(cfg), tabs.Qpr)
	if err != nil {
		tst.Fatalf("SBlow failed: %v", err)
	}
	return s
}

// Test_scenario01_constant_temperature_single_bin_blowout covers spec
// §8 scenario 1: a single bin sitting exactly at s_blow under a
// constant temperature, no supply and no sublimation, should lose
// surface density by the pure exponential blow-out law Σ(t) =
// Σ(0)·exp(−t/t_blow). Under the default chi_blow_auto policy,
// radiation.SBlow always returns the size at which β = 0.5, so
// chi_blow = 2·0.5 = 1 and t_blow = 1/Ω exactly (radiation.TBlow),
// giving the tidy Σ(t) = Σ(0)·exp(−tΩ) form named in the scenario.
func Test_scenario01_constant_temperature_single_bin_blowout(tst *testing.T) {

	chk.PrintTitle("scenario01")

	cfg := baseScenarioConfig()
	cfg.Shielding.Mode = "off"
	cfg.Tables.TemperatureMode = "slab"
	cfg.Tables.SlabT0 = 4000
	cfg.Tables.SlabTau = 1e12 // effectively constant T over this run's horizon

	sb := sBlowAt(tst, cfg, cfg.Tables.SlabT0)
	cfg.Grid.K = 1
	cfg.Grid.SMin = sb * 0.999
	cfg.Grid.SMax = sb * 1.001

	omega := math.Sqrt(cfg.Physical.GM / math.Pow(cfg.Cells.R[0], 3))
	tBlow := 1.0 / omega // chi_blow=1 under the auto policy, see doc comment above

	cfg.Numerics.DtInit = tBlow / 50
	cfg.Numerics.TEndYears = (10 * tBlow) / yearInSeconds

	d := runScenario(tst, cfg)
	defer d.Close()

	sigma0 := d.cells[0].SigSurf
	summary, err := d.Run(false)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}

	wantFrac := math.Exp(-10.0)
	gotFrac := 1 - summary.Cells[0].MassLossBlow/sigma0
	if math.Abs(gotFrac-wantFrac) > 0.2*wantFrac+0.02 {
		tst.Fatalf("expected remaining fraction near exp(-10)=%.4g, got %.4g", wantFrac, gotFrac)
	}
	if summary.Cells[0].MassLossSink != 0 {
		tst.Fatalf("expected zero non-blowout sink loss in this scenario, got %v", summary.Cells[0].MassLossSink)
	}
	if summary.MaxEpsMass > cfg.Numerics.MassTol {
		tst.Fatalf("mass-budget residual %.3g exceeds tolerance %.3g (P2)", summary.MaxEpsMass, cfg.Numerics.MassTol)
	}
}

// Test_scenario06_temperature_stop_slab_cooling covers spec §8
// scenario 6: under slab cooling T_M(t) = T0(1+t/tau)^(-1/3), a cell
// must reach STOPPED_TEMPERATURE once T_M falls to the configured
// stop threshold, at a time matching the closed-form inverse of the
// cooling law within coarse step-size tolerance.
func Test_scenario06_temperature_stop_slab_cooling(tst *testing.T) {

	chk.PrintTitle("scenario06")

	cfg := baseScenarioConfig()
	cfg.Shielding.Mode = "off"
	cfg.Grid.K = 10
	cfg.Tables.TemperatureMode = "slab"
	cfg.Tables.SlabT0 = 4000
	cfg.Tables.SlabTau = 1e8
	cfg.Radiation.TStop = 1000

	tStopWant := cfg.Tables.SlabTau * (math.Pow(cfg.Tables.SlabT0/cfg.Radiation.TStop, 3) - 1)

	cfg.Numerics.DtInit = tStopWant / 200
	cfg.Numerics.TEndYears = (tStopWant * 2) / yearInSeconds

	d := runScenario(tst, cfg)

	summary, err := d.Run(false)
	if err != nil {
		tst.Fatalf("Run failed: %v", err)
	}
	if summary.Cells[0].StopReason != "STOPPED_TEMPERATURE" {
		tst.Fatalf("expected cell to stop on temperature, got %q", summary.Cells[0].StopReason)
	}
	relErr := math.Abs(summary.Cells[0].StopTime-tStopWant) / tStopWant
	if relErr > 0.1 {
		tst.Fatalf("stop time %.6g differs from analytic slab-cooling solution %.6g by %.2g, want <=0.1",
			summary.Cells[0].StopTime, tStopWant, relErr)
	}
	if summary.MaxEpsMass > cfg.Numerics.MassTol {
		tst.Fatalf("mass-budget residual %.3g exceeds tolerance %.3g (P2)", summary.MaxEpsMass, cfg.Numerics.MassTol)
	}
}
