// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func validMinimal() Config {
	var c Config
	c.SetDefault()
	c.Collisions.CoeffUnits = "si"
	c.Collisions.VRefList = []float64{1000, 3000, 5000}
	c.Collisions.QsList = []float64{1e4, 1.5e4, 2e4}
	c.Collisions.AsList = []float64{-0.3, -0.3, -0.3}
	c.Collisions.BList = []float64{1, 1, 1}
	c.Collisions.BgList = []float64{1.3, 1.3, 1.3}
	c.Numerics.TEndYears = 1.0
	return c
}

func Test_config01_defaults_validate(tst *testing.T) {

	chk.PrintTitle("config01")

	c := validMinimal()
	if err := c.Validate(); err != nil {
		tst.Fatalf("defaults should validate, got: %v", err)
	}
}

func Test_config02_bad_grid(tst *testing.T) {

	chk.PrintTitle("config02")

	c := validMinimal()
	c.Grid.K = 0
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected error for K=0")
	}
}

func Test_config03_unrecognised_enum(tst *testing.T) {

	chk.PrintTitle("config03")

	c := validMinimal()
	c.Shielding.Mode = "bogus"
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected error for unrecognised shielding.mode")
	}
}

func Test_config04_phase_hysteresis_order(tst *testing.T) {

	chk.PrintTitle("config04")

	c := validMinimal()
	c.Phase.Enabled = true
	c.Phase.TCondense = 300
	c.Phase.TVaporize = 200
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected error for T_condense >= T_vaporize")
	}
}

func Test_config05_missing_horizon(tst *testing.T) {

	chk.PrintTitle("config05")

	c := validMinimal()
	c.Numerics.TEndYears = 0
	c.Numerics.TEndUntilTemperatureK = 0
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected error when no horizon is configured")
	}
}

func Test_config06_substep_requires_ratio(tst *testing.T) {

	chk.PrintTitle("config06")

	c := validMinimal()
	c.Numerics.SubstepFastBlowout = true
	c.Numerics.SubstepMaxRatio = 0
	if err := c.Validate(); err == nil {
		tst.Fatalf("expected error for substep_fast_blowout without a positive ratio")
	}
}
