// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

import "github.com/cpmech/marsdisk/grid"

// StopConfig groups the thresholds that can move a cell out of
// RUNNING (spec §4.8 state machine).
type StopConfig struct {
	TauStop                float64 // τ_los stop gate
	StopOnBlowoutBelowSmin bool
	SMinFloor              float64 // configured s_min,eff floor
	TStop                  float64 // T_M stop threshold
}

// Transition evaluates the one-way state machine for one cell given
// the current step's physical observables. A cell already in a
// STOPPED_* state is left untouched: transitions are one-way (spec
// §4.8). Checked in the order τ, blow-out floor, temperature; the
// first satisfied condition wins.
func Transition(cfg StopConfig, status grid.CellStatus, tauLOS, sMinEff, TM float64) (grid.CellStatus, string) {
	if status != grid.Running {
		return status, ""
	}
	if tauLOS > cfg.TauStop {
		return grid.StoppedTau, "tau_los exceeded tau_stop"
	}
	if cfg.StopOnBlowoutBelowSmin && sMinEff <= cfg.SMinFloor {
		return grid.StoppedBlowout, "s_min,eff reached configured floor"
	}
	if TM <= cfg.TStop {
		return grid.StoppedTemperature, "T_M at or below T_stop"
	}
	return grid.Running, ""
}
