// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// CellStatus is the one-way state-machine position of a cell (spec §4.8).
type CellStatus int

const (
	Running CellStatus = iota
	StoppedTau
	StoppedBlowout
	StoppedTemperature
)

func (s CellStatus) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case StoppedTau:
		return "STOPPED_TAU"
	case StoppedBlowout:
		return "STOPPED_BLOWOUT"
	case StoppedTemperature:
		return "STOPPED_TEMPERATURE"
	}
	return "UNKNOWN"
}

// CellState holds all mutable per-cell data (spec §3). Arrays are
// fixed-size after MakeCellState returns; only the integrator mutates
// N, SigSurf, SigDeep and the cumulative counters (spec §3 Lifecycle).
type CellState struct {
	Grid *Grid

	R float64 // representative radius [m]

	N       []float64 // number surface density per bin [1/m^2]
	SigSurf float64   // surface mass density [kg/m^2]
	SigDeep float64   // deep-reservoir surface density [kg/m^2]

	SMinEff float64 // lowest resolved size currently tracked [m]

	MLossBlow float64 // cumulative mass lost to blow-out [kg/m^2]
	MLossSink float64 // cumulative mass lost to sublimation/alt. sinks [kg/m^2]

	Status     CellStatus
	StopReason string

	// Workspace: pre-allocated hot-path scratch buffers (spec §5 Memory,
	// §9 Arenas), owned exclusively by this cell.
	Work Workspace
}

// Workspace holds pre-allocated per-cell scratch arrays reused every
// step so the hot path performs no per-step heap allocation.
type Workspace struct {
	Cij      [][]float64 // K x K collision-rate matrix
	Gain     []float64   // K gain vector G_k
	Loss     []float64   // K collisional loss rate lambda_k (collide.LossRates)
	Fsrc     []float64   // K per-bin source rate F_k
	Scratch1 []float64   // general-purpose K-length scratch
	Scratch2 []float64   // general-purpose K-length scratch
}

func newWorkspace(K int) Workspace {
	return Workspace{
		Cij:      la.MatAlloc(K, K),
		Gain:     make([]float64, K),
		Loss:     make([]float64, K),
		Fsrc:     make([]float64, K),
		Scratch1: make([]float64, K),
		Scratch2: make([]float64, K),
	}
}

// MakeCellState builds a cell from an initial PSD weight vector w (on
// bin centres) normalised so that Σ_k m_k N_k(t0) = sigSurf0 within
// round-off (spec §4.1, invariant tied to P12).
func MakeCellState(g *Grid, w []float64, sigSurf0, r float64) (c *CellState, err error) {
	if len(w) != g.K {
		return nil, chk.Err("grid: initial PSD weight vector length %d does not match K=%d", len(w), g.K)
	}
	if sigSurf0 < 0 {
		return nil, chk.Err("grid: initial SigSurf must be non-negative (got %v)", sigSurf0)
	}
	massPerWeight := 0.0
	for k := 0; k < g.K; k++ {
		if w[k] < 0 {
			return nil, chk.Err("grid: initial PSD weight at bin %d is negative", k)
		}
		massPerWeight += g.Mass[k] * w[k]
	}
	c = &CellState{
		Grid:    g,
		R:       r,
		N:       make([]float64, g.K),
		SigSurf: sigSurf0,
		SMinEff: g.Edges[0],
		Status:  Running,
		Work:    newWorkspace(g.K),
	}
	if massPerWeight > 0 {
		scale := sigSurf0 / massPerWeight
		for k := 0; k < g.K; k++ {
			c.N[k] = w[k] * scale
		}
	}
	return c, nil
}

// Clone performs a deep copy, used by comparison/checkpoint-restore runs.
func (c *CellState) Clone() *CellState {
	o := &CellState{
		Grid:       c.Grid,
		R:          c.R,
		N:          append([]float64(nil), c.N...),
		SigSurf:    c.SigSurf,
		SigDeep:    c.SigDeep,
		SMinEff:    c.SMinEff,
		MLossBlow:  c.MLossBlow,
		MLossSink:  c.MLossSink,
		Status:     c.Status,
		StopReason: c.StopReason,
		Work:       newWorkspace(c.Grid.K),
	}
	return o
}

// TotalMass returns Σ_k m_k N_k for this cell's current state.
func (c *CellState) TotalMass() float64 {
	return c.Grid.TotalMass(c.N)
}
