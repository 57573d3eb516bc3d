// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver implements the outer time-step loop of spec.md §4.9:
// per-step temperature/global evaluation, the per-cell §4.3-4.8
// component chain run data-parallel across cells (§5), diagnostics
// aggregation, stop-condition testing, and output-artifact emission.
// It owns no hidden global state: every table, coefficient set, and
// per-cell runtime buffer is constructed once by New and threaded
// through Run explicitly (spec §9).
package driver

import (
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/marsdisk/collide"
	"github.com/cpmech/marsdisk/config"
	"github.com/cpmech/marsdisk/grid"
	"github.com/cpmech/marsdisk/integrator"
	"github.com/cpmech/marsdisk/output"
	"github.com/cpmech/marsdisk/phase"
	"github.com/cpmech/marsdisk/radiation"
	"github.com/cpmech/marsdisk/sublim"
	"github.com/cpmech/marsdisk/supply"
)

// cellRuntime holds the per-cell hot-path buffers that are specific to
// the driver's step pipeline and therefore do not belong on
// grid.Workspace (spec §5 Memory: pre-allocated once, reused every
// step, no per-step heap traffic). outcome is static once built at
// setup: it depends only on bin sizes, grain density, and the
// (constant, configuration-derived) relative velocity, never on N_k.
type cellRuntime struct {
	outcome   [][]collide.PairOutcome
	blowS     []float64
	subS      []float64
	altS      []float64
	sinkTotal []float64
	prevPhase phase.Phase
}

func newCellRuntime(K int, outcome [][]collide.PairOutcome) *cellRuntime {
	return &cellRuntime{
		outcome:   outcome,
		blowS:     make([]float64, K),
		subS:      make([]float64, K),
		altS:      make([]float64, K),
		sinkTotal: make([]float64, K),
		prevPhase: phase.Solid,
	}
}

// Driver bundles every immutable component plus the mutable per-cell
// state needed to run the engine end to end.
type Driver struct {
	cfg    *config.Config
	grid   *grid.Grid
	cells  []*grid.CellState
	rt     []*cellRuntime
	tables *Tables

	radConst   radiation.Constants
	chiBlow    radiation.ChiBlow
	collideCfg collide.Config
	sublimCfg  sublim.Config
	phaseCfg   phase.Config
	supplyCfg  []supply.Config
	intCfg     integrator.Config
	stopCfg    integrator.StopConfig

	series     *output.SeriesWriter
	psd        *output.PSDWriter
	massBudget *output.MassBudgetWriter

	checkpoints    *output.CheckpointWriter
	checkpointNext float64 // next d.time at which a checkpoint is due

	time float64
	step int

	// Cancel, when non-nil, is checked at each global step boundary
	// (spec §5 Cancellation: never inside a bisection loop).
	Cancel <-chan struct{}
}

// New constructs a Driver from a validated configuration, opening the
// series/PSD/mass-budget output files eagerly the way gofem's NewMain
// opens its Summary before Run starts (spec §9 Resource management:
// acquire at construction, release in Close).
func New(cfg *config.Config, seriesPath, psdPath, massBudgetPath string) (*Driver, error) {
	g, err := buildGrid(cfg)
	if err != nil {
		return nil, err
	}
	cells, err := buildCells(cfg, g)
	if err != nil {
		return nil, err
	}
	tabs, err := LoadTables(cfg)
	if err != nil {
		return nil, err
	}
	collideCfg, err := buildCollideConfig(cfg, tabs.QDStar)
	if err != nil {
		return nil, err
	}
	sublimCfg, err := buildSublimConfig(cfg)
	if err != nil {
		return nil, err
	}
	phaseCfg, err := buildPhaseConfig(cfg)
	if err != nil {
		return nil, err
	}

	supplyCfg := make([]supply.Config, len(cells))
	rt := make([]*cellRuntime, len(cells))
	for i, c := range cells {
		sc, err := buildSupplyConfig(cfg)
		if err != nil {
			return nil, err
		}
		supplyCfg[i] = sc

		vK := math.Sqrt(cfg.Physical.GM / c.R)
		vij := collide.RelVel(collideCfg.VelocityMode, vK, cfg.Dynamics.E, cfg.Dynamics.I)
		outcome, err := buildOutcomeMatrix(collideCfg, g, vij)
		if err != nil {
			return nil, chk.Err("driver: cannot build fragmentation outcome table for cell %d: %v", i, err)
		}
		rt[i] = newCellRuntime(g.K, outcome)
	}

	seriesW, err := output.OpenSeriesWriter(seriesPath)
	if err != nil {
		return nil, err
	}
	psdW, err := output.OpenPSDWriter(psdPath)
	if err != nil {
		seriesW.Close()
		return nil, err
	}
	mbW, err := output.OpenMassBudgetWriter(massBudgetPath)
	if err != nil {
		seriesW.Close()
		psdW.Close()
		return nil, err
	}

	var ckptW *output.CheckpointWriter
	ckptNext := math.Inf(1)
	if cfg.Numerics.Checkpoint.Enabled {
		dir := filepath.Join(filepath.Dir(seriesPath), "checkpoints")
		ckptW, err = output.OpenCheckpointWriter(dir, cfg.Numerics.Checkpoint.KeepLastN)
		if err != nil {
			seriesW.Close()
			psdW.Close()
			mbW.Close()
			return nil, err
		}
		ckptNext = cfg.Numerics.Checkpoint.IntervalYears * yearInSeconds
	}

	return &Driver{
		cfg:        cfg,
		grid:       g,
		cells:      cells,
		rt:         rt,
		tables:     tabs,
		radConst:   radiationConstants(cfg),
		chiBlow:    chiBlow(cfg),
		collideCfg: collideCfg,
		sublimCfg:  sublimCfg,
		phaseCfg:   phaseCfg,
		supplyCfg:  supplyCfg,
		intCfg: integrator.Config{
			Safety:             cfg.Numerics.Safety,
			MassTol:            cfg.Numerics.MassTol,
			EpsFloor:           1e-300,
			NMax:               20,
			SubstepFastBlowout: cfg.Numerics.SubstepFastBlowout,
			SubstepMaxRatio:    cfg.Numerics.SubstepMaxRatio,
		},
		stopCfg: integrator.StopConfig{
			TauStop:                cfg.Shielding.TauStop * (1 + cfg.Shielding.TauStopTol),
			StopOnBlowoutBelowSmin: cfg.Numerics.StopOnBlowoutBelowSmin,
			SMinFloor:              cfg.Grid.SMin,
			TStop:                  cfg.Radiation.TStop,
		},
		series:         seriesW,
		psd:            psdW,
		massBudget:     mbW,
		checkpoints:    ckptW,
		checkpointNext: ckptNext,
	}, nil
}

// buildOutcomeMatrix precomputes the per-pair (i,j) largest-remnant
// bin and fraction once (spec §9 Arenas: no dense per-step Y tensor,
// and here no per-step outcome recompute either, since Q_D* depends
// only on bin sizes, grain density, and the constant relative
// velocity this cell evaluates at).
func buildOutcomeMatrix(cfg collide.Config, g *grid.Grid, vij float64) ([][]collide.PairOutcome, error) {
	K := g.K
	outcome := make([][]collide.PairOutcome, K)
	for i := 0; i < K; i++ {
		outcome[i] = make([]collide.PairOutcome, K)
		for j := i; j < K; j++ {
			qd, err := cfg.QD.At(g.Cent[j], g.Rho, vij)
			if err != nil {
				return nil, err
			}
			mi, mj := g.Mass[i], g.Mass[j]
			qr := collide.SpecificImpactEnergy(mi, mj, vij)
			fLF := collide.LargestRemnantFraction(qr, qd, cfg.FMin)
			sLR := math.Cbrt((mi + mj) * fLF / ((4.0 / 3.0) * math.Pi * g.Rho))
			kLR := collide.LargestRemnantBin(g.Cent, sLR)
			outcome[i][j] = collide.PairOutcome{KLR: kLR, FLF: fLF}
		}
	}
	return outcome, nil
}

// Close releases the output writers. Idempotent, matching each
// writer's own idempotent Close.
func (d *Driver) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{d.series, d.psd, d.massBudget} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// cancelled reports whether a cooperative cancellation was requested.
func (d *Driver) cancelled() bool {
	if d.Cancel == nil {
		return false
	}
	select {
	case <-d.Cancel:
		return true
	default:
		return false
	}
}

// Run executes the outer time loop until every cell has stopped or
// the configured horizon is reached (spec §4.9), returning the final
// run summary. verbose mirrors gofem's NewMain ShowMsg convention.
func (d *Driver) Run(verbose bool) (*output.Summary, error) {
	cputime := time.Now()
	defer d.Close()

	tEndSeconds := d.cfg.Numerics.TEndYears * yearInSeconds
	useTStop := d.cfg.Numerics.TEndUntilTemperatureK > 0

	dt := d.cfg.Numerics.DtInit
	if dt <= 0 {
		dt = 1.0
	}

	for {
		if d.cancelled() {
			if verbose {
				io.Pf("> marsdisk: cancellation requested at t=%v, step=%d\n", d.time, d.step)
			}
			break
		}

		TM := d.tables.Temperature.T(d.time)
		if tEndSeconds > 0 && d.time >= tEndSeconds {
			break
		}
		if useTStop && TM <= d.cfg.Numerics.TEndUntilTemperatureK {
			break
		}
		if d.allStopped() {
			break
		}

		sBlow, err := radiation.SBlow(TM, d.radConst, d.tables.Qpr)
		if err != nil {
			return nil, err
		}
		betaAtSBlow := radiation.Beta(sBlow, TM, d.radConst, d.tables.Qpr)

		errs := make([]error, len(d.cells))
		var wg sync.WaitGroup
		for i := range d.cells {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = d.stepCell(i, TM, sBlow, betaAtSBlow, dt)
			}(i)
		}
		wg.Wait()
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}

		if d.cfg.Numerics.Diffusion.Enabled {
			sig := make([]float64, len(d.cells))
			r := make([]float64, len(d.cells))
			for i, c := range d.cells {
				sig[i] = c.SigSurf
				r[i] = c.R
			}
			if err := diffuseSigSurf(sig, r, d.cfg.Numerics.Diffusion.Coeff, dt); err != nil {
				return nil, err
			}
			for i, c := range d.cells {
				if c.Status == grid.Running {
					c.SigSurf = sig[i]
				}
			}
		}

		d.time += dt
		d.step++
		if verbose && d.step%100 == 0 {
			io.Pf("> marsdisk: step=%d t=%.6g T_M=%.6g\n", d.step, d.time, TM)
		}
		if d.checkpoints != nil && d.time >= d.checkpointNext {
			if err := d.writeCheckpoint(); err != nil {
				return nil, err
			}
			d.checkpointNext = d.time + d.cfg.Numerics.Checkpoint.IntervalYears*yearInSeconds
		}
	}

	summary := d.buildSummary()
	if verbose {
		if err := d.Close(); err != nil {
			io.PfRed("> marsdisk: failed closing output writers: %v\n", err)
		}
		io.PfGreen("> marsdisk: done, steps=%d t=%.6g (cpu %v)\n", d.step, d.time, time.Now().Sub(cputime))
		return summary, nil
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return summary, nil
}

const yearInSeconds = 365.25 * 24 * 3600

func (d *Driver) allStopped() bool {
	for _, c := range d.cells {
		if c.Status == grid.Running {
			return false
		}
	}
	return true
}

// writeCheckpoint snapshots every cell's mutable state and hands the
// result to d.checkpoints (spec §6 numerics.checkpoint, external
// interfaces checkpoint write hook). No per-cell RNG survives past
// setup (build.go only draws from it once, to seed the initial PSD),
// so every snapshot's RngState is 0 rather than a live stream state.
func (d *Driver) writeCheckpoint() error {
	cp := &output.Checkpoint{
		Time:      d.time,
		Step:      d.step,
		GridEdges: d.grid.Edges,
		GridRho:   d.grid.Rho,
	}
	for _, c := range d.cells {
		cp.Cells = append(cp.Cells, output.SnapshotCell(c, 0))
	}
	_, err := d.checkpoints.Write(cp)
	return err
}

func (d *Driver) buildSummary() *output.Summary {
	s := &output.Summary{
		Steps:  d.step,
		TFinal: d.time,
	}
	for i, c := range d.cells {
		s.Cells = append(s.Cells, output.CellSummary{
			CellIndex:    i,
			StopReason:   c.Status.String(),
			StopTime:     d.time,
			MassLossBlow: c.MLossBlow,
			MassLossSink: c.MLossSink,
		})
		s.TotalMassLoss += c.MLossBlow + c.MLossSink
	}
	s.MaxEpsMass = d.massBudget.MaxEpsMass()
	return s
}
