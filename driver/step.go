// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"math"

	"github.com/cpmech/marsdisk/collide"
	"github.com/cpmech/marsdisk/grid"
	"github.com/cpmech/marsdisk/integrator"
	"github.com/cpmech/marsdisk/output"
	"github.com/cpmech/marsdisk/phase"
	"github.com/cpmech/marsdisk/radiation"
	"github.com/cpmech/marsdisk/shielding"
	"github.com/cpmech/marsdisk/sublim"
	"github.com/cpmech/marsdisk/supply"
)

// shieldingResult evaluates the configured shielding mode (spec §4.3):
// "psitau" runs the full self-consistent Φ(τ)-coupled model, "fixed_tau1"
// fixes Σ_{τ=1} at a configured value with κ_eff derived from it, and
// "off" disables shielding entirely (κ_eff=0, τ_los=0, Σ_{τ=1}=+Inf).
func (d *Driver) shieldingResult(c *grid.CellState, TM float64) shielding.Result {
	switch d.cfg.Shielding.Mode {
	case "off":
		return shielding.Result{SigmaTauOne: math.Inf(1)}
	case "fixed_tau1":
		kSurf := shielding.KappaSurf(d.grid.Cent, c.N, TM, c.SigSurf, d.tables.Qpr)
		sigTauOne := d.cfg.Shielding.FixedTauOne
		kEff := 0.0
		if sigTauOne > 0 {
			kEff = 1.0 / sigTauOne
		}
		return shielding.Result{
			KappaSurf:   kSurf,
			KappaEff:    kEff,
			TauLOS:      d.cfg.Shielding.FLos * kEff * c.SigSurf,
			SigmaTauOne: sigTauOne,
		}
	default:
		return shielding.Evaluate(d.grid.Cent, c.N, TM, c.SigSurf, d.cfg.Shielding.FLos,
			d.cfg.Shielding.Omega0, d.cfg.Shielding.G, d.tables.Qpr, d.tables.Phi)
	}
}

// stepCell runs the full §4.3-4.8 component chain for one cell over one
// outer step and emits its output rows. Cells are independent: every
// slice this function touches belongs exclusively to cell i (spec §5).
func (d *Driver) stepCell(i int, TM, sBlow, betaAtSBlow, dt float64) error {
	c := d.cells[i]
	rt := d.rt[i]
	g := d.grid

	omega := math.Sqrt(d.cfg.Physical.GM / (c.R * c.R * c.R))

	if c.Status != grid.Running {
		return d.emitRow(i, TM, sBlow, 0, 0, dt, 0, 0, 0, phase.Gates{}, supply.Result{}, integrator.Result{})
	}

	sr := d.shieldingResult(c, TM)

	var T float64
	switch d.phaseCfg.TemperatureInput {
	case phase.Particle:
		T = phase.ParticleTemperature(TM, d.phaseCfg.QAbsMean, d.cfg.Physical.RM, c.R)
	default:
		T = TM
	}
	ph := phase.Classify(d.phaseCfg, T, rt.prevPhase)
	gates := phase.Evaluate(d.phaseCfg, ph, sr.TauLOS)
	rt.prevPhase = ph

	tBlow, err := radiation.TBlow(d.chiBlow, betaAtSBlow, d.cfg.Physical.GM, c.R)
	if err != nil {
		return err
	}

	if gates.AllowBlowout {
		radiation.BlowoutSink(g.Cent, sBlow, tBlow, rt.blowS)
	} else {
		for k := range rt.blowS {
			rt.blowS[k] = 0
		}
	}

	for k := range rt.subS {
		rt.subS[k] = 0
	}
	var lostSublimMass float64
	if d.sublimCfg.Mode != sublim.None {
		J := sublim.Flux(d.sublimCfg, T, d.tables.PSat)
		dsdt := sublim.DSDt(d.sublimCfg, J)
		switch d.sublimCfg.Mode {
		case sublim.Timescale:
			sublim.TimescaleSink(g.Cent, dsdt, rt.subS)
		case sublim.MassConserving:
			newN := c.Work.Scratch1
			lostSublimMass = sublim.MassConservingStep(g.Edges, g.Cent, g.Mass, c.N, dsdt, dt, c.SMinEff, newN)
			copy(c.N, newN)
		}
	}

	for k := range rt.altS {
		rt.altS[k] = 0
	}
	if !gates.AllowBlowout && ph == phase.Vapor && d.cfg.Phase.AltSinkTimescale > 0 {
		tSinkK := c.Work.Scratch2
		for k := range tSinkK {
			tSinkK[k] = d.cfg.Phase.AltSinkTimescale
		}
		phase.AltSinkRate(tSinkK, rt.altS)
	}

	vK := math.Sqrt(d.cfg.Physical.GM / c.R)
	collide.AssembleCij(d.collideCfg, g.Cent, c.N, d.cfg.Dynamics.E, d.cfg.Dynamics.I, c.R, vK, c.Work.Cij)
	collide.LossRates(c.Work.Cij, c.N, c.Work.Loss)
	collide.GainContraction(d.collideCfg, g.Edges, g.Mass, c.Work.Cij, rt.outcome, c.Work.Scratch1, c.Work.Gain)

	sc := &d.supplyCfg[i]
	muSup := d.cfg.Supply.MuOrbit
	if d.cfg.Supply.OrbitFraction != 0 {
		muSup = d.cfg.Supply.OrbitFraction
	}
	tauField := sr.TauLOS
	supplyRes := supply.Evaluate(sc, TM, sr.SigmaTauOne, c.SigSurf, tauField, muSup, tBlow, omega, dt, gates.AllowSupply)

	deepToSurf := 0.0
	if sc.Transport.Mode == supply.DeepMixing {
		deepToSurf = supply.DeepToSurfaceFlux(c.SigDeep, sc.Transport, omega)
		c.SigDeep += (supplyRes.ProdToDeep - deepToSurf) * dt
		if c.SigDeep < 0 {
			c.SigDeep = 0
		}
	}
	appliedRate := supplyRes.Applied + deepToSurf

	initialWeights := cellWeights(d.cfg, g, i)
	if err := supply.InjectionWeights(sc.InjectionMode, g, sc, initialWeights, c.Work.Scratch2); err != nil {
		return err
	}
	supply.PerBinSourceRate(c.Work.Scratch2, g.Mass, appliedRate, c.Work.Fsrc)

	integrator.CombineSinkRates(rt.blowS, rt.subS, rt.altS, rt.sinkTotal)

	intIn := integrator.Input{
		N:                 c.N,
		Mass:              g.Mass,
		G:                 c.Work.Gain,
		F:                 c.Work.Fsrc,
		LambdaCollisional: c.Work.Loss,
		LambdaSink:        rt.sinkTotal,
		Dt:                dt,
		TBlow:             tBlow,
	}
	res, err := integrator.Step(d.intCfg, intIn)
	if err != nil {
		return err
	}
	c.N = res.N

	// attribute the combined sink mass across blow-out vs. the other
	// sinks by their relative rate share, since the integrator reports
	// only the combined figure (spec §9 open question: no per-
	// contributor breakdown is specified).
	var blowShare, otherShare float64
	for k := range rt.sinkTotal {
		blowShare += g.Mass[k] * c.N[k] * rt.blowS[k]
		otherShare += g.Mass[k] * c.N[k] * (rt.subS[k] + rt.altS[k])
	}
	total := blowShare + otherShare
	massLossBlow, massLossSink := 0.0, 0.0
	if total > 0 {
		massLossBlow = res.MassSunk * blowShare / total
		massLossSink = res.MassSunk * otherShare / total
	}
	c.MLossBlow += massLossBlow + lostSublimMass
	c.MLossSink += massLossSink

	if d.phaseCfg.AllowTL2003Coupling {
		tColl := math.Inf(1)
		for k := range c.Work.Loss {
			if c.Work.Loss[k] > 0 {
				t := 1.0 / c.Work.Loss[k]
				if t < tColl {
					tColl = t
				}
			}
		}
		tSinkAgg := math.Inf(1)
		if otherShare > 0 && c.SigSurf > 0 {
			tSinkAgg = c.SigSurf * total / otherShare
		}
		sigNew, _ := integrator.SurfaceStep(c.SigSurf, dt, appliedRate, tBlow, tColl, tSinkAgg)
		c.SigSurf = sigNew
	} else {
		c.SigSurf = g.TotalMass(c.N)
	}

	if sBlow > c.SMinEff {
		c.SMinEff = sBlow
	}

	c.Status, c.StopReason = integrator.Transition(d.stopCfg, c.Status, sr.TauLOS, c.SMinEff, TM)

	return d.emitRow(i, TM, sBlow, sr.KappaSurf, sr.TauLOS, dt, tBlow, massLossBlow/dt, massLossSink/dt, gates, supplyRes, res)
}

// emitRow writes the series, PSD-history and mass-budget rows for one
// cell's just-completed step (spec §6 output schema). mOutDot and
// mSinkDot are the blow-out-only and other-sink-only mass rates
// stepCell already split out of the integrator's combined figure,
// matching the MLossCum/MSinkCum cumulative pairing below.
func (d *Driver) emitRow(i int, TM, sBlow, kappaSurf, tauLOS, dt, tBlow, mOutDot, mSinkDot float64, gates phase.Gates, sup supply.Result, res integrator.Result) error {
	c := d.cells[i]
	rt := d.rt[i]
	g := d.grid

	betaSRef := radiation.Beta(sBlow, TM, d.radConst, d.tables.Qpr)

	tCollMin := math.Inf(1)
	for k := range c.Work.Loss {
		if c.Work.Loss[k] > 0 {
			t := 1.0 / c.Work.Loss[k]
			if t < tCollMin {
				tCollMin = t
			}
		}
	}

	row := output.SeriesRow{
		Time:             d.time,
		Dt:               dt,
		CellIndex:        i,
		Rm:               c.R,
		TM:               TM,
		BetaSRef:         betaSRef,
		SBlow:            sBlow,
		SMin:             c.SMinEff,
		KappaSurf:        kappaSurf,
		TauLOS:           tauLOS,
		SigSurf:          c.SigSurf,
		SigDeep:          c.SigDeep,
		SigDotNominal:    sup.Nominal,
		SigDotScaled:     sup.Scaled,
		SigDotApplied:    sup.Applied,
		ProdToDeep:       sup.ProdToDeep,
		DeepToSurf:       sup.DeepToSurf,
		Headroom:         sup.Headroom,
		SupplyClipFactor: sup.SupplyClipFactor,
		FeedbackScale:    sup.FeedbackScale,
		TemperatureScale: sup.TemperatureScale,
		ReservoirRemain:  sup.ReservoirRemain,
		MOutDot:          mOutDot,
		MSinkDot:         mSinkDot,
		MLossCum:         c.MLossBlow,
		MSinkCum:         c.MLossSink,
		TCollMin:         tCollMin,
		TBlow:            tBlow,
		DtEff:            res.DtEffAccepted,
		FlagGt3:          res.FlagGt3,
		FlagGt10:         res.FlagGt10,
		NSubsteps:        res.NSubsteps,
		Phase:            rt.prevPhase.String(),
		AllowSupply:      gates.AllowSupply,
		AllowBlowout:     gates.AllowBlowout,
		StopReason:       c.StopReason,
	}
	if tBlow > 0 {
		row.DtOverTBlow = dt / tBlow
	}
	if err := d.series.Append(row); err != nil {
		return err
	}

	for k := 0; k < g.K; k++ {
		if err := d.psd.Append(output.PSDRow{
			Time:       d.time,
			CellIndex:  i,
			BinIndex:   k,
			SCenter:    g.Cent[k],
			NBin:       c.N[k],
			SigSurfBin: g.Mass[k] * c.N[k],
		}); err != nil {
			return err
		}
	}

	return d.massBudget.Append(output.MassBudgetRow{
		Time:       d.time,
		CellIndex:  i,
		EpsMass:    res.EpsMass,
		Iterations: res.Iterations,
		DtEff:      res.DtEffAccepted,
	})
}
