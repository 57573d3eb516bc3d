// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"github.com/cpmech/marsdisk/collide"
	"github.com/cpmech/marsdisk/config"
	"github.com/cpmech/marsdisk/tables"
)

// Tables bundles every immutable, once-loaded input table consumed by
// the per-cell step pipeline (spec §6 External Interfaces), safe for
// concurrent unsynchronised reads once LoadTables returns (spec §5
// "Global resources ... may be concurrently read by all workers
// without synchronisation").
type Tables struct {
	Qpr         *tables.QprTable
	Phi         *tables.PhiTable
	Temperature tables.TemperatureDriver
	PSat        tables.SatPressureTable
	QDStar      collide.QDStarTable
}

// LoadTables resolves every table/driver selection in cfg.Tables,
// falling back to the degenerate analytic forms (constant Q_pr,
// absorption-only Φ, slab cooling) when no on-disk table path is
// configured, matching the single-bin scenarios of spec §8.
func LoadTables(cfg *config.Config) (*Tables, error) {
	t := &Tables{}

	if cfg.Tables.QprPath != "" {
		qpr, err := tables.LoadQprTable(cfg.Tables.QprPath)
		if err != nil {
			return nil, err
		}
		t.Qpr = qpr
	} else {
		t.Qpr = tables.NewConstantQpr(cfg.Tables.QprConstant)
	}

	if cfg.Tables.PhiMode == "table" {
		phi, err := tables.LoadPhiTable(cfg.Tables.PhiPath)
		if err != nil {
			return nil, err
		}
		t.Phi = phi
	} else {
		t.Phi = tables.NewAbsorptionOnlyPhi()
	}

	switch cfg.Tables.TemperatureMode {
	case "table":
		td, err := tables.LoadTableDriver(cfg.Tables.TemperaturePath)
		if err != nil {
			return nil, err
		}
		t.Temperature = td
	case "hyodo":
		t.Temperature = &tables.HyodoLinearFlux{T0: cfg.Tables.HyodoT0, K: cfg.Tables.HyodoK, Floor: cfg.Tables.HyodoFloor}
	default:
		t.Temperature = &tables.SlabCooling{T0: cfg.Tables.SlabT0, Tau: cfg.Tables.SlabTau}
	}

	if cfg.Sublimation.Mode != "none" {
		if cfg.Tables.PSatMode == "pchip" {
			p, err := tables.LoadPCHIPSat(cfg.Tables.PSatPath)
			if err != nil {
				return nil, err
			}
			t.PSat = p
		} else {
			t.PSat = tables.NewClausiusSat(cfg.Sublimation.A, cfg.Sublimation.B, cfg.Sublimation.TMin, cfg.Sublimation.TMax)
		}
	}

	coeffs := make([]collide.QDStarCoeffs, len(cfg.Collisions.VRefList))
	for i := range coeffs {
		coeffs[i] = collide.QDStarCoeffs{
			VRef: cfg.Collisions.VRefList[i],
			Qs:   cfg.Collisions.QsList[i],
			As:   cfg.Collisions.AsList[i],
			B:    cfg.Collisions.BList[i],
			Bg:   cfg.Collisions.BgList[i],
		}
	}
	t.QDStar = collide.QDStarTable{Coeffs: coeffs}

	return t, nil
}
