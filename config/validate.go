// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "github.com/cpmech/gosl/chk"

// Validate performs field-by-field checks against spec.md §7's
// Configuration error class: missing required fields, unrecognised
// enum values, and contradictory flag combinations are all reported
// here, at load, as a single fail-fast error.
func (o *Config) Validate() error {
	if o.Physical.GM <= 0 || o.Physical.RM <= 0 {
		return chk.Err("config: physical.gm/r_m must be positive (gm=%v, r_m=%v)", o.Physical.GM, o.Physical.RM)
	}
	if o.Physical.SigmaSB <= 0 || o.Physical.C <= 0 {
		return chk.Err("config: physical.sigma_sb/c must be positive")
	}

	if len(o.Cells.R) == 0 {
		return chk.Err("config: cells.r must list at least one cell radius")
	}
	if len(o.Cells.SigSurf0) != len(o.Cells.R) {
		return chk.Err("config: cells.sig_surf0 length %d does not match cells.r length %d", len(o.Cells.SigSurf0), len(o.Cells.R))
	}
	if len(o.Cells.InitialWeights) != 0 && len(o.Cells.InitialWeights) != len(o.Cells.R) {
		return chk.Err("config: cells.initial_weights length %d does not match cells.r length %d", len(o.Cells.InitialWeights), len(o.Cells.R))
	}

	if o.Tables.QprPath == "" && o.Tables.QprConstant <= 0 {
		return chk.Err("config: tables.qpr_constant must be positive when tables.qpr_path is unset")
	}
	switch o.Tables.PhiMode {
	case "absorption_only":
	case "table":
		if o.Tables.PhiPath == "" {
			return chk.Err("config: tables.phi_path required when tables.phi_mode is \"table\"")
		}
	default:
		return chk.Err("config: tables.phi_mode %q not recognised", o.Tables.PhiMode)
	}
	switch o.Tables.TemperatureMode {
	case "table":
		if o.Tables.TemperaturePath == "" {
			return chk.Err("config: tables.temperature_path required when tables.temperature_mode is \"table\"")
		}
	case "slab":
		if o.Tables.SlabT0 <= 0 || o.Tables.SlabTau <= 0 {
			return chk.Err("config: tables.slab_t0/slab_tau must be positive for slab cooling")
		}
	case "hyodo":
		if o.Tables.HyodoT0 <= 0 {
			return chk.Err("config: tables.hyodo_t0 must be positive for hyodo cooling")
		}
	default:
		return chk.Err("config: tables.temperature_mode %q not recognised", o.Tables.TemperatureMode)
	}
	if o.Sublimation.Mode != "none" {
		switch o.Tables.PSatMode {
		case "clausius":
			if o.Sublimation.TMax <= o.Sublimation.TMin {
				return chk.Err("config: sublimation.t_min/t_max invalid (t_min=%v, t_max=%v)", o.Sublimation.TMin, o.Sublimation.TMax)
			}
		case "pchip":
			if o.Tables.PSatPath == "" {
				return chk.Err("config: tables.psat_path required when tables.psat_mode is \"pchip\"")
			}
		default:
			return chk.Err("config: tables.psat_mode %q not recognised", o.Tables.PSatMode)
		}
	}

	if o.Grid.K <= 0 {
		return chk.Err("config: grid.k must be positive (got %d)", o.Grid.K)
	}
	if o.Grid.SMin <= 0 || o.Grid.SMax <= o.Grid.SMin {
		return chk.Err("config: grid.s_min/s_max invalid (s_min=%v, s_max=%v)", o.Grid.SMin, o.Grid.SMax)
	}
	if o.Grid.Rho <= 0 {
		return chk.Err("config: grid.rho must be positive (got %v)", o.Grid.Rho)
	}

	switch o.Shielding.Mode {
	case "off", "psitau", "fixed_tau1":
	default:
		return chk.Err("config: shielding.mode %q not recognised", o.Shielding.Mode)
	}
	if o.Shielding.Mode == "fixed_tau1" && o.Shielding.FixedTauOne <= 0 {
		return chk.Err("config: shielding.fixed_tau1 must be positive when shielding.mode is \"fixed_tau1\"")
	}
	if o.Shielding.Omega0 < 0 || o.Shielding.Omega0 > 1 {
		return chk.Err("config: shielding.omega0 must be in [0,1] (got %v)", o.Shielding.Omega0)
	}

	switch o.Supply.Mode {
	case "const", "powerlaw", "table", "piecewise":
	default:
		return chk.Err("config: supply.mode %q not recognised", o.Supply.Mode)
	}
	switch o.Supply.InjectionMode {
	case "min_bin", "powerlaw_bins", "initial_psd":
	default:
		return chk.Err("config: supply.injection_mode %q not recognised", o.Supply.InjectionMode)
	}
	switch o.Supply.HeadroomPolicy {
	case "clip", "off":
	default:
		return chk.Err("config: supply.headroom_policy %q not recognised", o.Supply.HeadroomPolicy)
	}
	switch o.Supply.Transport.Mode {
	case "direct", "deep_mixing":
	default:
		return chk.Err("config: supply.transport.mode %q not recognised", o.Supply.Transport.Mode)
	}
	switch o.Supply.Reservoir.DepletionMode {
	case "", "hard_stop", "taper":
	default:
		return chk.Err("config: supply.reservoir.depletion_mode %q not recognised", o.Supply.Reservoir.DepletionMode)
	}

	// spec §9 open question: mu_orbit10pct and a direct const rate are
	// two distinct mass-rate conventions, both representable, but
	// giving them conflicting values for the same run is contradictory.
	if o.Supply.MuOrbit != 0 && o.Supply.OrbitFraction != 0 && o.Supply.Mode == "const" {
		// orbit_fraction without a nonzero mu_orbit (or vice versa), or
		// both set to the same value, is fine; both nonzero with
		// different values under the const pathway is the overlap the
		// spec calls out as a validator duty.
		if o.Supply.MuOrbit != o.Supply.OrbitFraction {
			return chk.Err("config: supply.mu_orbit and supply.orbit_fraction both set to conflicting values; specify one mass-rate convention")
		}
	}

	switch o.Sublimation.Mode {
	case "none", "timescale", "mass_conserving":
	default:
		return chk.Err("config: sublimation.mode %q not recognised", o.Sublimation.Mode)
	}

	switch o.Collisions.CoeffUnits {
	case "si", "ba99_cgs":
	default:
		return chk.Err("config: collisions.coeff_units %q not recognised", o.Collisions.CoeffUnits)
	}
	switch o.Collisions.VelocityMode {
	case "rayleigh_low_e", "pericentre", "pericenter":
	default:
		return chk.Err("config: collisions.velocity_mode %q not recognised", o.Collisions.VelocityMode)
	}
	if len(o.Collisions.VRefList) == 0 {
		return chk.Err("config: collisions.v_ref_list must not be empty")
	}
	nv := len(o.Collisions.VRefList)
	if len(o.Collisions.QsList) != nv || len(o.Collisions.AsList) != nv ||
		len(o.Collisions.BList) != nv || len(o.Collisions.BgList) != nv {
		return chk.Err("config: collisions qs_list/as_list/b_list/bg_list must each match v_ref_list in length (%d)", nv)
	}

	switch o.Phase.TemperatureInput {
	case "mars_surface", "particle":
	default:
		return chk.Err("config: phase.temperature_input %q not recognised", o.Phase.TemperatureInput)
	}
	if o.Phase.Enabled && o.Phase.TCondense >= o.Phase.TVaporize {
		return chk.Err("config: phase.t_condense must be below phase.t_vaporize (got %v, %v)", o.Phase.TCondense, o.Phase.TVaporize)
	}

	if o.Numerics.Safety <= 0 || o.Numerics.Safety > 1 {
		return chk.Err("config: numerics.safety must be in (0,1] (got %v)", o.Numerics.Safety)
	}
	if o.Numerics.MassTol <= 0 {
		return chk.Err("config: numerics.mass_tol must be positive (got %v)", o.Numerics.MassTol)
	}
	if o.Numerics.TEndYears <= 0 && o.Numerics.TEndUntilTemperatureK <= 0 {
		return chk.Err("config: numerics requires either t_end_years or t_end_until_temperature_k")
	}
	if o.Numerics.SubstepFastBlowout && o.Numerics.SubstepMaxRatio <= 0 {
		return chk.Err("config: numerics.substep_max_ratio must be positive when substep_fast_blowout is enabled")
	}
	if o.Numerics.Diffusion.Enabled && o.Numerics.Diffusion.Coeff <= 0 {
		return chk.Err("config: numerics.diffusion.coeff must be positive when numerics.diffusion.enabled is true")
	}

	return nil
}
