// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"
)

// diffuseSigSurf applies one operator-split step of the radial
// diffusion equation d(Sigma)/dt = D * d/dr(d(Sigma)/dr) across the
// N_cells radial cells (named in spec.md §1's non-goal: "no viscous
// radial transport beyond an optional operator-split Neumann diffusion
// step"), with zero-flux (Neumann) boundaries at the innermost and
// outermost cell. Cells are assumed ordered by increasing r, matching
// the radial-array convention the rest of the engine uses (cfg.Cells.R).
// Disabled by default (numerics.diffusion.enabled=false); a no-op for
// fewer than three cells, since there is no interior flux to resolve.
//
// Grounded on the same Radau5/gosl-ode pattern the retention model
// uses to integrate its capillary-pressure ODE: a stiff implicit
// solver fed an analytic Jacobian via a sparse Triplet.
func diffuseSigSurf(sig, r []float64, coeff, dt float64) error {
	n := len(sig)
	if !(coeff > 0) || !(dt > 0) || n < 3 || len(r) != n {
		return nil
	}

	// neighbour spacings dr[i] = r[i+1]-r[i]; each neighbour term is
	// D*(y_j-y_i)/dr^2, Neumann (zero-flux) at the domain edges by
	// simply omitting the missing neighbour term.
	dr := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dr[i] = r[i+1] - r[i]
	}

	fcn := func(f []float64, dx, x float64, y []float64) (e error) {
		for i := 0; i < n; i++ {
			var flux float64
			if i > 0 {
				flux += coeff * (y[i-1] - y[i]) / (dr[i-1] * dr[i-1])
			}
			if i < n-1 {
				flux += coeff * (y[i+1] - y[i]) / (dr[i] * dr[i])
			}
			f[i] = flux
		}
		return nil
	}

	jac := func(dfdy *la.Triplet, dx, x float64, y []float64) (e error) {
		if dfdy.Max() == 0 {
			dfdy.Init(n, n, 3*n)
		}
		dfdy.Start()
		for i := 0; i < n; i++ {
			var diag float64
			if i > 0 {
				diag -= coeff / (dr[i-1] * dr[i-1])
				dfdy.Put(i, i-1, coeff/(dr[i-1]*dr[i-1]))
			}
			if i < n-1 {
				diag -= coeff / (dr[i] * dr[i])
				dfdy.Put(i, i+1, coeff/(dr[i]*dr[i]))
			}
			dfdy.Put(i, i, diag)
		}
		return nil
	}

	var odesol ode.Solver
	odesol.Init("Radau5", n, fcn, jac, nil, nil)
	odesol.SetTol(1e-8, 1e-6)
	odesol.Distr = false

	return odesol.Solve(sig, 0, dt, dt, false)
}
