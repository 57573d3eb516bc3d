// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shielding

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/tables"
)

func Test_kappasurf01(tst *testing.T) {

	chk.PrintTitle("kappasurf01")

	qpr := tables.NewConstantQpr(1.0)
	cent := []float64{1e-6}
	N := []float64{1e10}
	k := KappaSurf(cent, N, 2000, 0.0, qpr)
	if k != 0 {
		tst.Fatalf("KappaSurf with zero SigSurf must return 0, got %v", k)
	}
	k2 := KappaSurf(cent, N, 2000, 1.0, qpr)
	want := math.Pi * cent[0] * cent[0] * N[0]
	if math.Abs(k2-want) > 1e-6*want {
		tst.Fatalf("KappaSurf = %v, want %v", k2, want)
	}
}

func Test_evaluate01_diagnostic_infinite(tst *testing.T) {

	chk.PrintTitle("shield01")

	qpr := tables.NewConstantQpr(1.0)
	phi := tables.NewAbsorptionOnlyPhi()
	cent := []float64{1e-6}
	N := []float64{0}
	r := Evaluate(cent, N, 2000, 0.0, 1.0, 0, 0, qpr, phi)
	if !math.IsInf(r.SigmaTauOne, 1) {
		tst.Fatalf("SigmaTauOne must be +Inf when kappa_eff==0, got %v", r.SigmaTauOne)
	}
	if r.TauLOS != 0 {
		tst.Fatalf("TauLOS must be 0 with zero opacity, got %v", r.TauLOS)
	}
}

func Test_evaluate02_consistency(tst *testing.T) {

	chk.PrintTitle("shield02")

	qpr := tables.NewConstantQpr(1.0)
	phi := tables.NewAbsorptionOnlyPhi()
	cent := []float64{1e-6}
	N := []float64{1e11}
	r := Evaluate(cent, N, 2000, 1.0, 1.0, 0, 0, qpr, phi)
	if r.KappaEff <= 0 || r.TauLOS <= 0 {
		tst.Fatalf("expected positive kappa_eff/tau_los, got %+v", r)
	}
	if math.Abs(r.SigmaTauOne-1.0/r.KappaEff) > 1e-12 {
		tst.Fatalf("SigmaTauOne must equal 1/KappaEff")
	}
}
