// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package radiation

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/tables"
)

func testConstants() Constants {
	return Constants{
		SigmaSB: 5.670374e-8,
		RM:      3.3895e6,
		GMM:     4.282837e13,
		C:       2.99792458e8,
		Rho:     3270,
	}
}

func Test_beta01(tst *testing.T) {

	chk.PrintTitle("beta01")

	cst := testConstants()
	qpr := tables.NewConstantQpr(1.0)
	b := Beta(1e-6, 4000, cst, qpr)
	if b <= 0 || math.IsNaN(b) {
		tst.Fatalf("beta must be positive finite, got %v", b)
	}
	// beta must decrease monotonically with s for fixed Qpr
	b2 := Beta(1e-5, 4000, cst, qpr)
	if b2 >= b {
		tst.Fatalf("beta should decrease with larger s")
	}
}

func Test_sblow01(tst *testing.T) {

	chk.PrintTitle("sblow01")

	cst := testConstants()
	qpr := tables.NewConstantQpr(1.0)
	sBlow, err := SBlow(4000, cst, qpr)
	if err != nil {
		tst.Fatalf("SBlow failed: %v", err)
	}
	b := Beta(sBlow, 4000, cst, qpr)
	if math.Abs(b-0.5) > 1e-4 {
		tst.Fatalf("beta(s_blow) = %v, want 0.5", b)
	}
}

func Test_chiblow01(tst *testing.T) {

	chk.PrintTitle("chiblow01")

	fixed := ChiBlow{Auto: false, Fixed: 1.3}
	if fixed.Value(0.7) != 1.3 {
		tst.Fatalf("fixed chi_blow must ignore beta")
	}

	auto := ChiBlow{Auto: true}
	if v := auto.Value(10.0); v != 2.0 {
		tst.Fatalf("auto chi_blow must clip to 2.0, got %v", v)
	}
	if v := auto.Value(0.01); v != 0.5 {
		tst.Fatalf("auto chi_blow must clip to 0.5, got %v", v)
	}
}

func Test_blowoutsink01(tst *testing.T) {

	chk.PrintTitle("blowoutsink01")

	cent := []float64{1e-7, 1e-6, 1e-5, 1e-4}
	S := make([]float64, len(cent))
	BlowoutSink(cent, 1e-6, 100.0, S)
	want := []float64{0.01, 0.01, 0, 0}
	for k := range S {
		if math.Abs(S[k]-want[k]) > 1e-12 {
			tst.Fatalf("S[%d] = %v, want %v", k, S[k], want[k])
		}
	}
}
