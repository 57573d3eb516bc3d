// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_qpr01(tst *testing.T) {

	chk.PrintTitle("qpr01")

	q := NewConstantQpr(1.5)
	if v := q.At(1e-6, 2000); v != 1.5 {
		tst.Fatalf("constant Qpr = %v, want 1.5", v)
	}
	// out-of-range lookups still clamp, not panic
	if v := q.At(-1, 1e9); v != 1.5 {
		tst.Fatalf("clamped Qpr = %v, want 1.5", v)
	}
}

func Test_phi01(tst *testing.T) {

	chk.PrintTitle("phi01")

	p := NewAbsorptionOnlyPhi()
	got := p.At(2.0, 0, 0)
	want := math.Exp(-2.0)
	if math.Abs(got-want) > 1e-12 {
		tst.Fatalf("Phi absorption-only = %v, want %v", got, want)
	}
}

func Test_temperature01(tst *testing.T) {

	chk.PrintTitle("temperature01")

	d := &TableDriver{Time: []float64{0, 10, 20}, Temp: []float64{4000, 2000, 1000}, Edge: "hold"}
	if v := d.T(5); math.Abs(v-3000) > 1e-9 {
		tst.Fatalf("T(5) = %v, want 3000", v)
	}
	if v := d.T(-5); v != 4000 {
		tst.Fatalf("hold edge below range: T(-5) = %v, want 4000", v)
	}
	if v := d.T(100); v != 1000 {
		tst.Fatalf("hold edge above range: T(100) = %v, want 1000", v)
	}

	slab := &SlabCooling{T0: 4000, Tau: 1.0}
	if v := slab.T(0); v != 4000 {
		tst.Fatalf("slab T(0) = %v, want 4000", v)
	}
	if slab.T(1.0) >= slab.T(0) {
		tst.Fatalf("slab cooling must be monotone decreasing")
	}
}

func Test_psat01(tst *testing.T) {

	chk.PrintTitle("psat01")

	c := NewClausiusSat(10, 2000, 100, 300)
	p1 := c.PSat(150)
	p2 := c.PSat(250)
	if p2 <= p1 {
		tst.Fatalf("P_sat must increase with T")
	}
}

func Test_psat_pchip_monotone(tst *testing.T) {

	chk.PrintTitle("psat_pchip01")

	p := &PCHIPSat{T: []float64{100, 150, 200, 250}, Log10P: []float64{-10, -5, -1, 2}}
	p.tangent = fritschCarlsonTangents(p.T, p.Log10P)
	prev := p.PSat(100)
	for _, T := range []float64{110, 130, 160, 190, 210, 240, 250} {
		v := p.PSat(T)
		if v < prev {
			tst.Fatalf("PCHIP P_sat not monotone at T=%v: %v < %v", T, v, prev)
		}
		prev = v
	}
}
