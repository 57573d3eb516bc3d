// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package supply

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/marsdisk/grid"
)

func Test_reservoir01_hardstop(tst *testing.T) {

	chk.PrintTitle("reservoir01")

	r := &Reservoir{Enabled: true, MTotal: 10, Depletion: HardStop}
	if f := r.RemainingFraction(); f != 1.0 {
		tst.Fatalf("fresh reservoir fraction = %v, want 1.0", f)
	}
	r.Consume(10)
	if f := r.RemainingFraction(); f != 0 {
		tst.Fatalf("exhausted hard-stop reservoir fraction = %v, want 0", f)
	}
}

func Test_reservoir02_taper(tst *testing.T) {

	chk.PrintTitle("reservoir02")

	r := &Reservoir{Enabled: true, MTotal: 10, Depletion: Taper, TaperFraction: 0.2}
	r.Consume(9) // remaining = 0.1 < taper fraction 0.2
	f := r.RemainingFraction()
	want := 0.1 / 0.2
	if math.Abs(f-want) > 1e-9 {
		tst.Fatalf("taper fraction = %v, want %v", f, want)
	}
}

func Test_feedback01_clips(tst *testing.T) {

	chk.PrintTitle("feedback01")

	f := &Feedback{Enabled: true, TargetTau: 1.0, Gain: 0.1, ResponseYr: 1.0, MinScale: 0.1, MaxScale: 5.0}
	s := f.Scale(0.0, 1.0) // error = 1.0, should push scale up but clipped at MaxScale eventually
	if s < 1.0 {
		tst.Fatalf("feedback with positive error should scale up, got %v", s)
	}
	s2 := f.Scale(100.0, 1.0) // huge negative error
	if s2 < 0.1 {
		tst.Fatalf("feedback scale must respect MinScale floor, got %v", s2)
	}
}

func Test_injection01_minbin(tst *testing.T) {

	chk.PrintTitle("injection01")

	g, _ := grid.MakeGrid(1e-6, 1e-2, 10, 3000)
	cfg := &Config{InjSMin: g.Cent[3]}
	w := make([]float64, g.K)
	if err := InjectionWeights(MinBin, g, cfg, nil, w); err != nil {
		tst.Fatalf("InjectionWeights failed: %v", err)
	}
	if w[3] != 1.0 {
		tst.Fatalf("min_bin weight should be 1 at target bin, got %v", w[3])
	}
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-12 {
		tst.Fatalf("weights must sum to 1, got %v", sum)
	}
}

func Test_injection02_powerlaw(tst *testing.T) {

	chk.PrintTitle("injection02")

	g, _ := grid.MakeGrid(1e-7, 1e-1, 40, 3270)
	cfg := &Config{InjectionQ: 3.5, InjSMin: g.Edges[5], InjSMax: g.Edges[15]}
	w := make([]float64, g.K)
	if err := InjectionWeights(PowerlawBins, g, cfg, nil, w); err != nil {
		tst.Fatalf("InjectionWeights failed: %v", err)
	}
	sum := 0.0
	for k, v := range w {
		if v < 0 {
			tst.Fatalf("weight %d negative: %v", k, v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		tst.Fatalf("powerlaw weights must sum to 1, got %v", sum)
	}
	for k := 0; k < 5; k++ {
		if w[k] != 0 {
			tst.Fatalf("bin %d outside injection window should have zero weight", k)
		}
	}
}

func Test_source_rate01(tst *testing.T) {

	chk.PrintTitle("sourcerate01")

	w := []float64{0.5, 0.5}
	m := []float64{2.0, 4.0}
	F := make([]float64, 2)
	PerBinSourceRate(w, m, 10.0, F)
	mdot := 0.0
	for k := range F {
		mdot += m[k] * F[k]
	}
	if math.Abs(mdot-10.0) > 1e-9 {
		tst.Fatalf("Sum m_k F_k = %v, want 10.0", mdot)
	}
}
