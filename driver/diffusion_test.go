// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_diffusion01_smooths_a_spike(tst *testing.T) {

	chk.PrintTitle("diffusion01")

	sig := []float64{1, 1, 10, 1, 1}
	r := []float64{1, 2, 3, 4, 5}
	total0 := sum(sig)

	if err := diffuseSigSurf(sig, r, 0.05, 100); err != nil {
		tst.Fatalf("diffuseSigSurf failed: %v", err)
	}

	if sig[2] >= 10 {
		tst.Fatalf("expected the central spike to relax, got %v", sig[2])
	}
	if math.Abs(sum(sig)-total0) > 1e-6*total0 {
		tst.Fatalf("diffusion should conserve the total, got %v want %v", sum(sig), total0)
	}
}

func Test_diffusion02_noop_when_disabled_or_too_few_cells(tst *testing.T) {

	chk.PrintTitle("diffusion02")

	sig := []float64{1, 5}
	r := []float64{1, 2}
	if err := diffuseSigSurf(sig, r, 0.05, 100); err != nil {
		tst.Fatalf("diffuseSigSurf failed: %v", err)
	}
	if sig[0] != 1 || sig[1] != 5 {
		tst.Fatalf("expected a no-op below 3 cells, got %v", sig)
	}

	sig3 := []float64{1, 1, 10}
	if err := diffuseSigSurf(sig3, []float64{1, 2, 3}, 0, 100); err != nil {
		tst.Fatalf("diffuseSigSurf failed: %v", err)
	}
	if sig3[2] != 10 {
		tst.Fatalf("expected a no-op with zero coefficient, got %v", sig3)
	}
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
