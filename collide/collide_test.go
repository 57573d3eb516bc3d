// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_velocity01_rayleigh(tst *testing.T) {

	chk.PrintTitle("velocity01")

	v := RelVel(RayleighLowE, 30000, 0.02, 0.01)
	want := 30000 * math.Sqrt(1.25*0.02*0.02+0.01*0.01)
	if math.Abs(v-want) > 1e-9*want {
		tst.Fatalf("RelVel rayleigh = %v, want %v", v, want)
	}
}

func Test_velocity02_pericentre(tst *testing.T) {

	chk.PrintTitle("velocity02")

	v := RelVel(Pericentre, 30000, 0.1, 0)
	want := 30000 * math.Sqrt(1.1/0.9)
	if math.Abs(v-want) > 1e-9*want {
		tst.Fatalf("RelVel pericentre = %v, want %v", v, want)
	}
}

func Test_velocity03_parse(tst *testing.T) {

	chk.PrintTitle("velocity03")

	if m, err := ParseVelocityMode("pericenter"); err != nil || m != Pericentre {
		tst.Fatalf("ParseVelocityMode failed: %v %v", m, err)
	}
	if _, err := ParseVelocityMode("bogus"); err == nil {
		tst.Fatalf("expected error for unrecognised velocity mode")
	}
}

func Test_kernel01_assemble_symmetry(tst *testing.T) {

	chk.PrintTitle("kernel01")

	cent := []float64{1e-6, 1e-5, 1e-4}
	N := []float64{1e10, 1e8, 1e6}
	cfg := Config{VelocityMode: RayleighLowE, Hfactor: 1.0}
	K := len(cent)
	Cij := make([][]float64, K)
	for k := range Cij {
		Cij[k] = make([]float64, K)
	}
	AssembleCij(cfg, cent, N, 0.02, 0.01, 1.5e11, 30000, Cij)
	for a := 0; a < K; a++ {
		for b := 0; b < K; b++ {
			if math.Abs(Cij[a][b]-Cij[b][a]) > 1e-9*math.Max(1, Cij[a][b]) {
				tst.Fatalf("Cij not symmetric at (%d,%d): %v vs %v", a, b, Cij[a][b], Cij[b][a])
			}
			if Cij[a][b] < 0 {
				tst.Fatalf("Cij negative at (%d,%d): %v", a, b, Cij[a][b])
			}
		}
	}
}

func Test_kernel02_loss_rates(tst *testing.T) {

	chk.PrintTitle("kernel02")

	N := []float64{1e10, 1e8}
	Cij := [][]float64{{2, 1}, {1, 3}}
	lambda := make([]float64, 2)
	LossRates(Cij, N, lambda)
	if math.Abs(lambda[0]-(2+1+2)/N[0]) > 1e-12 {
		tst.Fatalf("lambda[0] = %v", lambda[0])
	}
	if math.Abs(lambda[1]-(3+1+3)/N[1]) > 1e-12 {
		tst.Fatalf("lambda[1] = %v", lambda[1])
	}
}

func Test_kernel03_zero_population_loss(tst *testing.T) {

	chk.PrintTitle("kernel03")

	N := []float64{0, 1e8}
	Cij := [][]float64{{0, 0}, {0, 3}}
	lambda := make([]float64, 2)
	LossRates(Cij, N, lambda)
	if lambda[0] != 0 {
		tst.Fatalf("lambda for empty bin must be zero, got %v", lambda[0])
	}
}

func Test_strength01_qdstar_interp(tst *testing.T) {

	chk.PrintTitle("strength01")

	tbl := QDStarTable{Coeffs: []QDStarCoeffs{
		{VRef: 1000, Qs: 1e4, As: -0.3, B: 1, Bg: 1.3},
		{VRef: 5000, Qs: 2e4, As: -0.3, B: 1, Bg: 1.3},
	}}
	q, err := tbl.At(1e-3, 2000, 3000)
	if err != nil {
		tst.Fatalf("QDStarTable.At failed: %v", err)
	}
	if q <= 0 {
		tst.Fatalf("Q_D* must be positive, got %v", q)
	}
	// exact end points reproduce the input coefficients
	qLo, _ := tbl.At(1e-3, 0, 1000)
	qHi, _ := tbl.At(1e-3, 0, 5000)
	if qLo >= qHi {
		tst.Fatalf("Q_D* should increase with Qs across the table: %v vs %v", qLo, qHi)
	}
}

func Test_strength02_out_of_bracket_error(tst *testing.T) {

	chk.PrintTitle("strength02")

	tbl := QDStarTable{}
	if _, err := tbl.At(1e-3, 1000, 3000); err == nil {
		tst.Fatalf("expected error for empty coefficient table")
	}
}

func Test_regime01_largest_remnant_fraction(tst *testing.T) {

	chk.PrintTitle("regime01")

	f := LargestRemnantFraction(1.0, 1.0, 0.01)
	if math.Abs(f-0.5) > 1e-12 {
		tst.Fatalf("F_LF at Q_R=Q_D* should be 0.5, got %v", f)
	}
	fCrater := LargestRemnantFraction(0.1, 1.0, 0.01)
	if ClassifyRegime(fCrater) != Cratering {
		tst.Fatalf("low-energy impact should classify as cratering, F_LF=%v", fCrater)
	}
	fShatter := LargestRemnantFraction(100.0, 1.0, 0.01)
	if ClassifyRegime(fShatter) != Fragmentation {
		tst.Fatalf("high-energy impact should classify as fragmentation, F_LF=%v", fShatter)
	}
	if fShatter < 0.01 {
		tst.Fatalf("F_LF must respect the floor, got %v", fShatter)
	}
}

func Test_fragment01_weights_normalised(tst *testing.T) {

	chk.PrintTitle("fragment01")

	edges := []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3}
	w := make([]float64, 4)
	FragWeights(edges, 1.8, 2, w)
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-12 {
		tst.Fatalf("fragment weights must sum to 1, got %v", sum)
	}
	if w[3] != 0 {
		tst.Fatalf("weights above kLR must be zero, got w[3]=%v", w[3])
	}
}

func Test_fragment02_largest_remnant_bin(tst *testing.T) {

	chk.PrintTitle("fragment02")

	cent := []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5}
	k := LargestRemnantBin(cent, 6e-6)
	if cent[k] > 6e-6 {
		tst.Fatalf("LargestRemnantBin must not select a size above sLR, got cent[%d]=%v", k, cent[k])
	}
	if k != 3 {
		tst.Fatalf("expected bin 3 (cent=5e-6), got %d", k)
	}
}

func Test_fragment03_yield_sums_to_one(tst *testing.T) {

	chk.PrintTitle("fragment03")

	edges := []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3}
	kLR := 2
	fLF := 0.3
	w := make([]float64, 4)
	FragWeights(edges, 1.8, kLR, w)
	sum := 0.0
	for k := 0; k < 4; k++ {
		sum += FragmentYield(k, kLR, fLF, w)
	}
	if math.Abs(sum-1.0) > 1e-12 {
		tst.Fatalf("Sigma_k Y_kij must equal 1, got %v", sum)
	}
}

func Test_outcomes01_build(tst *testing.T) {

	chk.PrintTitle("outcomes01")

	cent := []float64{1e-6, 1e-5, 1e-4}
	mass := []float64{1e-12, 1e-9, 1e-6}
	cfg := Config{FMin: 0.01, QD: QDStarTable{Coeffs: []QDStarCoeffs{
		{VRef: 1000, Qs: 1e4, As: -0.3, B: 1, Bg: 1.3},
	}}}
	K := len(cent)
	outcome := make([][]PairOutcome, K)
	for i := range outcome {
		outcome[i] = make([]PairOutcome, K)
	}
	if err := BuildOutcomes(cfg, cent, mass, 3270, 3000, outcome); err != nil {
		tst.Fatalf("BuildOutcomes failed: %v", err)
	}
	for i := 0; i < K; i++ {
		for j := i; j < K; j++ {
			o := outcome[i][j]
			if o.FLF < cfg.FMin-1e-15 || o.FLF > 1 {
				tst.Fatalf("FLF out of range at (%d,%d): %v", i, j, o.FLF)
			}
			if o.KLR < 0 || o.KLR >= K {
				tst.Fatalf("KLR out of range at (%d,%d): %v", i, j, o.KLR)
			}
		}
	}
}

func Test_fragment04_gain_contraction_mass_conserving(tst *testing.T) {

	chk.PrintTitle("fragment04")

	edges := []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3}
	K := 4
	mass := make([]float64, K)
	for k := range mass {
		s := edges[k]
		mass[k] = (4.0 / 3.0) * math.Pi * s * s * s * 1000
	}
	Cij := [][]float64{
		{0, 0, 1.0, 0},
		{0, 0, 0, 0},
		{1.0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	outcome := make([][]PairOutcome, K)
	for i := range outcome {
		outcome[i] = make([]PairOutcome, K)
	}
	outcome[0][2] = PairOutcome{KLR: 1, FLF: 0.4}
	cfg := Config{AlphaFrag: 1.8}
	scratch := make([]float64, K)
	G := make([]float64, K)
	GainContraction(cfg, edges, mass, Cij, outcome, scratch, G)

	massOut := 0.0
	for k := range G {
		massOut += G[k] * mass[k]
	}
	cij := Cij[0][2]
	massIn := cij * (mass[0] + mass[2])
	if math.Abs(massOut-massIn) > 1e-9*massIn {
		tst.Fatalf("gain contraction must conserve mass: got %v, want %v", massOut, massIn)
	}
}
