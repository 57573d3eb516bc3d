// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the logarithmic size-bin discretisation and
// the per-cell state containers shared by every other component of the
// disk-evolution engine.
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Grid holds the fixed-shape size discretisation. Edges and centres are
// immutable once MakeGrid returns.
type Grid struct {
	K      int       // number of bins
	Rho    float64   // internal grain density [kg/m^3]
	Edges  []float64 // K+1 bin edges [m], s_{k-1/2} ... s_{K+1/2}
	Cent   []float64 // K bin centres [m], s_k = sqrt(edge_k * edge_{k+1})
	Width  []float64 // K bin widths [m]
	Mass   []float64 // K per-bin particle masses [kg], m_k = (4/3) pi rho s_k^3
}

// MakeGrid builds a logarithmic grid of K bins spanning [sMin, sMax].
func MakeGrid(sMin, sMax float64, K int, rho float64) (g *Grid, err error) {
	if K <= 0 {
		return nil, chk.Err("grid: K must be positive (K=%d)", K)
	}
	if sMin <= 0 || sMax <= sMin {
		return nil, chk.Err("grid: require 0 < sMin < sMax (sMin=%v, sMax=%v)", sMin, sMax)
	}
	if rho <= 0 {
		return nil, chk.Err("grid: rho must be positive (rho=%v)", rho)
	}
	g = &Grid{K: K, Rho: rho}
	logEdges := utl.LinSpace(math.Log(sMin), math.Log(sMax), K+1)
	g.Edges = make([]float64, K+1)
	for i, le := range logEdges {
		g.Edges[i] = math.Exp(le)
	}
	g.Cent = make([]float64, K)
	g.Width = make([]float64, K)
	g.Mass = make([]float64, K)
	for k := 0; k < K; k++ {
		g.Cent[k] = math.Sqrt(g.Edges[k] * g.Edges[k+1])
		g.Width[k] = g.Edges[k+1] - g.Edges[k]
		g.Mass[k] = (4.0 / 3.0) * math.Pi * rho * math.Pow(g.Cent[k], 3)
	}
	return g, nil
}

// BinOf returns the index of the bin containing size s, clamped to
// [0, K-1] when s falls outside the grid's edges.
func (g *Grid) BinOf(s float64) int {
	if s <= g.Edges[0] {
		return 0
	}
	if s >= g.Edges[g.K] {
		return g.K - 1
	}
	lo, hi := 0, g.K
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s < g.Edges[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// NumBins, Edge and Centre implement the minimal read-only grid view
// consumed by packages (e.g. supply) that must not import grid's
// concrete state types.
func (g *Grid) NumBins() int          { return g.K }
func (g *Grid) Edge(k int) float64    { return g.Edges[k] }
func (g *Grid) Centre(k int) float64  { return g.Cent[k] }

// TotalMass returns Σ_k m_k N_k for a number-density vector N.
func (g *Grid) TotalMass(N []float64) float64 {
	sum := 0.0
	for k := 0; k < g.K; k++ {
		sum += g.Mass[k] * N[k]
	}
	return sum
}
