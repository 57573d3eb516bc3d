// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

import (
	"math"
)

// SatPressureTable supplies P_sat(T) for the HKL sublimation flux
// (spec §4.6, §6): either a two-coefficient Clausius form valid over a
// stated range, or a monotone (PCHIP-style) interpolation of a log10 P
// table.
type SatPressureTable interface {
	PSat(T float64) float64
}

// ClausiusSat implements log10 P_sat = A - B/T, valid on [TMin, TMax].
// Outside the range the value is still evaluated (the form is smooth
// and monotone by construction) but a clamp warning fires once.
type ClausiusSat struct {
	A, B       float64
	TMin, TMax float64
	warner     *clampWarner
}

// NewClausiusSat builds a two-coefficient Clausius-Clapeyron fit.
func NewClausiusSat(a, b, tMin, tMax float64) *ClausiusSat {
	return &ClausiusSat{A: a, B: b, TMin: tMin, TMax: tMax, warner: newClampWarner()}
}

func (c *ClausiusSat) PSat(T float64) float64 {
	if T <= 0 {
		return 0
	}
	if (T < c.TMin || T > c.TMax) && c.warner != nil {
		c.warner.warn("psat_clausius", "T")
	}
	log10P := c.A - c.B/T
	return math.Pow(10, log10P)
}

// PCHIPSat interpolates a table of log10(P_sat) against T with a
// monotone piecewise-cubic Hermite scheme so the reconstructed P_sat
// never overshoots between the tabulated points (important near the
// sublimation onset where P_sat grows by orders of magnitude per K).
type PCHIPSat struct {
	T       []float64
	Log10P  []float64
	tangent []float64 // precomputed monotone tangents, one per node
	warner  *clampWarner
}

type pchipFile struct {
	T      []float64 `json:"t"`
	Log10P []float64 `json:"log10p"`
}

// LoadPCHIPSat reads a (T, log10 P_sat) table from a JSON file and
// precomputes Fritsch-Carlson monotone tangents.
func LoadPCHIPSat(path string) (*PCHIPSat, error) {
	var raw pchipFile
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("t", raw.T); err != nil {
		return nil, err
	}
	if len(raw.Log10P) != len(raw.T) {
		return nil, chkErrShape("psat", "t", len(raw.T), len(raw.Log10P))
	}
	p := &PCHIPSat{T: raw.T, Log10P: raw.Log10P, warner: newClampWarner()}
	p.tangent = fritschCarlsonTangents(p.T, p.Log10P)
	return p, nil
}

// fritschCarlsonTangents computes monotone-preserving derivative
// estimates at each knot (Fritsch & Carlson, 1980).
func fritschCarlsonTangents(x, y []float64) []float64 {
	n := len(x)
	d := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		d[i] = (y[i+1] - y[i]) / (x[i+1] - x[i])
	}
	m := make([]float64, n)
	if n == 1 {
		return m
	}
	m[0] = d[0]
	m[n-1] = d[n-2]
	for i := 1; i < n-1; i++ {
		if d[i-1] == 0 || d[i] == 0 || (d[i-1] > 0) != (d[i] > 0) {
			m[i] = 0
		} else {
			m[i] = (d[i-1] + d[i]) / 2
		}
	}
	for i := 0; i < n-1; i++ {
		if d[i] == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a := m[i] / d[i]
		b := m[i+1] / d[i]
		s := a*a + b*b
		if s > 9 {
			tau := 3 / math.Sqrt(s)
			m[i] = tau * a * d[i]
			m[i+1] = tau * b * d[i]
		}
	}
	return m
}

func (p *PCHIPSat) PSat(T float64) float64 {
	i, _ := clamp1D(p.T, T, "psat_pchip", "T", p.warner)
	n := len(p.T)
	if n == 1 {
		return math.Pow(10, p.Log10P[0])
	}
	if T <= p.T[0] {
		return math.Pow(10, p.Log10P[0])
	}
	if T >= p.T[n-1] {
		return math.Pow(10, p.Log10P[n-1])
	}
	h := p.T[i+1] - p.T[i]
	t := (T - p.T[i]) / h
	t2, t3 := t*t, t*t*t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	log10P := h00*p.Log10P[i] + h10*h*p.tangent[i] + h01*p.Log10P[i+1] + h11*h*p.tangent[i+1]
	return math.Pow(10, log10P)
}
