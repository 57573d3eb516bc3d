// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tables

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// TemperatureDriver supplies T_M(t), the Mars surface temperature
// history (spec §6). Three variants are supported: a linearly
// interpolated table with hold/extrapolate edge behaviour, a slab
// T^-3 cooling model, and a Hyodo-style linear-flux cooling model
// (spec §9 supplement 4).
type TemperatureDriver interface {
	T(t float64) float64
}

// TableDriver linearly interpolates a T_M(t) table.
type TableDriver struct {
	Time []float64
	Temp []float64
	Edge string // "hold" or "extrapolate"
}

type tableDriverFile struct {
	Time []float64 `json:"time"`
	Temp []float64 `json:"temp"`
	Edge string    `json:"edge"`
}

// LoadTableDriver reads a T_M(t) table from a JSON file.
func LoadTableDriver(path string) (*TableDriver, error) {
	var raw tableDriverFile
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if err := strictlyIncreasing("time", raw.Time); err != nil {
		return nil, err
	}
	if len(raw.Temp) != len(raw.Time) {
		return nil, chkErrShape("temperature", "time", len(raw.Time), len(raw.Temp))
	}
	edge := raw.Edge
	if edge == "" {
		edge = "hold"
	}
	if edge != "hold" && edge != "extrapolate" {
		return nil, chk.Err("temperature: unrecognised edge mode %q", edge)
	}
	return &TableDriver{Time: raw.Time, Temp: raw.Temp, Edge: edge}, nil
}

// T returns the interpolated (or edge-extended) temperature at time t.
func (d *TableDriver) T(t float64) float64 {
	n := len(d.Time)
	if n == 1 {
		return d.Temp[0]
	}
	if t <= d.Time[0] {
		if d.Edge == "hold" || t == d.Time[0] {
			return d.Temp[0]
		}
		slope := (d.Temp[1] - d.Temp[0]) / (d.Time[1] - d.Time[0])
		return d.Temp[0] + slope*(t-d.Time[0])
	}
	if t >= d.Time[n-1] {
		if d.Edge == "hold" || t == d.Time[n-1] {
			return d.Temp[n-1]
		}
		slope := (d.Temp[n-1] - d.Temp[n-2]) / (d.Time[n-1] - d.Time[n-2])
		return d.Temp[n-1] + slope*(t-d.Time[n-1])
	}
	i, frac := clamp1D(d.Time, t, "temperature", "time", nil)
	return d.Temp[i]*(1-frac) + d.Temp[i+1]*frac
}

// SlabCooling implements T_M(t) = T0 * (1 + t/tau)^(-1/3), the slab
// radiative-cooling closure (spec §6, §8 scenario 6).
type SlabCooling struct {
	T0  float64 // initial temperature [K]
	Tau float64 // cooling timescale [s]
}

func (s *SlabCooling) T(t float64) float64 {
	if t <= 0 {
		return s.T0
	}
	return s.T0 * math.Pow(1.0+t/s.Tau, -1.0/3.0)
}

// HyodoLinearFlux implements a linear-in-flux cooling model,
// T_M(t)^4 = T0^4 - k*t, clipped at a floor temperature (spec §6,
// following the Hyodo et al. style post-impact disk cooling law).
type HyodoLinearFlux struct {
	T0    float64 // initial temperature [K]
	K     float64 // flux decay rate [K^4/s]
	Floor float64 // floor temperature [K]
}

func (h *HyodoLinearFlux) T(t float64) float64 {
	t4 := math.Pow(h.T0, 4) - h.K*t
	if t4 <= math.Pow(h.Floor, 4) {
		return h.Floor
	}
	return math.Pow(t4, 0.25)
}
