// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// QDStarCoeffs holds the Benz-Asphaug-style strength-law coefficients
// at one reference velocity (spec §4.7): Q_D* = Qs*s^as + B*rho*s^bg.
type QDStarCoeffs struct {
	VRef float64
	Qs   float64
	As   float64
	B    float64
	Bg   float64
}

// QDStarTable interpolates the strength-law coefficients linearly in
// velocity across a small set of reference points (spec §4.7: "a small
// set of v_ref and interpolated linearly in v").
type QDStarTable struct {
	Coeffs []QDStarCoeffs // must be sorted by VRef ascending
}

// At returns Q_D*(s, rho, v) using coefficients linearly interpolated
// between the bracketing v_ref entries (clamped at the table edges).
func (t QDStarTable) At(s, rho, v float64) (float64, error) {
	if len(t.Coeffs) == 0 {
		return 0, chk.Err("collide: QDStarTable has no coefficients")
	}
	c, err := t.interpolate(v)
	if err != nil {
		return 0, err
	}
	return c.Qs*math.Pow(s, c.As) + c.B*rho*math.Pow(s, c.Bg), nil
}

func (t QDStarTable) interpolate(v float64) (QDStarCoeffs, error) {
	n := len(t.Coeffs)
	if n == 1 {
		return t.Coeffs[0], nil
	}
	if v <= t.Coeffs[0].VRef {
		return t.Coeffs[0], nil
	}
	if v >= t.Coeffs[n-1].VRef {
		return t.Coeffs[n-1], nil
	}
	for i := 0; i < n-1; i++ {
		lo, hi := t.Coeffs[i], t.Coeffs[i+1]
		if v >= lo.VRef && v <= hi.VRef {
			frac := (v - lo.VRef) / (hi.VRef - lo.VRef)
			return QDStarCoeffs{
				Qs: lo.Qs + frac*(hi.Qs-lo.Qs),
				As: lo.As + frac*(hi.As-lo.As),
				B:  lo.B + frac*(hi.B-lo.B),
				Bg: lo.Bg + frac*(hi.Bg-lo.Bg),
			}, nil
		}
	}
	return QDStarCoeffs{}, chk.Err("collide: velocity %v not bracketed by reference table", v)
}
