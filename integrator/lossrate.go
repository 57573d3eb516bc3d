// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrator

// CombineSinkRates fills sink with the sum of the non-collisional
// per-bin loss-rate contributors (spec §4.8 step 1: λ_k = λ_collisional,k
// + S_blow,k + S_sub,k + S_ext,k), reusing the caller-owned buffer. Any
// of the input slices may be nil to omit that contributor.
func CombineSinkRates(blowout, sublimation, alt []float64, sink []float64) {
	for k := range sink {
		sink[k] = 0
		if blowout != nil {
			sink[k] += blowout[k]
		}
		if sublimation != nil {
			sink[k] += sublimation[k]
		}
		if alt != nil {
			sink[k] += alt[k]
		}
	}
}
