// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phase

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_classify01_hysteresis(tst *testing.T) {

	chk.PrintTitle("classify01")

	cfg := Config{Enabled: true, TCondense: 1500, TVaporize: 2500}

	if got := Classify(cfg, 2000, Solid); got != Solid {
		tst.Fatalf("mid-band from Solid must stay Solid, got %v", got)
	}
	if got := Classify(cfg, 2600, Solid); got != Vapor {
		tst.Fatalf("above TVaporize must flip to Vapor, got %v", got)
	}
	if got := Classify(cfg, 2000, Vapor); got != Vapor {
		tst.Fatalf("mid-band from Vapor must stay Vapor, got %v", got)
	}
	if got := Classify(cfg, 1400, Vapor); got != Solid {
		tst.Fatalf("below TCondense must flip to Solid, got %v", got)
	}
}

func Test_classify02_disabled(tst *testing.T) {

	chk.PrintTitle("classify02")

	cfg := Config{Enabled: false}
	if got := Classify(cfg, 10, Vapor); got != Solid {
		tst.Fatalf("disabled phase logic must always report Solid, got %v", got)
	}
}

func Test_gates01(tst *testing.T) {

	chk.PrintTitle("gates01")

	cfg := Config{TauGate: 1.0, TauStopGate: 2.0}
	g := Evaluate(cfg, Solid, 0.5)
	if !g.AllowSupply || !g.AllowBlowout {
		tst.Fatalf("solid phase below both gates should allow both, got %+v", g)
	}
	g2 := Evaluate(cfg, Solid, 1.5)
	if g2.AllowBlowout {
		tst.Fatalf("blow-out must be disallowed once tau exceeds TauGate")
	}
	if !g2.AllowSupply {
		tst.Fatalf("supply must still be allowed below TauStopGate")
	}
	g3 := Evaluate(cfg, Vapor, 0.1)
	if g3.AllowSupply || g3.AllowBlowout {
		tst.Fatalf("vapor phase must disable both gates, got %+v", g3)
	}
}
