// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command marsdisk runs a single dusty-disk collision-cascade
// simulation from a JSON configuration file and writes its series,
// particle-size-distribution history, and mass-budget artefacts to an
// output directory derived from the configuration's filename.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/marsdisk/config"
	"github.com/cpmech/marsdisk/driver"
)

func main() {

	erasefiles := true
	verbose := true

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	io.PfWhite("\nmarsdisk -- dusty debris-disk collision-cascade engine\n\n")
	io.Pf("Copyright 2026 The Marsdisk Authors. All rights reserved.\n")
	io.Pf("Use of this source code is governed by a BSD-style\n")
	io.Pf("license that can be found in the LICENSE file.\n\n")

	// configuration filenamepath
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a configuration filename. Ex.: run.json")
	}

	// check extension
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".json"
	}

	// other options
	if len(flag.Args()) > 1 {
		erasefiles = io.Atob(flag.Arg(1))
	}
	if len(flag.Args()) > 2 {
		verbose = io.Atob(flag.Arg(2))
	}

	// profiling?
	defer utl.DoProf(false)()

	// load and validate the configuration
	cfg, err := config.Load(fnamepath)
	if err != nil {
		chk.Panic("%v", err)
	}

	// output directory, keyed off the configuration's base filename,
	// the way gofem keys its DirOut off the simulation's .sim filename
	fnkey := io.FnKey(filepath.Base(fnamepath))
	dirOut := filepath.Join(filepath.Dir(fnamepath), fnkey+"_out")
	if erasefiles {
		io.RemoveAll(io.Sf("%s/*", dirOut))
	}
	if err := os.MkdirAll(dirOut, 0777); err != nil {
		chk.Panic("cannot create output directory %q: %v", dirOut, err)
	}

	seriesPath := filepath.Join(dirOut, fnkey+"_series.ndjson")
	psdPath := filepath.Join(dirOut, fnkey+"_psd.ndjson")
	massBudgetPath := filepath.Join(dirOut, fnkey+"_mass_budget.ndjson")

	// build and run
	d, err := driver.New(cfg, seriesPath, psdPath, massBudgetPath)
	if err != nil {
		chk.Panic("%v", err)
	}

	summary, err := d.Run(verbose)
	if err != nil {
		chk.Panic("%v", err)
	}

	summaryPath := filepath.Join(dirOut, fnkey+"_summary.json")
	if err := summary.Save(summaryPath); err != nil {
		chk.Panic("%v", err)
	}

	if verbose {
		io.Pf("> marsdisk: wrote %s, %s, %s, %s\n", seriesPath, psdPath, massBudgetPath, summaryPath)
		for _, c := range summary.Cells {
			io.Pf("> cell %d: stop=%s mass_loss_blow=%.6g mass_loss_sink=%.6g\n",
				c.CellIndex, c.StopReason, c.MassLossBlow, c.MassLossSink)
		}
		if summary.MaxEpsMass > cfg.Numerics.MassTol {
			io.Pfyel("> marsdisk: warning: max mass-budget residual %.3g exceeds tolerance %.3g\n",
				summary.MaxEpsMass, cfg.Numerics.MassTol)
		}
	}
}
