// Copyright 2026 The Marsdisk Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
)

// PSDRow is one row of the PSD history (spec §6 output schema): the
// number density and mass surface density carried by a single bin of
// a single cell at a single time.
type PSDRow struct {
	Time      float64 `json:"time"`
	CellIndex int     `json:"cell_index"`
	BinIndex  int     `json:"bin_index"`
	SCenter   float64 `json:"s_center"`
	NBin      float64 `json:"n_bin"`
	SigSurfBin float64 `json:"sig_surf_bin"`
}

// PSDWriter appends newline-delimited JSON PSD rows, mirroring
// SeriesWriter's scoped-resource shape.
type PSDWriter struct {
	f      *os.File
	w      *bufio.Writer
	enc    *json.Encoder
	closed bool
}

// OpenPSDWriter creates (or truncates) path for PSD-history output.
func OpenPSDWriter(path string) (*PSDWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, chk.Err("output: cannot create PSD history file %q: %v", path, err)
	}
	w := bufio.NewWriter(f)
	return &PSDWriter{f: f, w: w, enc: json.NewEncoder(w)}, nil
}

// Append writes one row.
func (o *PSDWriter) Append(row PSDRow) error {
	if err := o.enc.Encode(&row); err != nil {
		return chk.Err("output: cannot append PSD row: %v", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Idempotent.
func (o *PSDWriter) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return chk.Err("output: cannot flush PSD history file: %v", err)
	}
	return o.f.Close()
}
