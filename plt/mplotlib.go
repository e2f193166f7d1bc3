// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plt generates Python (matplotlib) source and shells out to a system python
// interpreter to render it, following the teacher's own plotting idiom. It is not part of
// the DAE core (spec.md §1 names plotting hooks an external collaborator); it exists only so
// the cmd/ example drivers can render a state trajectory against time.
package plt

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gosl-dae/daecore/chk"
	"github.com/gosl-dae/daecore/io"
)

// TemporaryDir is the path of the generated Python source file
var TemporaryDir = "/tmp/daecore.py"

// buffer holding generated Python commands
var bufferPy bytes.Buffer

// fileExt holds the output file extension used by Save
var fileExt = ".png"

func init() {
	Reset()
}

// Reset clears the drawing buffer and (re)writes the matplotlib header; optional, since plt
// works without calling it, but a long-running driver producing several figures should call it
// between figures.
func Reset() {
	bufferPy.Reset()
	io.Ff(&bufferPy, pythonHeader)
}

// A carries the small subset of matplotlib styling options this trimmed package exposes:
// line color, width, style and legend label. The teacher's own plt.A carries many more fields
// (marker style, face/edge color, font sizes, ...); only the subset a line-plot of a state
// trajectory needs is kept here (see DESIGN.md).
type A struct {
	C  string  // color, e.g. "b", "red", "#427ce5"
	Lw float64 // line width
	Ls string  // line style, e.g. "-", "--"
	L  string  // legend label
}

// String renders the non-empty fields of A as matplotlib keyword arguments
func (o *A) String() string {
	if o == nil {
		return ""
	}
	var sb bytes.Buffer
	if o.C != "" {
		fmt.Fprintf(&sb, ",color='%s'", o.C)
	}
	if o.Lw > 0 {
		fmt.Fprintf(&sb, ",lw=%g", o.Lw)
	}
	if o.Ls != "" {
		fmt.Fprintf(&sb, ",linestyle='%s'", o.Ls)
	}
	if o.L != "" {
		fmt.Fprintf(&sb, ",label=r'%s'", o.L)
	}
	return sb.String()
}

// Plot plots the x-y series with the given styling (args may be nil)
func Plot(x, y []float64, args *A) {
	sx, sy := genArray("x", x), genArray("y", y)
	io.Ff(&bufferPy, "plt.plot(%s,%s%s)\n", sx, sy, args.String())
}

// SetLabels sets the x and y axis labels
func SetLabels(xlabel, ylabel string) {
	io.Ff(&bufferPy, "plt.xlabel(r'%s')\nplt.ylabel(r'%s')\n", xlabel, ylabel)
}

// Gll adds a grid, axis labels and (if any series carries a label) a legend
func Gll(xlabel, ylabel string) {
	io.Ff(&bufferPy, "plt.grid(color='grey', zorder=-1000)\n")
	SetLabels(xlabel, ylabel)
	io.Ff(&bufferPy, "h, l = plt.gca().get_legend_handles_labels()\n")
	io.Ff(&bufferPy, "if len(h) > 0: plt.legend()\n")
}

// Title sets the figure title
func Title(txt string) {
	io.Ff(&bufferPy, "plt.title(r'%s')\n", txt)
}

// Save creates dirout if necessary and renders the figure to dirout/fnkey.png, by running python
func Save(dirout, fnkey string) {
	if dirout == "" || fnkey == "" {
		chk.Panic("directory and filename key must not be empty")
	}
	if err := os.MkdirAll(dirout, 0777); err != nil {
		chk.Panic("cannot create directory to save figure file:\n%v", err)
	}
	fn := filepath.Join(dirout, fnkey+fileExt)
	io.Ff(&bufferPy, "plt.savefig(r'%s', bbox_inches='tight')\n", fn)
	run(fn)
}

// Show renders the figure interactively, by running python
func Show() {
	io.Ff(&bufferPy, "plt.show()\n")
	run("")
}

// genArray renders a []float64 as inline Python/NumPy source and returns the generated
// expression, so callers can embed several arrays in one statement
func genArray(prefix string, u []float64) string {
	var sb bytes.Buffer
	fmt.Fprintf(&sb, "np.array([")
	for i := range u {
		fmt.Fprintf(&sb, "%g,", u[i])
	}
	fmt.Fprintf(&sb, "],dtype=float)")
	return sb.String()
}

// run writes the accumulated Python buffer to TemporaryDir and executes it
func run(fn string) {
	io.WriteFile(TemporaryDir, bufferPy.Bytes())

	cmd := exec.Command("python3", TemporaryDir)
	var out, serr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &serr
	if err := cmd.Run(); err != nil {
		chk.Panic("call to Python failed:\n%v", serr.String())
	}
	if fn != "" {
		io.Pf("file <%s> written\n", fn)
	}
	io.Pf("%s", out.String())
}

const pythonHeader = `### file generated by daecore #################################################
import numpy as np
import matplotlib.pyplot as plt
`
