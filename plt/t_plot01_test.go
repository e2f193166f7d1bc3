// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plt

import (
	"strings"
	"testing"

	"github.com/gosl-dae/daecore/chk"
)

func TestArgsString01(tst *testing.T) {

	chk.PrintTitle("ArgsString01. styling subset")

	a := A{C: "red", Lw: 1.2, Ls: "--", L: "gosl"}
	s := a.String()
	chk.String(tst, s, ",color='red',lw=1.2,linestyle='--',label=r'gosl'")
}

func TestArgsStringNil(tst *testing.T) {

	chk.PrintTitle("ArgsStringNil. nil args render as empty")

	var a *A
	chk.String(tst, a.String(), "")
}

func TestPlotBuffersCommands(tst *testing.T) {

	chk.PrintTitle("PlotBuffersCommands. Plot/Gll/SetLabels emit matplotlib source")

	Reset()
	Plot([]float64{0, 1, 2}, []float64{0, 1, 4}, &A{C: "b", L: "x(t)"})
	Gll("t", "x")
	Title("trajectory")

	generated := bufferPy.String()
	for _, want := range []string{"plt.plot(", "color='b'", "label=r'x(t)'", "plt.xlabel", "plt.legend()", "plt.title"} {
		if !strings.Contains(generated, want) {
			tst.Errorf("generated Python source missing %q\ngot:\n%s", want, generated)
		}
	}
}
