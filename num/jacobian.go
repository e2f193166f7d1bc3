// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"math"

	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/la"
)

// MACHEPS is the machine epsilon for float64, used to derive Newton tolerances
const MACHEPS = 2.22044604925031308e-16

// dxFactor is the relative perturbation used by forward-difference Jacobian estimation
const dxFactor = 1e-8

// Jacobian computes a forward-difference approximation of the Jacobian of ffcn at x, storing it into
// dfdx (already Start()'ed by the caller is not required: Jacobian calls Start() itself). fx must
// hold ffcn(x) on entry (the base function value, reused rather than recomputed) and w is workspace of
// length len(x).
func Jacobian(dfdx *la.Triplet, ffcn fun.Vv, x, fx, w la.Vector) {
	n := len(x)
	dfdx.Start()
	for j := 0; j < n; j++ {
		dx := dxFactor * math.Max(math.Abs(x[j]), dxFactor)
		copy(w, x)
		// protect against the zero-perturbation edge case (x[j] exactly zero and dxFactor underflowing)
		if dx == 0 {
			dx = dxFactor
		}
		w[j] += dx
		var fw la.Vector = la.NewVector(n)
		ffcn(fw, w)
		for i := 0; i < n; i++ {
			dfdx.Put(i, j, (fw[i]-fx[i])/dx)
		}
	}
}
