// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ode

import (
	"math"

	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/la"
)

// numericJacobian is the finite-difference Jacobian estimator of §4.2/§4.3: it perturbs x_j by
// max(|x_j|*eps, eps) and records entries whose magnitude exceeds atol (small entries are dropped
// rather than inserted as explicit near-zeros, keeping the sparsity pattern meaningful for the linear
// solver adapter's pattern-change detection). fx must already hold rhs(x,t); w is an N-long scratch
// vector. Returns the number of RHS evaluations performed (N, since the base value is reused).
func numericJacobian(dfdx *la.Triplet, rhs fun.Rhs, t float64, x, fx, w la.Vector, eps, atol float64) (nfeval int, err error) {
	n := len(x)
	dfdx.Start()
	fw := la.NewVector(n)
	for j := 0; j < n; j++ {
		dx := eps * math.Max(math.Abs(x[j]), 1.0)
		if dx == 0 {
			dx = eps
		}
		la.VecCopy(w, x)
		w[j] += dx
		if e := rhs(fw, t, w); e != nil {
			return nfeval, &Error{Kind: KindUserError, T: t, Msg: "RHS failed during Jacobian estimation: " + e.Error()}
		}
		nfeval++
		if !la.IsFinite(fw) {
			return nfeval, &Error{Kind: KindUserError, T: t, Msg: "non-finite RHS output during Jacobian estimation"}
		}
		for i := 0; i < n; i++ {
			v := (fw[i] - fx[i]) / dx
			if math.Abs(v) > atol {
				dfdx.Put(i, j, v)
			}
		}
	}
	return nfeval, nil
}
