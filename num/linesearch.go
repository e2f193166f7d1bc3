// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"math"

	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/la"
)

// LineSearch performs a backtracking line search along the Newton direction -mdx starting from x0,
// after the "full" Newton step would overshoot (Numerical Recipes' lnsrch). On entry x already holds
// the full-step point x0-mdx and fx holds ffcn(x); both are updated in place to the accepted point.
// dfdx holds the gradient of φ=0.5*f.f at x0 and phi0 its value there. Returns the number of extra
// function evaluations performed.
func LineSearch(x la.Vector, fx la.Vector, ffcn fun.Vv, mdx, x0, dfdx la.Vector, phi0 float64, maxIt int, silent bool) (nfeval int) {
	const alpha = 1e-4
	n := len(x0)

	slope := 0.0
	for i := 0; i < n; i++ {
		slope += dfdx[i] * (-mdx[i])
	}
	if slope >= 0 {
		return 0
	}

	lambda := 1.0
	lambdaMin := 1e-12
	var lambda2, phi2 float64
	for it := 0; it < maxIt; it++ {
		for i := 0; i < n; i++ {
			x[i] = x0[i] - lambda*mdx[i]
		}
		ffcn(fx, x)
		nfeval++
		phi := 0.5 * la.VecDot(fx, fx)
		if phi <= phi0+alpha*lambda*slope {
			return
		}
		if lambda < lambdaMin {
			return
		}
		var lambdaNew float64
		if it == 0 {
			lambdaNew = -slope / (2.0 * (phi - phi0 - slope))
		} else {
			rhs1 := phi - phi0 - lambda*slope
			rhs2 := phi2 - phi0 - lambda2*slope
			a := (rhs1/(lambda*lambda) - rhs2/(lambda2*lambda2)) / (lambda - lambda2)
			b := (-lambda2*rhs1/(lambda*lambda) + lambda*rhs2/(lambda2*lambda2)) / (lambda - lambda2)
			if a == 0 {
				lambdaNew = -slope / (2.0 * b)
			} else {
				disc := b*b - 3.0*a*slope
				if disc < 0 {
					lambdaNew = 0.5 * lambda
				} else {
					lambdaNew = (-b + math.Sqrt(disc)) / (3.0 * a)
				}
			}
			if lambdaNew > 0.5*lambda {
				lambdaNew = 0.5 * lambda
			}
		}
		lambda2, phi2 = lambda, phi
		lambda = math.Max(lambdaNew, 0.1*lambda)
	}
	return
}
