// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package num implements the damped-Newton solver ode.ConsistentInitialCondition uses internally to
// resolve a DAE's algebraic unknowns at t0 before the BDF corrector ever takes a step, plus the
// finite-difference Jacobian estimator and backtracking line search it is built from.
package num

import (
	"math"

	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/io"
	"github.com/gosl-dae/daecore/la"
)

// NlSolver drives Newton's method, optionally damped by a backtracking line search, to solve a small
// dense system g(x) = 0. It is sized for the reduced algebraic subsystems ode.ConsistentInitialCondition
// builds (a handful of unknowns, one equation per algebraic row of the mass matrix), so it always goes
// through la.SparseLU, the same linear-solver adapter the BDF corrector itself uses — there is no
// separate dense-inversion backend here.
type NlSolver struct {
	linSearch   bool
	linSchMaxIt int
	maxIt       int
	atol, rtol, ftol float64
	fnewt            float64 // [derived] Newton convergence threshold on the scaled step norm

	neq  int
	scal la.Vector
	fx   la.Vector
	mdx  la.Vector
	w    la.Vector // finite-difference workspace, only used when Jfcn is nil

	Ffcn fun.Vv // g(x)
	Jfcn fun.Tv // dg/dx, sparse; nil selects the finite-difference estimator in jacobian.go

	Jtri    la.Triplet
	lis     la.SparseLU
	lsReady bool

	phi    float64   // 0.5*g.g at the line-search base point
	dphidx la.Vector // gradient of phi
	x0     la.Vector // line-search base point

	It     int // iterations used by the last Solve call
	NFeval int // Ffcn evaluations
	NJeval int // Jfcn (or finite-difference) evaluations
}

// NewNlSolver builds an NlSolver for a system of neq equations in neq unknowns. jfcn may be nil, in
// which case num.Jacobian (forward differences) estimates dg/dx at every iteration.
func NewNlSolver(neq int, ffcn fun.Vv, jfcn fun.Tv, linSearch bool) *NlSolver {
	o := &NlSolver{
		linSearch:   linSearch,
		linSchMaxIt: 20,
		maxIt:       20,
		neq:         neq,
		Ffcn:        ffcn,
		Jfcn:        jfcn,
	}
	o.SetTols(1e-8, 1e-8, 1e-9)
	o.scal = la.NewVector(neq)
	o.fx = la.NewVector(neq)
	o.mdx = la.NewVector(neq)
	if jfcn == nil {
		o.w = la.NewVector(neq)
	}
	o.Jtri.Init(neq, neq, neq*neq)
	o.dphidx = la.NewVector(neq)
	o.x0 = la.NewVector(neq)
	return o
}

// Free releases the linear solver's workspace
func (o *NlSolver) Free() { o.lis.Free() }

// SetTols sets the absolute/relative/function tolerances and derives the Newton step-norm threshold
// from them, the way Hairer & Wanner's formula for a Newton-embedded-in-BDF solver does.
func (o *NlSolver) SetTols(atol, rtol, ftol float64) {
	o.atol, o.rtol, o.ftol = atol, rtol, ftol
	o.fnewt = math.Max(10.0*MACHEPS/rtol, math.Min(0.03, math.Sqrt(rtol)))
}

// Solve finds x such that Ffcn(x) == 0, starting from the guess already in x and overwriting it with
// the converged point. Returns a non-nil error if convergence was not reached within maxIt iterations
// or if the linear solve underneath failed (singular reduced Jacobian).
func (o *NlSolver) Solve(x la.Vector, silent bool) error {

	la.VecScaleAbs(o.scal, o.atol, o.rtol, x)

	o.Ffcn(o.fx, x)
	o.NFeval, o.NJeval = 1, 0
	if !silent {
		o.msg("", 0, 0, 0, true, false)
	}

	var Ldx float64
	for o.It = 0; o.It < o.maxIt; o.It++ {

		fxMax := o.fx.Largest(1.0)
		if fxMax < o.ftol {
			if !silent {
				o.msg("fxMax(ini)", o.It, Ldx, fxMax, false, true)
			}
			return nil
		}
		if !silent {
			o.msg("", o.It, Ldx, fxMax, false, false)
		}

		if o.Jfcn != nil {
			o.Jtri.Start()
			o.Jfcn(&o.Jtri, x)
		} else {
			Jacobian(&o.Jtri, o.Ffcn, x, o.fx, o.w)
			o.NFeval += o.neq
		}
		o.NJeval++

		if !o.lsReady {
			if err := o.lis.Init(&o.Jtri, &la.SpArgs{}); err != nil {
				return err
			}
			o.lsReady = true
		}
		if err := o.lis.Fact(); err != nil {
			return err
		}
		if err := o.lis.Solve(o.mdx, o.fx, false); err != nil {
			return err
		}

		if o.linSearch {
			o.phi = 0.5 * la.VecDot(o.fx, o.fx)
			la.SpTriMatTrVecMul(o.dphidx, &o.Jtri, o.fx)
		}

		Ldx = 0.0
		for i := 0; i < o.neq; i++ {
			o.x0[i] = x[i]
			x[i] -= o.mdx[i]
			Ldx += (o.mdx[i] / o.scal[i]) * (o.mdx[i] / o.scal[i])
		}
		Ldx = math.Sqrt(Ldx / float64(o.neq))

		o.Ffcn(o.fx, x)
		o.NFeval++

		fxMax = o.fx.Largest(1.0)
		if fxMax < o.ftol {
			if !silent {
				o.msg("fxMax", o.It, Ldx, fxMax, false, true)
			}
			return nil
		}
		if Ldx < o.fnewt {
			if !silent {
				o.msg("Ldx", o.It, Ldx, fxMax, false, true)
			}
			return nil
		}

		if o.linSearch {
			nfv := LineSearch(x, o.fx, o.Ffcn, o.mdx, o.x0, o.dphidx, o.phi, o.linSchMaxIt, true)
			o.NFeval += nfv
			Ldx = 0.0
			for i := 0; i < o.neq; i++ {
				Ldx += ((x[i] - o.x0[i]) / o.scal[i]) * ((x[i] - o.x0[i]) / o.scal[i])
			}
			Ldx = math.Sqrt(Ldx / float64(o.neq))
			fxMax = o.fx.Largest(1.0)
			if Ldx < o.fnewt {
				if !silent {
					o.msg("Ldx(linsrch)", o.It, Ldx, fxMax, false, true)
				}
				return nil
			}
		}
	}
	return &NonConvergenceError{It: o.maxIt}
}

// NonConvergenceError is returned by Solve when Newton's method fails to converge within maxIt
// iterations; the caller (ode.ConsistentInitialCondition) wraps it into an *ode.Error.
type NonConvergenceError struct{ It int }

func (e *NonConvergenceError) Error() string {
	return io.Sf("Newton's method did not converge after %d iterations", e.It)
}

// msg prints Newton iteration diagnostics
func (o *NlSolver) msg(typ string, it int, Ldx, fxMax float64, first, last bool) {
	if first {
		io.Pf("\n%4s%23s%23s\n", "it", "Ldx", "fxMax")
		io.Pf("%4s%23s%23s\n", "", io.Sf("(%7.1e)", o.fnewt), io.Sf("(%7.1e)", o.ftol))
		return
	}
	io.Pf("%4d%23.15e%23.15e\n", it, Ldx, fxMax)
	if last {
		io.Pf(". . . converged with %s. nit=%d, nFeval=%d, nJeval=%d\n", typ, it, o.NFeval, o.NJeval)
	}
}
