// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ode

import (
	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/la"
	"github.com/gosl-dae/daecore/num"
)

// ConsistentInitialCondition refines x at t0 so that the algebraic rows of M(t0)*dx/dt = f(x,t0) are
// satisfied, holding every component not listed in freeIdx fixed at the value the host already supplied.
// A host integrating a DAE typically knows the differential components of x0 from physical initial
// data but not the algebraic ones (§1's mass matrix encodes which is which: a zero row of M means "this
// equation constrains x, not dx/dt"); this is the classical consistent-initialization step Ascher &
// Petzold require before a BDF corrector can take its first step, here solved with num.NlSolver against
// the square subsystem { f(x,t0)[r] = 0 : r in algebraicRows } for the unknowns x[freeIdx].
//
// algebraicRows and freeIdx must have the same length (the reduced subsystem must be square); a
// mismatch is a usage error, reported as KindShape.
func ConsistentInitialCondition(n int, rhs fun.Rhs, jac fun.Jac, t0 float64, x la.Vector, algebraicRows, freeIdx []int) error {
	if len(algebraicRows) != len(freeIdx) {
		return &Error{Kind: KindShape, T: t0, Msg: "consistent initial condition solve requires a square subsystem: len(algebraicRows) must equal len(freeIdx)"}
	}
	m := len(freeIdx)
	if m == 0 {
		return nil
	}

	full := la.NewVector(n)
	copy(full, x)
	fFull := la.NewVector(n)

	colOf := make(map[int]int, m)
	for j, idx := range freeIdx {
		colOf[idx] = j
	}
	rowOf := make(map[int]int, m)
	for i, row := range algebraicRows {
		rowOf[row] = i
	}

	var rhsErr error
	ffcn := fun.Vv(func(g, xr la.Vector) {
		for i, idx := range freeIdx {
			full[idx] = xr[i]
		}
		if err := rhs(fFull, t0, full); err != nil {
			rhsErr = err
			return
		}
		for i, row := range algebraicRows {
			g[i] = fFull[row]
		}
	})

	var jfcn fun.Tv
	if jac != nil {
		jFull := &la.Triplet{}
		jFull.Init(n, n, n*n)
		// Solve always calls Ffcn at the current x before ever calling this Jacobian callback, so a
		// failing jac here would be preceded by an identical failure already captured in rhsErr above
		// (both callbacks evaluate the same user-supplied system at the same point).
		jfcn = fun.Tv(func(dgdxr *la.Triplet, xr la.Vector) {
			for i, idx := range freeIdx {
				full[idx] = xr[i]
			}
			jFull.Start()
			if err := jac(jFull, t0, full); err != nil {
				rhsErr = err
				return
			}
			dgdxr.Start()
			for k := 0; k < jFull.Len(); k++ {
				ri, okRow := rowOf[jFull.RowAt(k)]
				cj, okCol := colOf[jFull.ColAt(k)]
				if okRow && okCol {
					dgdxr.Put(ri, cj, jFull.ValAt(k))
				}
			}
		})
	}

	solver := num.NewNlSolver(m, ffcn, jfcn, true)
	xr := la.NewVector(m)
	for i, idx := range freeIdx {
		xr[i] = x[idx]
	}

	err := solver.Solve(xr, true)
	if rhsErr != nil {
		return &Error{Kind: KindUserError, T: t0, Msg: "RHS failed during consistent initial condition solve: " + rhsErr.Error()}
	}
	if err != nil {
		return &Error{Kind: KindNonlinearFail, T: t0, Msg: "consistent initial condition solve did not converge: " + err.Error()}
	}

	for i, idx := range freeIdx {
		x[idx] = xr[i]
	}
	return nil
}
