// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ode

// Stat accumulates the integrator's lifetime counters (§3 "total-call counters"). All fields are
// read-only to the host; Solver updates them as it runs.
type Stat struct {
	Nfeval    int // number of RHS evaluations
	Njeval    int // number of Jacobian evaluations
	Nmeval    int // number of mass-matrix evaluations
	Ndecomp   int // number of numeric factorizations (Fact calls)
	Nlinsol   int // number of triangular solves
	Nsteps    int // number of step attempts (accepted + rejected)
	Naccepted int // number of accepted steps
	Nrejected int // number of rejected steps (Newton failure or LTE failure)
	Nitmax    int // number of times the Newton iteration hit MaxNewtonIter without converging
	Norderup  int // number of order increases
	Norderdn  int // number of order decreases
}

// reset zeroes all counters; called at the start of each Integrate run
func (s *Stat) reset() { *s = Stat{} }
