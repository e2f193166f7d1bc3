// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fun defines the function-object shapes ("functors") exchanged between the solver core and
// the host program: the legacy vector/triplet aliases used by num.NlSolver, and the four DAE callback
// contracts (RHS, Jacobian, Mass matrix, Observer) used by the ode package.
package fun

import "github.com/gosl-dae/daecore/la"

// Vv is a vector-vector function: computes fx = f(x); used by num.NlSolver's Newton residual
type Vv func(fx, x la.Vector)

// Tv is a triplet-vector function: computes the sparse Jacobian dfdx = J(x); used by num.NlSolver
type Tv func(dfdx *la.Triplet, x la.Vector)

// Rhs is the right-hand-side / residual callback f(x,t) of the DAE  M(t)*dx/dt = f(x,t).
// Implementations must not mutate x; f is pre-sized to N by the caller.
type Rhs func(f la.Vector, t float64, x la.Vector) error

// Jac is the analytical Jacobian callback J = df/dx, sparse. Implementations should Start() the
// triplet (or rely on the caller doing so) and Put every non-zero entry.
type Jac func(dfdx *la.Triplet, t float64, x la.Vector) error

// Mass is the mass-matrix callback M(t), written into a caller-owned sparse matrix. It is called at
// most once per step; constant mass matrices should be memoized by the caller, not by the callback.
type Mass func(m *la.Triplet, t float64) error

// Observer is called exactly once per accepted step, in strictly increasing time order. Observers may
// read x but must not mutate it; any state the observer wants to keep belongs to the host, not to the
// integrator.
type Observer func(x la.Vector, t float64) error
