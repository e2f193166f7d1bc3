// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// orbit runs spec.md §8 scenario S4: a Keplerian two-body orbit (a pure ODE, identity mass),
// checking relative energy drift stays bounded over ten periods.
package main

import (
	"math"

	"github.com/gosl-dae/daecore/chk"
	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/io"
	"github.com/gosl-dae/daecore/la"
	"github.com/gosl-dae/daecore/ode"
	"github.com/gosl-dae/daecore/plt"
)

// state layout: x = [px, py, vx, vy]; mu is the standard gravitational parameter (GM), taken
// as 1 for a unit circular/elliptical reference orbit.
const mu = 1.0

func energy(x la.Vector) float64 {
	r := math.Hypot(x[0], x[1])
	v2 := x[2]*x[2] + x[3]*x[3]
	return 0.5*v2 - mu/r
}

func main() {

	defer chk.EP()

	rhs := fun.Rhs(func(f la.Vector, t float64, x la.Vector) error {
		r := math.Hypot(x[0], x[1])
		r3 := r * r * r
		f[0] = x[2]
		f[1] = x[3]
		f[2] = -mu * x[0] / r3
		f[3] = -mu * x[1] / r3
		return nil
	})
	jac := fun.Jac(func(dfdx *la.Triplet, t float64, x la.Vector) error {
		r := math.Hypot(x[0], x[1])
		r3, r5 := r*r*r, r*r*r*r*r
		dfdx.Start()
		dfdx.Put(0, 2, 1.0)
		dfdx.Put(1, 3, 1.0)
		dfdx.Put(2, 0, -mu/r3+3*mu*x[0]*x[0]/r5)
		dfdx.Put(2, 1, 3*mu*x[0]*x[1]/r5)
		dfdx.Put(3, 0, 3*mu*x[0]*x[1]/r5)
		dfdx.Put(3, 1, -mu/r3+3*mu*x[1]*x[1]/r5)
		return nil
	})

	opt := ode.NewOptions()
	opt.Atol, opt.Rtol = 1e-10, 1e-8
	opt.DtInit = 1e-3

	solver, err := ode.NewSolver(4, opt, rhs, jac, nil)
	if err != nil {
		chk.Panic("NewSolver failed: %v", err)
	}

	// e=0.5 elliptical orbit starting at perihelion: r0=1-e, v0=sqrt(mu*(1+e)/(1-e))
	const e = 0.5
	r0 := 1.0 - e
	v0 := math.Sqrt(mu * (1 + e) / (1 - e))
	x := la.Vector{r0, 0.0, 0.0, v0}
	e0 := energy(x)

	var xs, ys []float64
	var maxDrift float64
	solver.SetObserver(func(x la.Vector, t float64) error {
		drift := math.Abs((energy(x)-e0)/e0)
		if drift > maxDrift {
			maxDrift = drift
		}
		xs = append(xs, x[0])
		ys = append(ys, x[1])
		return nil
	})

	period := 2 * math.Pi * math.Sqrt(1.0/mu) // Kepler's third law, a=1 by construction of r0,v0 above
	if err := solver.Integrate(x, 10*period); err != nil {
		chk.Panic("Integrate failed: %v", err)
	}

	io.Pf("accepted=%d rejected=%d max relative energy drift=%.3e\n",
		solver.Stat.Naccepted, solver.Stat.Nrejected, maxDrift)

	plt.Reset()
	plt.Plot(xs, ys, &plt.A{C: "b", L: "orbit"})
	plt.Gll("x", "y")
	plt.Title("two-body Kepler orbit, 10 periods")
}
