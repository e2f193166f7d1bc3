// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ode

// TimeStepping selects the step-size controller variant (§3, §9 open question b). The source left the
// intended controller only partially documented; AdaptiveH211b is the default here since it is the
// better-behaved controller for stiff BDF integration (Söderlind's digital filter family), with the
// other two kept for hosts that want the classical or a non-adaptive behaviour.
type TimeStepping int

const (
	// AdaptiveH211b is a PI-type step controller (Söderlind H211b digital filter) that damps step-size
	// oscillation across consecutive accepted steps; the default.
	AdaptiveH211b TimeStepping = iota
	// SimpleStability adapts the step from the current LTE estimate alone, with no history smoothing.
	SimpleStability
	// Fixed never changes h on an accepted step: h starts at DtInit, is halved by each rejected attempt
	// and is clipped to land exactly on t1. Every candidate order then predicts the same step, so the
	// order never rises; it only drops after repeated rejections.
	Fixed
)

// KMax is the largest BDF order ever supported: the history ring buffer never holds more than this
// many past accepted points (§3).
const KMax = 6

// Options collects the solver's immutable-during-a-run settings (§3). The zero value is not usable;
// construct with NewOptions to get the documented defaults.
type Options struct {
	T0 float64 // initial time

	DtInit float64 // initial step size
	DtMin  float64 // minimum step size; underflow below this is fatal (kStepUnderflow)
	DtMax  float64 // maximum step size

	Atol float64 // absolute tolerance (error-norm and WRMS weights)
	Rtol float64 // relative tolerance (error-norm and WRMS weights)

	BdfOrder int // maximum permitted BDF order, 1..KMax

	TimeStepping TimeStepping // step controller choice

	MaxNewtonIter int     // Newton iteration cap per step attempt
	NewtonTol     float64 // WRMS convergence threshold for ||delta x||

	FactEveryIter bool // if false, reuse one factorization across all Newton iterations of a step

	Verbosity int // 0 = silent, >0 = increasing diagnostic detail

	JacobianFdTol float64 // perturbation epsilon used by the numerical Jacobian estimator
}

// NewOptions returns an Options record populated with the defaults a host program would reach for most
// of the time: a BDF-5 ceiling, moderate tolerances, and the H211b adaptive controller.
func NewOptions() *Options {
	return &Options{
		T0:            0,
		DtInit:        1e-4,
		DtMin:         1e-12,
		DtMax:         1e2,
		Atol:          1e-8,
		Rtol:          1e-6,
		BdfOrder:      5,
		TimeStepping:  AdaptiveH211b,
		MaxNewtonIter: 7,
		NewtonTol:     1e-4,
		FactEveryIter: true,
		Verbosity:     0,
		JacobianFdTol: 1e-8,
	}
}

// Validate checks the cross-entity invariants of §3 that do not depend on a running integration
// (h-range sanity and order range); returns a kShape error otherwise.
func (o *Options) Validate() error {
	if o.BdfOrder < 1 || o.BdfOrder > KMax {
		return &Error{Kind: KindShape, T: o.T0, Msg: "BdfOrder must be in [1,6]"}
	}
	if o.DtMin <= 0 || o.DtMax <= 0 || o.DtMin > o.DtMax {
		return &Error{Kind: KindShape, T: o.T0, Msg: "require 0 < DtMin <= DtMax"}
	}
	if o.DtInit < o.DtMin || o.DtInit > o.DtMax {
		return &Error{Kind: KindShape, T: o.T0, Msg: "DtInit must lie within [DtMin,DtMax]"}
	}
	if o.Atol < 0 || o.Rtol < 0 {
		return &Error{Kind: KindShape, T: o.T0, Msg: "Atol and Rtol must be non-negative"}
	}
	if o.MaxNewtonIter < 1 {
		return &Error{Kind: KindShape, T: o.T0, Msg: "MaxNewtonIter must be >= 1"}
	}
	return nil
}
