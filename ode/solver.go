// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ode implements a variable-step, variable-order BDF (Backward Differentiation Formula) time
// integrator for systems of differential-algebraic equations M(t)*dx/dt = f(x,t), coupled with a
// Newton iteration whose linear system is solved each step via the sparse LU adapter in package la.
package ode

import (
	"math"

	"github.com/gosl-dae/daecore/fun"
	"github.com/gosl-dae/daecore/io"
	"github.com/gosl-dae/daecore/la"
)

const (
	safety         = 0.9  // step-size safety factor, §4.5
	minShrink      = 0.1  // largest allowed step shrink per adaptation
	maxGrow        = 10.0 // largest allowed step growth per adaptation
	maxRejectsDrop = 3     // consecutive rejections before dropping BDF order
	maxRejectsFail = 5     // consecutive rejections before fatal kNonlinearFail
)

// Solver drives a single DAE integration. Construct with NewSolver, optionally attach an observer with
// SetObserver, then call Integrate once per run (Integrate resets all run-scoped state on entry, so the
// same Solver may be reused for successive independent runs against the same callbacks).
type Solver struct {
	n    int
	opt  *Options
	rhs  fun.Rhs
	jac  fun.Jac // nil => numerical Jacobian
	mass fun.Mass
	obs  fun.Observer

	hist  *history
	state State
	Stat  Stat

	t float64
	h float64
	p int

	lis     *la.SparseLU
	lsReady bool

	massTri la.Triplet
	jacTri  la.Triplet
	aTri    la.Triplet

	xTrial  la.Vector
	xPred   la.Vector
	sumHist la.Vector
	fx      la.Vector
	r       la.Vector
	mdx     la.Vector
	w       la.Vector
	lteVec  la.Vector

	// H211b controller memory (Söderlind digital filter): previous two accepted-step error norms
	lteNorm1, lteNorm2 float64
}

// NewSolver constructs a Solver for an N-dimensional DAE. jac may be nil, in which case the numerical
// finite-difference estimator of §4.2 is used. mass may be nil, which is treated as the identity mass
// matrix (pure ODE).
func NewSolver(n int, opt *Options, rhs fun.Rhs, jac fun.Jac, mass fun.Mass) (*Solver, error) {
	if opt == nil {
		opt = NewOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, &Error{Kind: KindShape, T: opt.T0, Msg: "n must be positive"}
	}
	if rhs == nil {
		return nil, &Error{Kind: KindShape, T: opt.T0, Msg: "rhs callback is required"}
	}
	if mass == nil {
		mass = func(m *la.Triplet, t float64) error {
			*m = *la.MassMatrixIdentity(n)
			return nil
		}
	}
	o := &Solver{
		n:    n,
		opt:  opt,
		rhs:  rhs,
		jac:  jac,
		mass: mass,
		hist: newHistory(n),
		lis:  la.NewSparseSolver("lu"),
	}
	o.xTrial = la.NewVector(n)
	o.xPred = la.NewVector(n)
	o.sumHist = la.NewVector(n)
	o.fx = la.NewVector(n)
	o.r = la.NewVector(n)
	o.mdx = la.NewVector(n)
	o.w = la.NewVector(n)
	o.lteVec = la.NewVector(n)
	o.massTri.Init(n, n, n*n)
	o.jacTri.Init(n, n, n*n)
	o.aTri.Init(n, n, 2*n*n)
	o.lteNorm1, o.lteNorm2 = 1, 1
	return o, nil
}

// SetObserver registers the callback invoked exactly once per accepted step (§4.2)
func (o *Solver) SetObserver(obs fun.Observer) { o.obs = obs }

// State returns the integrator's current position in the §4.5 state machine
func (o *Solver) State() State { return o.state }

// Integrate advances x in place from opt.T0 to t1 (§6). x must hold the initial condition on entry and
// have length n; on return (success or failure) it holds the last accepted state. Returns nil on clean
// termination at t1, or an *Error otherwise.
func (o *Solver) Integrate(x la.Vector, t1 float64) error {
	if len(x) != o.n {
		return &Error{Kind: KindShape, T: o.opt.T0, Msg: "x has the wrong length"}
	}
	o.Stat.reset()
	o.hist.reset()
	o.state = Starting
	o.t = o.opt.T0
	o.p = 1
	o.h = o.opt.DtInit
	o.lsReady = false
	o.lteNorm1, o.lteNorm2 = 1, 1
	o.hist.push(o.t, x)

	if t1 <= o.t {
		o.state = Terminal
		return &Error{Kind: KindShape, T: o.t, Msg: "t1 must be greater than options.T0"}
	}

	rejectsInRow := 0
	linRetried := false // a linear-solver failure already retried with a halved step since the last accept
	for o.t < t1 {
		hTry := o.h
		landing := false
		if o.t+hTry >= t1 {
			hTry = t1 - o.t
			landing = true
		}
		if hTry < o.opt.DtMin && !landing {
			return o.fail(KindStepUnderflow, "step size driven below DtMin by repeated rejections")
		}

		p := o.p
		if p > o.hist.count {
			p = o.hist.count
		}
		tNew := o.t + hTry

		o.hist.predict(p, tNew, o.xPred)
		la.VecCopy(o.xTrial, o.xPred)

		converged, lerr := o.newtonStep(p, tNew, hTry)
		o.Stat.Nsteps++
		if lerr != nil {
			if isRecoverable(lerr) && !linRetried {
				linRetried = true
				rejectsInRow++
				o.Stat.Nrejected++
				o.state = Rejected
				if rr := o.handleReject(&rejectsInRow); rr != nil {
					return rr
				}
				continue
			}
			return lerr
		}
		if !converged {
			o.Stat.Nitmax++
			rejectsInRow++
			o.Stat.Nrejected++
			o.state = Rejected
			if rr := o.handleReject(&rejectsInRow); rr != nil {
				return rr
			}
			continue
		}

		// local truncation error estimate and accept/reject decision (§4.5)
		o.hist.lte(p, tNew, o.xTrial, o.lteVec)
		lteNorm := la.Wrms(o.lteVec, o.xTrial, o.opt.Atol, o.opt.Rtol)
		if lteNorm > 1.0 && !landing {
			rejectsInRow++
			o.Stat.Nrejected++
			o.state = Rejected
			if rr := o.handleReject(&rejectsInRow); rr != nil {
				return rr
			}
			continue
		}

		// accept: re-estimate the LTE at orders p-1/p+1 over the same (tNew, xTrial) pair used
		// above, while the history ring still excludes this point, then push and advance.
		rejectsInRow = 0
		linRetried = false
		o.Stat.Naccepted++
		if !landing {
			o.adapt(lteNorm, p, hTry, tNew)
		}
		o.t = tNew
		la.VecCopy(x, o.xTrial)
		o.hist.push(o.t, o.xTrial)
		if o.obs != nil {
			if err := o.obs(o.xTrial, o.t); err != nil {
				return o.fail(KindUserError, "observer failed: "+err.Error())
			}
		}
		o.state = Stepping
	}
	o.state = Terminal
	return nil
}

// handleReject applies the order-drop / fatal-failure policy of §4.5 for a rejected step attempt,
// halving h for the retry. Returns a non-nil *Error if the rejection run is fatal.
func (o *Solver) handleReject(rejectsInRow *int) error {
	if *rejectsInRow >= maxRejectsFail {
		return o.fail(KindNonlinearFail, "Newton/LTE failed to converge after repeated rejections")
	}
	if *rejectsInRow == maxRejectsDrop && o.p > 1 {
		o.p--
		o.Stat.Norderdn++
		o.hist.sinceOrd = 0
	}
	o.h *= 0.5
	if o.h < o.opt.DtMin {
		return o.fail(KindStepUnderflow, "step size driven below DtMin by repeated rejections")
	}
	return nil
}

func (o *Solver) fail(k Kind, msg string) error {
	o.state = Terminal
	return &Error{Kind: k, T: o.t, Msg: msg}
}

// isRecoverable reports whether a linear-solver failure should be retried with a halved step (§7:
// "attempt step-halving once; then fatal" for kSingular/kNumericBreakdown) rather than surfaced
// immediately.
func isRecoverable(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == KindSingular || e.Kind == KindNumericBreakdown
}

// newtonStep runs the Newton iteration (§4.5) for one trial step to tNew at order p, starting from the
// predictor already placed in o.xTrial. On return o.xTrial holds the converged corrector solution.
func (o *Solver) newtonStep(p int, tNew, h float64) (converged bool, err error) {
	alpha := o.hist.bdfCoeffs(p, tNew)

	for d := 0; d < o.n; d++ {
		o.sumHist[d] = 0
	}
	for k := 1; k <= p; k++ {
		ak := alpha[k]
		xk := o.hist.x[k-1]
		for d := 0; d < o.n; d++ {
			o.sumHist[d] += ak * xk[d]
		}
	}

	o.massTri.Start()
	if e := o.mass(&o.massTri, tNew); e != nil {
		return false, o.fail(KindUserError, "mass callback failed: "+e.Error())
	}
	o.Stat.Nmeval++
	massCSR := o.massTri.ToCSR()

	for it := 0; it < o.opt.MaxNewtonIter; it++ {
		if e := o.rhs(o.fx, tNew, o.xTrial); e != nil {
			return false, o.fail(KindUserError, "RHS failed: "+e.Error())
		}
		o.Stat.Nfeval++
		if !la.IsFinite(o.fx) {
			return false, o.fail(KindUserError, "RHS produced non-finite output")
		}

		needJ := it == 0 || o.opt.FactEveryIter
		if needJ {
			if o.jac != nil {
				o.jacTri.Start()
				if e := o.jac(&o.jacTri, tNew, o.xTrial); e != nil {
					return false, o.fail(KindUserError, "Jacobian callback failed: "+e.Error())
				}
			} else {
				nf, e := numericJacobian(&o.jacTri, o.rhs, tNew, o.xTrial, o.fx, o.w, o.opt.JacobianFdTol, o.opt.Atol)
				o.Stat.Nfeval += nf
				if e != nil {
					return false, o.fail(e.(*Error).Kind, e.Error())
				}
			}
			o.Stat.Njeval++
		}

		// residual r = M*(alpha_0*xTrial + sumHist) - h*fx
		for d := 0; d < o.n; d++ {
			o.w[d] = alpha[0]*o.xTrial[d] + o.sumHist[d]
		}
		massCSR.MulVec(o.r, o.w)
		for d := 0; d < o.n; d++ {
			o.r[d] -= h * o.fx[d]
		}

		if needJ {
			o.assembleIterationMatrix(alpha[0], h, massCSR)
			if e := o.lis.Init(&o.aTri, &la.SpArgs{}); e != nil {
				return false, o.fail(errKindOf(e), e.Error())
			}
			if e := o.lis.Fact(); e != nil {
				return false, o.fail(errKindOf(e), e.Error())
			}
			o.Stat.Ndecomp++
		}

		if e := o.lis.Solve(o.mdx, o.r, false); e != nil {
			return false, o.fail(errKindOf(e), e.Error())
		}
		o.Stat.Nlinsol++

		for d := 0; d < o.n; d++ {
			o.xTrial[d] -= o.mdx[d]
		}
		if !la.IsFinite(o.xTrial) {
			return false, o.fail(KindUserError, "Newton update produced non-finite state")
		}

		dxNorm := la.Wrms(o.mdx, o.xTrial, o.opt.Atol, o.opt.Rtol)
		if o.opt.Verbosity > 0 {
			io.Pf("newton it=%d t=%g dxNorm=%g\n", it, tNew, dxNorm)
		}
		if dxNorm <= o.opt.NewtonTol {
			return true, nil
		}
	}
	return false, nil
}

// assembleIterationMatrix builds A = alpha0*M - h*J into o.aTri (§4.5)
func (o *Solver) assembleIterationMatrix(alpha0, h float64, massCSR *la.CSR) {
	o.aTri.Start()
	for row := 0; row < massCSR.Rows; row++ {
		for k := massCSR.Ap[row]; k < massCSR.Ap[row+1]; k++ {
			o.aTri.Put(row, massCSR.Ai[k], alpha0*massCSR.Ax[k])
		}
	}
	for k := 0; k < o.jacTri.Len(); k++ {
		o.aTri.Put(o.jacTri.RowAt(k), o.jacTri.ColAt(k), -h*o.jacTri.ValAt(k))
	}
}

// errKindOf maps a la.SolverError to the corresponding ode.Kind
func errKindOf(err error) Kind {
	if se, ok := err.(*la.SolverError); ok {
		switch se.Kind {
		case la.KindSingular:
			return KindSingular
		case la.KindNumericBreakdown:
			return KindNumericBreakdown
		case la.KindMemory:
			return KindMemory
		}
	}
	return KindNumericBreakdown
}

// adapt updates o.h and o.p from the accepted step's LTE norm (§4.5): step-size adaptation via the
// selected controller, then an order change when it would improve the predicted next step. Must run
// before history.push of the (tNew, xTrial) point being accepted, so the order+-1 re-estimates below
// see the exact same pre-push stencil the order-p estimate at tNew was computed against.
func (o *Solver) adapt(lteNorm float64, p int, hUsed float64, tNew float64) {
	hNew := o.stepFactor(lteNorm, p) * hUsed

	bestP, bestH := p, hNew
	if p+1 <= o.opt.BdfOrder && o.hist.count >= p+1 && o.hist.sinceOrd >= p {
		var lteUp la.Vector = la.NewVector(o.n)
		o.hist.lte(p+1, tNew, o.xTrial, lteUp)
		normUp := la.Wrms(lteUp, o.xTrial, o.opt.Atol, o.opt.Rtol)
		if normUp > 0 {
			hUp := o.stepFactor(normUp, p+1) * hUsed
			if hUp > bestH {
				bestH, bestP = hUp, p+1
			}
		}
	}
	if p-1 >= 1 && o.hist.count >= p {
		var lteDn la.Vector = la.NewVector(o.n)
		o.hist.lte(p-1, tNew, o.xTrial, lteDn)
		normDn := la.Wrms(lteDn, o.xTrial, o.opt.Atol, o.opt.Rtol)
		if normDn > 0 {
			hDn := o.stepFactor(normDn, p-1) * hUsed
			if hDn > bestH {
				bestH, bestP = hDn, p-1
			}
		}
	}

	if bestP != p {
		o.Stat.Norderup += boolToInt(bestP > p)
		o.Stat.Norderdn += boolToInt(bestP < p)
		o.hist.sinceOrd = 0
	}
	o.p = bestP
	o.h = clampF(bestH, o.opt.DtMin, o.opt.DtMax)
	o.lteNorm2 = o.lteNorm1
	o.lteNorm1 = lteNorm
}

// stepFactor returns the multiplicative step-size change for an accepted step with the given LTE norm
// at order p, per the controller selected in Options (§3 time_stepping, §4.5).
func (o *Solver) stepFactor(lteNorm float64, p int) float64 {
	if lteNorm <= 0 {
		lteNorm = 1e-12
	}
	raw := safety * math.Pow(lteNorm, -1.0/float64(p+1))
	switch o.opt.TimeStepping {
	case Fixed:
		return 1.0
	case AdaptiveH211b:
		// Söderlind H211b digital filter: blend the current and previous error ratios so consecutive
		// step sizes do not oscillate as sharply as the bare power-law controller would.
		prevRaw := safety * math.Pow(o.lteNorm1, -1.0/float64(p+1))
		blended := math.Sqrt(raw * prevRaw)
		return clampF(blended, minShrink, maxGrow)
	default: // SimpleStability
		return clampF(raw, minShrink, maxGrow)
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
