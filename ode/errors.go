// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ode

import "fmt"

// Kind classifies an integration failure (§7). It is a value, not a Go error type hierarchy, since the
// host program only ever needs to branch on the kind, never to type-assert a concrete struct.
type Kind string

// Failure kinds
const (
	KindShape             Kind = "kShape"             // sparse-matrix invariants violated
	KindSingular          Kind = "kSingular"           // iteration matrix singular at current (x,t)
	KindNumericBreakdown  Kind = "kNumericBreakdown"   // linear-solver pivot/growth failure
	KindNonlinearFail     Kind = "kNonlinearFail"      // Newton non-convergence after retries
	KindStepUnderflow     Kind = "kStepUnderflow"      // h driven below dt_min by repeated rejections
	KindMemory            Kind = "kMemory"             // allocation failure in any subsystem
	KindUserError         Kind = "kUserError"          // RHS/Jacobian produced non-finite output
)

// Status is the integer code returned by Integrate; zero means clean termination at t1.
type Status int

// Status codes, ordered to match the Kind table of §7 (index 0 reserved for success)
const (
	StatusOK Status = iota
	StatusShape
	StatusSingular
	StatusNumericBreakdown
	StatusNonlinearFail
	StatusStepUnderflow
	StatusMemory
	StatusUserError
)

// kindStatus maps a Kind to its integer Status code
var kindStatus = map[Kind]Status{
	KindShape:            StatusShape,
	KindSingular:         StatusSingular,
	KindNumericBreakdown: StatusNumericBreakdown,
	KindNonlinearFail:    StatusNonlinearFail,
	KindStepUnderflow:    StatusStepUnderflow,
	KindMemory:           StatusMemory,
	KindUserError:        StatusUserError,
}

// Error is the error value surfaced by Integrate on any fatal condition. The last accepted state is
// left untouched in the caller's x (§7); Error itself carries no reference to it.
type Error struct {
	Kind Kind
	Msg  string
	T    float64 // simulation time at which the failure was detected
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at t=%g: %s", e.Kind, e.T, e.Msg)
}

// StatusOf returns the integer status code corresponding to a Kind
func StatusOf(k Kind) Status { return kindStatus[k] }

// String gives a human-readable name for a Status, for diagnostic printing
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusShape:
		return "kShape"
	case StatusSingular:
		return "kSingular"
	case StatusNumericBreakdown:
		return "kNumericBreakdown"
	case StatusNonlinearFail:
		return "kNonlinearFail"
	case StatusStepUnderflow:
		return "kStepUnderflow"
	case StatusMemory:
		return "kMemory"
	case StatusUserError:
		return "kUserError"
	}
	return "unknown"
}
