// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ode

// State names the integrator's position in the §4.5 state machine.
type State int

const (
	Idle State = iota
	Starting
	Stepping
	Rejected
	Terminal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Starting:
		return "Starting"
	case Stepping:
		return "Stepping"
	case Rejected:
		return "Rejected"
	case Terminal:
		return "Terminal"
	}
	return "?"
}
