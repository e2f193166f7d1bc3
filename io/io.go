// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package io contains functions for reading and writing files and for printing colored messages to the
// console. It is the only place in this module where diagnostic lines are formatted.
package io

import (
	"fmt"
	"io"
	"os"
)

// Verbose enables Pf-family printouts; diagnostic emission is gated on this flag, not hard-coded on
var Verbose = true

// Sf is a shortcut to fmt.Sprintf
func Sf(msg string, prm ...interface{}) string {
	return fmt.Sprintf(msg, prm...)
}

// Ff is a shortcut to fmt.Fprintf
func Ff(b io.Writer, msg string, prm ...interface{}) {
	fmt.Fprintf(b, msg, prm...)
}

// Pf prints formatted message, respecting Verbose
func Pf(msg string, prm ...interface{}) {
	if Verbose {
		fmt.Printf(msg, prm...)
	}
}

// Pl prints a new line
func Pl() {
	if Verbose {
		fmt.Println()
	}
}

func colored(code, msg string, prm []interface{}) {
	if Verbose {
		fmt.Printf("\x1b[0;"+code+"m"+msg+"\x1b[0m", prm...)
	}
}

// Pforan prints message in orange/foreground color (used for step-by-step progress)
func Pforan(msg string, prm ...interface{}) { colored("33", msg, prm) }

// Pfcyan prints message in cyan
func Pfcyan(msg string, prm ...interface{}) { colored("36", msg, prm) }

// Pfyel prints message in yellow
func Pfyel(msg string, prm ...interface{}) { colored("33;1", msg, prm) }

// PfYel is an alias of Pfyel kept for callers that prefer the capitalised form
func PfYel(msg string, prm ...interface{}) { Pfyel(msg, prm...) }

// Pfblue prints message in blue
func Pfblue(msg string, prm ...interface{}) { colored("34", msg, prm) }

// Pfmag prints message in magenta
func Pfmag(msg string, prm ...interface{}) { colored("35", msg, prm) }

// PfMag is an alias of Pfmag
func PfMag(msg string, prm ...interface{}) { Pfmag(msg, prm...) }

// Pfred prints message in red; used for warnings that are not fatal
func Pfred(msg string, prm ...interface{}) { colored("31", msg, prm) }

// Atob converts a string to a bool ("true"/"1" => true)
func Atob(s string) bool {
	return s == "true" || s == "1" || s == "y" || s == "yes"
}

// ReadFile reads the content of a file into a byte slice; panics on error since it is only used by
// ancillary drivers (reading reference data, configuration), never by the core integrator
func ReadFile(fn string) []byte {
	b, err := os.ReadFile(fn)
	if err != nil {
		panic(err)
	}
	return b
}

// WriteFile writes data to a file, creating it if necessary
func WriteFile(fn string, data []byte) {
	err := os.WriteFile(fn, data, 0644)
	if err != nil {
		panic(err)
	}
}
