// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chk contains functions for checking and testing computations
package chk

import (
	"fmt"
	"math"
	"os"
	"testing"
)

// Verbose turns version printouts and extra checks on
var Verbose = false

// Panic prints a red error message and panics
func Panic(msg string, prm ...interface{}) {
	fullmsg := fmt.Sprintf(msg, prm...)
	panic(fmt.Sprintf("\x1b[1;31mERROR: %s\x1b[0m\n", fullmsg))
}

// PrintTitle prints the title of a test with a leading new line
func PrintTitle(title string) {
	fmt.Printf("\n=== %s =================================================\n", title)
}

// PrintOk prints OK in green
func PrintOk() {
	fmt.Println("\x1b[1;32mOK\x1b[0m")
}

// PrintFail prints FAIL in red
func PrintFail() {
	fmt.Println("\x1b[1;31mFAIL\x1b[0m")
}

// Int compares two integers
func Int(tst *testing.T, msg string, val, cor int) {
	if val != cor {
		tst.Errorf("%s: %d != %d\n", msg, val, cor)
	}
}

// Ints compares two slices of integers
func Ints(tst *testing.T, msg string, val, cor []int) {
	if len(val) != len(cor) {
		tst.Errorf("%s: lengths differ: %d != %d\n", msg, len(val), len(cor))
		return
	}
	for i := range val {
		if val[i] != cor[i] {
			tst.Errorf("%s: [%d] %d != %d\n", msg, i, val[i], cor[i])
		}
	}
}

// Float64 compares two float64 numbers with a tolerance
func Float64(tst *testing.T, msg string, tol, val, cor float64) {
	if math.Abs(val-cor) > tol {
		tst.Errorf("%s: |%v - %v| = %v > %v\n", msg, val, cor, math.Abs(val-cor), tol)
	}
}

// Array compares two []float64 arrays with a tolerance; a nil cor is treated as all-zeros
func Array(tst *testing.T, msg string, tol float64, val, cor []float64) {
	if cor != nil && len(val) != len(cor) {
		tst.Errorf("%s: lengths differ: %d != %d\n", msg, len(val), len(cor))
		return
	}
	for i := range val {
		c := 0.0
		if cor != nil {
			c = cor[i]
		}
		if math.Abs(val[i]-c) > tol {
			tst.Errorf("%s: [%d] |%v - %v| = %v > %v\n", msg, i, val[i], c, math.Abs(val[i]-c), tol)
		}
	}
}

// Deep2 compares two [][]float64 matrices with a tolerance
func Deep2(tst *testing.T, msg string, tol float64, val, cor [][]float64) {
	if len(val) != len(cor) {
		tst.Errorf("%s: number of rows differ: %d != %d\n", msg, len(val), len(cor))
		return
	}
	for i := range val {
		Array(tst, fmt.Sprintf("%s[%d]", msg, i), tol, val[i], cor[i])
	}
}

// String compares two strings
func String(tst *testing.T, val, cor string) {
	if val != cor {
		tst.Errorf("strings differ: %q != %q\n", val, cor)
	}
}

// IntAssert panics if val != cor; used for quick sanity checks outside of _test.go files
func IntAssert(val, cor int) {
	if val != cor {
		Panic("assertion failed: %d != %d", val, cor)
	}
}

// PrintAnaNum prints a comparison between an analytical and a numerical quantity
func PrintAnaNum(msg string, tol, ana, num float64, verbose bool) (failed bool) {
	diff := math.Abs(ana - num)
	failed = diff > tol
	if verbose {
		clr := "\x1b[1;32m"
		if failed {
			clr = "\x1b[1;31m"
		}
		fmt.Printf("%s %sana = %23.15e  num = %23.15e  diff = %23.15e\x1b[0m\n", msg, clr, ana, num, diff)
	}
	return
}

// EP (exit-on-panic) recovers from a panic, printing the message to stderr and exiting with a failing status.
// It is meant to be deferred from main() in example/CLI drivers, not from library code.
func EP() {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "%v\n", r)
		os.Exit(1)
	}
}
