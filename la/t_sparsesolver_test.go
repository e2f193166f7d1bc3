// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"math"
	"testing"

	"github.com/gosl-dae/daecore/chk"
)

func TestSparseLUSolve01(tst *testing.T) {

	chk.PrintTitle("SparseLUSolve01. 3x3 system with a known solution")

	// A*x = b with A = [[4,-1,0],[-1,4,-1],[0,-1,4]], x = [1,2,3]
	var t Triplet
	t.Init(3, 3, 9)
	t.Put(0, 0, 4)
	t.Put(0, 1, -1)
	t.Put(1, 0, -1)
	t.Put(1, 1, 4)
	t.Put(1, 2, -1)
	t.Put(2, 1, -1)
	t.Put(2, 2, 4)

	xExpected := Vector{1, 2, 3}
	b := NewVector(3)
	t.ToCSR().MulVec(b, xExpected)

	s := NewSparseSolver("lu")
	defer s.Free()
	if err := s.Init(&t, &SpArgs{}); err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	if err := s.Fact(); err != nil {
		tst.Fatalf("Fact failed: %v", err)
	}
	x := NewVector(3)
	if err := s.Solve(x, b, false); err != nil {
		tst.Fatalf("Solve failed: %v", err)
	}
	chk.Array(tst, "x", 1e-10, x, xExpected)
}

func TestSparseLUSingular01(tst *testing.T) {

	chk.PrintTitle("SparseLUSingular01. singular matrix reports kSingular")

	var t Triplet
	t.Init(2, 2, 4)
	t.Put(0, 0, 1)
	t.Put(0, 1, 2)
	t.Put(1, 0, 2)
	t.Put(1, 1, 4) // row 1 = 2*row 0: singular

	s := NewSparseSolver("lu")
	defer s.Free()
	if err := s.Init(&t, &SpArgs{}); err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	err := s.Fact()
	if err == nil {
		tst.Fatalf("expected a singular-matrix failure")
	}
	se, ok := err.(*SolverError)
	if !ok || se.Kind != KindSingular {
		tst.Errorf("expected KindSingular, got %v", err)
	}
}

func TestSparseLUPatternReuse01(tst *testing.T) {

	chk.PrintTitle("SparseLUPatternReuse01. Init detects an unchanged sparsity pattern")

	var t Triplet
	t.Init(2, 2, 4)
	t.Put(0, 0, 1)
	t.Put(1, 1, 1)

	s := NewSparseSolver("lu")
	defer s.Free()
	if err := s.Init(&t, &SpArgs{}); err != nil {
		tst.Fatalf("first Init failed: %v", err)
	}
	if !s.PatternChanged() {
		tst.Errorf("first Init should report a pattern change (no prior pattern)")
	}

	var t2 Triplet
	t2.Init(2, 2, 4)
	t2.Put(0, 0, 99)
	t2.Put(1, 1, -3)
	if err := s.Init(&t2, &SpArgs{}); err != nil {
		tst.Fatalf("second Init failed: %v", err)
	}
	if s.PatternChanged() {
		tst.Errorf("same sparsity pattern should not require a new symbolic analysis")
	}
}

func TestWrms01(tst *testing.T) {

	chk.PrintTitle("Wrms01. weighted RMS norm (spec §8 WRMS)")

	v := Vector{0.0, 0.0}
	ref := Vector{1.0, 1.0}
	chk.Float64(tst, "zero vector has zero WRMS norm", 1e-15, Wrms(v, ref, 1e-8, 1e-6), 0.0)

	// single-component case: norm equals |v|/w exactly
	v1 := Vector{2e-6}
	ref1 := Vector{1.0}
	atol, rtol := 1e-8, 1e-6
	w := atol + rtol*1.0
	chk.Float64(tst, "single-component WRMS", 1e-12, Wrms(v1, ref1, atol, rtol), 2e-6/w)
}

func TestIsFinite01(tst *testing.T) {

	chk.PrintTitle("IsFinite01. NaN/Inf detection (spec §7 kUserError)")

	if !IsFinite(Vector{1.0, -2.0, 0.0}) {
		tst.Errorf("finite vector reported as non-finite")
	}
	if IsFinite(Vector{1.0, math.NaN()}) {
		tst.Errorf("NaN vector reported as finite")
	}
}
