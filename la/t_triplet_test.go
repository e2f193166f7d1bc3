// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/gosl-dae/daecore/chk"
)

func TestTripletToCSR01(tst *testing.T) {

	chk.PrintTitle("TripletToCSR01. round-trip with duplicate summing")

	var t Triplet
	t.Init(3, 3, 10)
	t.Put(0, 0, 2.0)
	t.Put(0, 0, 1.0) // duplicate: sums to 3.0
	t.Put(1, 2, 5.0)
	t.Put(2, 1, -4.0)
	t.Put(0, 2, 7.0)

	if err := t.Validate(); err != nil {
		tst.Errorf("triplet should validate: %v", err)
	}

	csr := t.ToCSR()
	if err := csr.Validate(); err != nil {
		tst.Errorf("csr should validate: %v", err)
	}
	chk.Int(tst, "nnz", csr.NNZ(), 4)

	dense := csr.ToMatrix()
	chk.Float64(tst, "dense[0][0]", 1e-15, dense.Get(0, 0), 3.0)
	chk.Float64(tst, "dense[0][2]", 1e-15, dense.Get(0, 2), 7.0)
	chk.Float64(tst, "dense[1][2]", 1e-15, dense.Get(1, 2), 5.0)
	chk.Float64(tst, "dense[2][1]", 1e-15, dense.Get(2, 1), -4.0)
	chk.Float64(tst, "dense[1][1]", 1e-15, dense.Get(1, 1), 0.0)
}

func TestTripletValidate01(tst *testing.T) {

	chk.PrintTitle("TripletValidate01. out-of-range index fails")

	var t Triplet
	t.Init(2, 2, 4)
	t.Put(0, 0, 1.0)
	t.Put(2, 0, 1.0) // row index out of range

	if err := t.Validate(); err == nil {
		tst.Errorf("expected a kShape validation error")
	}
}

func TestMassMatrixHelpers01(tst *testing.T) {

	chk.PrintTitle("MassMatrixHelpers01. identity and zero mass (spec §8 S5)")

	n := 4
	id := MassMatrixIdentity(n)
	if err := id.Validate(); err != nil {
		tst.Errorf("identity mass should validate: %v", err)
	}
	chk.Int(tst, "identity nnz", id.Len(), n)
	idCSR := id.ToCSR()
	chk.Int(tst, "identity csr nnz", idCSR.NNZ(), n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			chk.Float64(tst, "identity entry", 1e-15, idCSR.ToMatrix().Get(i, j), want)
		}
	}

	zero := MassMatrixZero(n)
	if err := zero.Validate(); err != nil {
		tst.Errorf("zero mass should validate: %v", err)
	}
	chk.Int(tst, "zero nnz", zero.Len(), 0)
	chk.Int(tst, "zero csr nnz", zero.ToCSR().NNZ(), 0)
}

func TestPatternFingerprint01(tst *testing.T) {

	chk.PrintTitle("PatternFingerprint01. same non-zero pattern, different values")

	var a, b Triplet
	a.Init(2, 2, 4)
	a.Put(0, 0, 1.0)
	a.Put(1, 1, 2.0)

	b.Init(2, 2, 4)
	b.Put(1, 1, -9.0)
	b.Put(0, 0, 42.0)

	chk.String(tst, a.Pattern(), b.Pattern())

	var c Triplet
	c.Init(2, 2, 4)
	c.Put(0, 1, 1.0)
	c.Put(1, 0, 2.0)
	if a.Pattern() == c.Pattern() {
		tst.Errorf("differing sparsity patterns should not fingerprint equal")
	}
}

func TestCSRMulVec01(tst *testing.T) {

	chk.PrintTitle("CSRMulVec01. A*x against a hand-checked result")

	var t Triplet
	t.Init(2, 2, 4)
	t.Put(0, 0, 2.0)
	t.Put(0, 1, 3.0)
	t.Put(1, 0, -1.0)
	t.Put(1, 1, 4.0)
	csr := t.ToCSR()

	x := Vector{1.0, 2.0}
	y := NewVector(2)
	csr.MulVec(y, x)
	chk.Array(tst, "A*x", 1e-15, y, []float64{8.0, 7.0})
}
