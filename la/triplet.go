// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"fmt"
	"sort"
)

// Triplet is a three-array coordinate-format ("COO") sparse matrix: parallel slices of row index,
// column index and value. It is the only sparse-matrix representation the host program ever builds;
// the solver core converts it to compressed-row form internally before handing it to the linear solver.
//
// Invariants (enforced by Validate): 0 <= i,j < (rows,cols). Entries stay in insertion order: Triplet
// has no in-place sort/finalize step; ToCSR produces the row-major, column-ascending form. Duplicate
// (i,j) pairs are legal while building the matrix (Put may be called more than once per position) and
// are summed together by ToCSR.
type Triplet struct {
	rows, cols int
	i, j       []int
	x          []float64
	pos        int
}

// Init (re)allocates a Triplet for an rows-by-cols matrix with room for at most nnzMax entries
func (o *Triplet) Init(rows, cols, nnzMax int) {
	o.rows, o.cols = rows, cols
	o.i = make([]int, nnzMax)
	o.j = make([]int, nnzMax)
	o.x = make([]float64, nnzMax)
	o.pos = 0
}

// Start resets the insertion position to zero, keeping the allocated capacity; equivalent to Clear
func (o *Triplet) Start() { o.pos = 0 }

// Clear resets the insertion position to zero, preserving capacity (alias of Start)
func (o *Triplet) Clear() { o.Start() }

// Reserve grows the backing arrays so at least nnzMax entries can be inserted, preserving any data
// already written at positions below the current insertion point
func (o *Triplet) Reserve(nnzMax int) {
	if nnzMax <= cap(o.i) {
		return
	}
	ni := make([]int, nnzMax)
	nj := make([]int, nnzMax)
	nx := make([]float64, nnzMax)
	copy(ni, o.i)
	copy(nj, o.j)
	copy(nx, o.x)
	o.i, o.j, o.x = ni, nj, nx
}

// Put inserts one non-zero entry (value, row, col); repeated (row,col) pairs are allowed and are
// summed together when the matrix is converted to compressed-row form
func (o *Triplet) Put(row, col int, value float64) {
	if o.pos >= len(o.i) {
		o.Reserve(2*len(o.i) + 1)
	}
	o.i[o.pos] = row
	o.j[o.pos] = col
	o.x[o.pos] = value
	o.pos++
}

// Size returns (rows, cols)
func (o *Triplet) Size() (rows, cols int) { return o.rows, o.cols }

// Len returns the number of entries inserted so far (N_elements, possibly including duplicates)
func (o *Triplet) Len() int { return o.pos }

// RowAt, ColAt and ValAt expose the k-th raw entry (row, column, value) inserted so far, letting callers
// fold a Triplet's entries into another sparse structure without going through ToCSR/ToMatrix.
func (o *Triplet) RowAt(k int) int     { return o.i[k] }
func (o *Triplet) ColAt(k int) int     { return o.j[k] }
func (o *Triplet) ValAt(k int) float64 { return o.x[k] }

// Validate checks the §3 invariants: indices in range, consistent array lengths. It returns a kShape
// error (see the ode package's error Kind taxonomy) wrapped as a plain error so that la stays free of
// any dependency on ode.
func (o *Triplet) Validate() error {
	if len(o.i) != len(o.j) || len(o.j) != len(o.x) {
		return fmt.Errorf("kShape: triplet backing arrays have inconsistent lengths")
	}
	for k := 0; k < o.pos; k++ {
		if o.i[k] < 0 || o.i[k] >= o.rows {
			return fmt.Errorf("kShape: row index %d out of range [0,%d)", o.i[k], o.rows)
		}
		if o.j[k] < 0 || o.j[k] >= o.cols {
			return fmt.Errorf("kShape: column index %d out of range [0,%d)", o.j[k], o.cols)
		}
	}
	return nil
}

// CSR is the compressed-row representation of a Triplet: a row-pointer array of length N+1 and flat,
// row-major, column-ascending index/value arrays of length nnz. Duplicate (i,j) pairs from the source
// Triplet have already been summed.
type CSR struct {
	Rows, Cols int
	Ap         []int     // row pointers, length Rows+1
	Ai         []int     // column indices, length nnz
	Ax         []float64 // values, length nnz
}

// entry is used internally to sort/merge triplet data before compressing it
type entry struct {
	i, j int
	x    float64
}

// ToCSR converts the triplet to compressed-row form. Row order is 0..N-1 ascending, columns within a
// row ascending, and duplicate entries are summed — mirroring the COO->CSR "compress" step used
// throughout the Go sparse-matrix ecosystem.
func (o *Triplet) ToCSR() *CSR {
	entries := make([]entry, o.pos)
	for k := 0; k < o.pos; k++ {
		entries[k] = entry{o.i[k], o.j[k], o.x[k]}
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].i != entries[b].i {
			return entries[a].i < entries[b].i
		}
		return entries[a].j < entries[b].j
	})

	Ap := make([]int, o.rows+1)
	var Ai []int
	var Ax []float64
	k := 0
	for row := 0; row < o.rows; row++ {
		Ap[row] = len(Ai)
		for k < len(entries) && entries[k].i == row {
			col := entries[k].j
			sum := entries[k].x
			k++
			for k < len(entries) && entries[k].i == row && entries[k].j == col {
				sum += entries[k].x
				k++
			}
			Ai = append(Ai, col)
			Ax = append(Ax, sum)
		}
	}
	Ap[o.rows] = len(Ai)
	return &CSR{Rows: o.rows, Cols: o.cols, Ap: Ap, Ai: Ai, Ax: Ax}
}

// Validate checks that a CSR matrix's arrays are internally consistent (row-ascending, no duplicate
// columns within a row) and fails with a kShape-flavoured error otherwise, matching the round-trip
// invariant §8.6 requires of to_csr(M).
func (o *CSR) Validate() error {
	if len(o.Ap) != o.Rows+1 {
		return fmt.Errorf("kShape: row-pointer array has wrong length %d, want %d", len(o.Ap), o.Rows+1)
	}
	if len(o.Ai) != len(o.Ax) {
		return fmt.Errorf("kShape: column-index and value arrays differ in length")
	}
	for row := 0; row < o.Rows; row++ {
		if o.Ap[row] > o.Ap[row+1] {
			return fmt.Errorf("kShape: row pointers not monotonic at row %d", row)
		}
		lastCol := -1
		for k := o.Ap[row]; k < o.Ap[row+1]; k++ {
			if o.Ai[k] < 0 || o.Ai[k] >= o.Cols {
				return fmt.Errorf("kShape: column index %d out of range [0,%d)", o.Ai[k], o.Cols)
			}
			if o.Ai[k] <= lastCol {
				return fmt.Errorf("kShape: duplicate or unsorted column %d in row %d", o.Ai[k], row)
			}
			lastCol = o.Ai[k]
		}
	}
	return nil
}

// ToMatrix densifies the CSR matrix; intended for small systems (tests, debugging) only
func (o *CSR) ToMatrix() *Matrix {
	M := NewMatrix(o.Rows, o.Cols)
	for row := 0; row < o.Rows; row++ {
		for k := o.Ap[row]; k < o.Ap[row+1]; k++ {
			M.Set(row, o.Ai[k], o.Ax[k])
		}
	}
	return M
}

// ToMatrix densifies the triplet directly, summing duplicates; a thin convenience wrapper over ToCSR
func (o *Triplet) ToMatrix() *Matrix {
	return o.ToCSR().ToMatrix()
}

// NNZ returns the number of non-zero entries after compression (post deduplication)
func (o *CSR) NNZ() int { return len(o.Ax) }

// MulVec computes y := A*x (CSR is the natural storage order for this operation)
func (o *CSR) MulVec(y, x Vector) {
	for row := 0; row < o.Rows; row++ {
		var sum float64
		for k := o.Ap[row]; k < o.Ap[row+1]; k++ {
			sum += o.Ax[k] * x[o.Ai[k]]
		}
		y[row] = sum
	}
}

// Pattern returns a stable fingerprint of the matrix's non-zero sparsity pattern (sorted (i,j) pairs),
// used by the linear solver adapter to detect when a new symbolic factorization is required
func (o *Triplet) Pattern() string {
	pairs := make([]int64, o.pos)
	for k := 0; k < o.pos; k++ {
		pairs[k] = int64(o.i[k])<<32 | int64(o.j[k])
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a] < pairs[b] })
	var sb []byte
	for _, p := range pairs {
		sb = append(sb, []byte(fmt.Sprintf("%d;", p))...)
	}
	return fmt.Sprintf("%dx%d:%s", o.rows, o.cols, sb)
}

// MassMatrixIdentity returns the N-by-N identity mass matrix (pure ODE case): exactly N diagonal ones
func MassMatrixIdentity(n int) *Triplet {
	t := new(Triplet)
	t.Init(n, n, n)
	for k := 0; k < n; k++ {
		t.Put(k, k, 1.0)
	}
	return t
}

// MassMatrixZero returns the N-by-N zero mass matrix (fully algebraic system): zero non-zeros
func MassMatrixZero(n int) *Triplet {
	t := new(Triplet)
	t.Init(n, n, 0)
	return t
}
