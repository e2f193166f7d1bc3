// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense m-by-n matrix, backed by gonum's mat.Dense. It is used as the densified working
// array inside SparseLU's factorization step.
type Matrix struct {
	m, n int
	d    *mat.Dense
}

// NewMatrix allocates a new m-by-n matrix initialised to zero
func NewMatrix(m, n int) *Matrix {
	return &Matrix{m: m, n: n, d: mat.NewDense(m, n, nil)}
}

// Dims returns the number of rows and columns
func (o *Matrix) Dims() (m, n int) { return o.m, o.n }

// Get returns the value at (i,j)
func (o *Matrix) Get(i, j int) float64 { return o.d.At(i, j) }

// Set assigns the value at (i,j)
func (o *Matrix) Set(i, j int, v float64) { o.d.Set(i, j, v) }

// Clear zeroes all entries
func (o *Matrix) Clear() { o.d.Zero() }

// Raw returns the underlying gonum dense matrix
func (o *Matrix) Raw() *mat.Dense { return o.d }

