// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package utl implements small utility functions (math helpers, grids) shared across the module
package utl

// Max returns the maximum of a and b
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of a and b
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// MaxInt returns the maximum of a and b
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MinInt returns the minimum of a and b
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// LinSpace returns N equally spaced points in [start, stop] (inclusive)
func LinSpace(start, stop float64, N int) []float64 {
	if N < 2 {
		return []float64{start}
	}
	X := make([]float64, N)
	dx := (stop - start) / float64(N-1)
	for i := 0; i < N; i++ {
		X[i] = start + float64(i)*dx
	}
	X[N-1] = stop
	return X
}

// MeshGrid2dF evaluates f over a regular grid of nx-by-ny points spanning [xmin,xmax] x [ymin,ymax]
func MeshGrid2dF(xmin, xmax, ymin, ymax float64, nx, ny int, f func(x, y float64) float64) (X, Y, F [][]float64) {
	xx := LinSpace(xmin, xmax, nx)
	yy := LinSpace(ymin, ymax, ny)
	X = make([][]float64, ny)
	Y = make([][]float64, ny)
	F = make([][]float64, ny)
	for j := 0; j < ny; j++ {
		X[j] = make([]float64, nx)
		Y[j] = make([]float64, nx)
		F[j] = make([]float64, nx)
		for i := 0; i < nx; i++ {
			X[j][i] = xx[i]
			Y[j][i] = yy[j]
			F[j][i] = f(xx[i], yy[j])
		}
	}
	return
}

// MeshGrid2dFG is like MeshGrid2dF but additionally evaluates a vector field (u,v) at each grid point
func MeshGrid2dFG(xmin, xmax, ymin, ymax float64, nx, ny int, f func(x, y float64) (z, u, v float64)) (X, Y, F, U, V [][]float64) {
	xx := LinSpace(xmin, xmax, nx)
	yy := LinSpace(ymin, ymax, ny)
	X = make([][]float64, ny)
	Y = make([][]float64, ny)
	F = make([][]float64, ny)
	U = make([][]float64, ny)
	V = make([][]float64, ny)
	for j := 0; j < ny; j++ {
		X[j] = make([]float64, nx)
		Y[j] = make([]float64, nx)
		F[j] = make([]float64, nx)
		U[j] = make([]float64, nx)
		V[j] = make([]float64, nx)
		for i := 0; i < nx; i++ {
			z, u, v := f(xx[i], yy[j])
			X[j][i] = xx[i]
			Y[j][i] = yy[j]
			F[j][i] = z
			U[j][i] = u
			V[j][i] = v
		}
	}
	return
}
