// seehuhn.de/go/contour - iso-contours of gridded data
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package testcases

// TestCase describes a gridded data set and the contour levels to use.
//
// The grid is stored in row-major order, point (i, j) is found at index
// j*NX + i.  The test cases do not depend on the contour package, so that
// the contour tests can use them.
type TestCase struct {
	Name   string // lowercase a-z, 0-9 and _ only
	NX, NY int

	X, Y []float64 // nil, 1-D axes, or full arrays
	Z    []float64
	Mask []bool // nil if no point is masked

	// Levels are the line levels.  Filled bands are formed between
	// consecutive levels.
	Levels []float64

	// Log selects logarithmic interpolation.  All unmasked z values are
	// positive.
	Log bool
}

// Bounds returns the range of the grid coordinates.
func (tc *TestCase) Bounds() (xMin, yMin, xMax, yMax float64) {
	xs, ys := tc.X, tc.Y
	if xs == nil {
		return 0, 0, float64(tc.NX - 1), float64(tc.NY - 1)
	}
	xMin, xMax = xs[0], xs[0]
	for _, x := range xs {
		xMin = min(xMin, x)
		xMax = max(xMax, x)
	}
	yMin, yMax = ys[0], ys[0]
	for _, y := range ys {
		yMin = min(yMin, y)
		yMax = max(yMax, y)
	}
	return xMin, yMin, xMax, yMax
}

// Bands returns the filled bands as (lower, upper) pairs.
func (tc *TestCase) Bands() [][2]float64 {
	var bands [][2]float64
	for k := 1; k < len(tc.Levels); k++ {
		bands = append(bands, [2]float64{tc.Levels[k-1], tc.Levels[k]})
	}
	return bands
}

// grid evaluates f at the integer points of an ny×nx grid.
func grid(ny, nx int, f func(x, y float64) float64) []float64 {
	z := make([]float64, nx*ny)
	for j := range ny {
		for i := range nx {
			z[j*nx+i] = f(float64(i), float64(j))
		}
	}
	return z
}

// linspace returns n equally spaced values from a to b.
func linspace(a, b float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return res
}
