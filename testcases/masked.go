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

import "math"

// maskedCone returns a cone shaped grid with the given points masked.
func maskedCone(name string, points ...[2]int) TestCase {
	const nx, ny = 12, 10
	mask := make([]bool, nx*ny)
	for _, p := range points {
		mask[p[1]*nx+p[0]] = true
	}
	return TestCase{
		Name: name,
		NX:   nx,
		NY:   ny,
		Z: grid(ny, nx, func(x, y float64) float64 {
			return math.Hypot(x-5.5, y-4.5)
		}),
		Mask:   mask,
		Levels: []float64{1, 2.5, 4},
	}
}

var maskedCases = []TestCase{
	maskedCone("single_interior", [2]int{3, 4}),
	maskedCone("interior_block", [2]int{5, 4}, [2]int{6, 4}, [2]int{5, 5}, [2]int{6, 5}),
	maskedCone("boundary", [2]int{0, 0}, [2]int{11, 5}, [2]int{4, 9}),
	maskedCone("diagonal", [2]int{2, 2}, [2]int{3, 3}, [2]int{4, 4}, [2]int{8, 6}),
	{
		// non-finite values act as masked points
		Name: "nan",
		NX:   6,
		NY:   5,
		Z: grid(5, 6, func(x, y float64) float64 {
			if x == 2 && y == 2 {
				return math.NaN()
			}
			if x == 4 && y == 1 {
				return math.Inf(1)
			}
			return x*y - 3
		}),
		Levels: []float64{-1.5, 0.5, 3.5},
	},
}
