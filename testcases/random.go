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

import "math/rand/v2"

// RandomUniform returns z values on an ny×nx grid, drawn uniformly from
// [0, 1).  If maskFraction is positive, about this fraction of the points
// is masked; the fraction is capped at 0.99.  The result only depends on
// the arguments.
func RandomUniform(ny, nx int, seed uint64, maskFraction float64) (z []float64, mask []bool) {
	rng := rand.New(rand.NewPCG(seed, 0))

	z = make([]float64, nx*ny)
	for k := range z {
		z[k] = rng.Float64()
	}

	if maskFraction > 0 {
		maskFraction = min(maskFraction, 0.99)
		mask = make([]bool, nx*ny)
		for k := range mask {
			mask[k] = rng.Float64() < maskFraction
		}
	}
	return z, mask
}

func randomCase(name string, ny, nx int, maskFraction float64, levels int) TestCase {
	z, mask := RandomUniform(ny, nx, 2187, maskFraction)
	return TestCase{
		Name:   name,
		NX:     nx,
		NY:     ny,
		Z:      z,
		Mask:   mask,
		Levels: linspace(0.1, 0.9, levels),
	}
}

var randomCases = []TestCase{
	randomCase("uniform", 30, 40, 0, 5),
	randomCase("uniform_masked", 30, 40, 0.05, 5),
	randomCase("uniform_dense", 100, 100, 0, 9),
	randomCase("uniform_dense_masked", 100, 100, 0.1, 9),
}
