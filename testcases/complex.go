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

// complexCases are smooth functions with many closed lines, similar to
// typical plotting data.
var complexCases = []TestCase{
	{
		Name: "peaks",
		NX:   60,
		NY:   50,
		X:    linspace(-3, 3, 60),
		Y:    linspace(-3, 3, 50),
		Z: grid(50, 60, func(i, j float64) float64 {
			x := -3 + 6*i/59
			y := -3 + 6*j/49
			return 3*(1-x)*(1-x)*math.Exp(-x*x-(y+1)*(y+1)) -
				10*(x/5-x*x*x-math.Pow(y, 5))*math.Exp(-x*x-y*y) -
				math.Exp(-(x+1)*(x+1)-y*y)/3
		}),
		Levels: linspace(-6, 8, 8),
	},
	{
		Name: "rings",
		NX:   41,
		NY:   41,
		Z: grid(41, 41, func(x, y float64) float64 {
			r := math.Hypot(x-20, y-20)
			return math.Cos(r / 2)
		}),
		Levels: []float64{-0.5, 0, 0.5},
	},
}
