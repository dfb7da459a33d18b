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

var logCases = []TestCase{
	{
		Name: "exponential",
		NX:   10,
		NY:   8,
		Z: grid(8, 10, func(x, y float64) float64 {
			return math.Pow(10, 0.3*x+0.2*y)
		}),
		Levels: []float64{3, 30, 300, 3000},
		Log:    true,
	},
	{
		Name: "peak",
		NX:   15,
		NY:   15,
		Z: grid(15, 15, func(x, y float64) float64 {
			return math.Exp(8 - ((x-7)*(x-7)+(y-7)*(y-7))/4)
		}),
		Levels: []float64{2, 20, 200, 2000},
		Log:    true,
	},
}
