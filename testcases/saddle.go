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

var saddleCases = []TestCase{
	{
		// Every quad is a saddle.  The middle value of each quad equals
		// the central level.
		Name: "checkerboard",
		NX:   5,
		NY:   4,
		Z: grid(4, 5, func(x, y float64) float64 {
			return float64((int(x) + int(y)) % 2 * 2)
		}),
		Levels: []float64{0.5, 1, 1.5},
	},
	{
		Name: "sine",
		NX:   20,
		NY:   20,
		Z: grid(20, 20, func(x, y float64) float64 {
			return math.Sin(x*math.Pi/3) * math.Sin(y*math.Pi/3)
		}),
		Levels: []float64{-0.5, -0.1, 0.1, 0.5},
	},
}
