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

var simpleCases = []TestCase{
	{
		// the smallest grid which has a closed line and a hole
		Name: "minimal",
		NX:   4,
		NY:   3,
		Z: []float64{
			1.4, 1.2, 0.9, 0.0,
			0.6, 3.0, 0.4, 0.7,
			0.2, 0.2, 0.5, 3.0,
		},
		Levels: []float64{1, 2},
	},
	{
		Name:   "axes",
		NX:     5,
		NY:     4,
		X:      []float64{0, 1, 3, 6, 10},
		Y:      []float64{-1, 0, 0.5, 2},
		Z:      grid(4, 5, func(x, y float64) float64 { return x + 2*y }),
		Levels: []float64{1.5, 3.5, 5.5},
	},
	{
		Name:   "flat",
		NX:     3,
		NY:     3,
		Z:      grid(3, 3, func(x, y float64) float64 { return 1 }),
		Levels: []float64{0, 1, 2},
	},
}
