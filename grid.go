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

package contour

import "math"

// Grid holds the data of a structured quadrilateral grid.
//
// All arrays are stored in row-major order: the point in column i and row j
// is found at index j*NX + i.
type Grid struct {
	// NX and NY are the number of grid points in the x and y directions.
	// Both must be at least 2.
	NX, NY int

	// X and Y give the point coordinates.  Each can be nil (the point
	// indices are used), a 1-D axis of length NX (for X) or NY (for Y),
	// or a full array of length NX*NY.  X and Y must use the same form.
	X, Y []float64

	// Z gives the values to contour, of length NX*NY.  Non-finite values
	// are treated as masked.
	Z []float64

	// Mask marks points which are excluded from contouring.  Mask can be
	// nil, otherwise it must have length NX*NY.
	Mask []bool
}

// gridData is the validated form of a Grid, with coordinates expanded to
// full arrays.
type gridData struct {
	nx, ny  int
	x, y, z []float64
	mask    []bool // nil if no point is masked
}

func (g *Grid) prepare(interp ZInterp) (*gridData, error) {
	if g == nil {
		return nil, configErrorf("grid", "missing")
	}
	nx, ny := g.NX, g.NY
	if nx < 2 || ny < 2 {
		return nil, configErrorf("z", "grid must be at least 2x2, not %dx%d", ny, nx)
	}
	n := nx * ny
	if len(g.Z) != n {
		return nil, configErrorf("z", "length %d does not match %dx%d grid", len(g.Z), ny, nx)
	}
	if g.Mask != nil && len(g.Mask) != n {
		return nil, configErrorf("mask", "length %d does not match %dx%d grid", len(g.Mask), ny, nx)
	}

	d := &gridData{nx: nx, ny: ny, z: g.Z}

	switch {
	case g.X == nil && g.Y == nil:
		d.x = make([]float64, n)
		d.y = make([]float64, n)
		for j := range ny {
			for i := range nx {
				d.x[j*nx+i] = float64(i)
				d.y[j*nx+i] = float64(j)
			}
		}
	case len(g.X) == n && len(g.Y) == n:
		d.x, d.y = g.X, g.Y
	case len(g.X) == nx && len(g.Y) == ny:
		d.x = make([]float64, n)
		d.y = make([]float64, n)
		for j := range ny {
			for i := range nx {
				d.x[j*nx+i] = g.X[i]
				d.y[j*nx+i] = g.Y[j]
			}
		}
	case g.X == nil || g.Y == nil:
		return nil, configErrorf("x, y", "must both be set or both be nil")
	default:
		return nil, configErrorf("x, y",
			"lengths (%d, %d) match neither the 1-D axes (%d, %d) nor the grid (%d)",
			len(g.X), len(g.Y), nx, ny, n)
	}

	// Merge the explicit mask and the non-finite z values.
	var mask []bool
	for k, z := range g.Z {
		masked := g.Mask != nil && g.Mask[k]
		if !masked && (math.IsNaN(z) || math.IsInf(z, 0)) {
			masked = true
		}
		if masked {
			if mask == nil {
				mask = make([]bool, n)
			}
			mask[k] = true
			continue
		}
		if interp == Log && z <= 0 {
			return nil, configErrorf("z", "z values must be positive for Log interpolation, found %g at (%d, %d)",
				z, k/nx, k%nx)
		}
	}
	d.mask = mask

	return d, nil
}

func (d *gridData) masked(point int) bool {
	return d.mask != nil && d.mask[point]
}
