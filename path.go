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

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// LinesPath returns contour lines as a path.  Closed lines end with a
// ClosePath command, open lines do not.
func LinesPath(r LineResult) (*path.Data, error) {
	chunks, err := lineChunks(r)
	if err != nil {
		return nil, err
	}

	p := &path.Data{}
	for _, c := range chunks {
		if c.isEmpty() {
			continue
		}
		for k := range len(c.lineOffsets) - 1 {
			line := c.points[c.lineOffsets[k]:c.lineOffsets[k+1]]
			closed := len(line) > 2 && line[0] == line[len(line)-1]
			if closed {
				line = line[:len(line)-1]
			}
			appendPolyline(p, line, closed)
		}
	}
	return p, nil
}

// FilledPath returns filled contours as a path, with one closed subpath
// per boundary.  The path is meant to be filled using the non-zero
// winding rule or the even-odd rule, which give the same result.
func FilledPath(r FillResult) (*path.Data, error) {
	chunks, err := fillChunks(r)
	if err != nil {
		return nil, err
	}

	p := &path.Data{}
	for _, c := range chunks {
		if c.isEmpty() {
			continue
		}
		for k := range len(c.lineOffsets) - 1 {
			ring := c.points[c.lineOffsets[k]:c.lineOffsets[k+1]]
			if n := len(ring); n > 1 && ring[0] == ring[n-1] {
				ring = ring[:n-1]
			}
			appendPolyline(p, ring, true)
		}
	}
	return p, nil
}

func appendPolyline(p *path.Data, points []vec.Vec2, closed bool) {
	if len(points) == 0 {
		return
	}
	p.MoveTo(points[0])
	for _, pt := range points[1:] {
		p.LineTo(pt)
	}
	if closed {
		p.Close()
	}
}
