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
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"
)

// location is the position and direction of a tracer.
//
// Directions are steps in the point array.  On a boundary, forward takes
// the following values:
//
//	   -1  N boundary, E to W
//	    1  S boundary, W to E
//	  -nx  W boundary, N to S
//	   nx  E boundary, S to N
//	-nx+1  NE corner, NW to SE
//	 nx+1  NW corner, SW to NE
//	-nx-1  SE corner, NE to SW
//	 nx-1  SW corner, SE to NW
//
// The left direction is forward rotated by 90 degrees anticlockwise.
type location struct {
	quad, forward, left int
	isUpper             bool
	onBoundary          bool
}

func (l location) String() string {
	return fmt.Sprintf("quad=%d forward=%d left=%d is_upper=%t on_boundary=%t",
		l.quad, l.forward, l.left, l.isUpper, l.onBoundary)
}

// interp appends the crossing of the current upper or lower level on the
// edge between two points.
func (g *Generator) interp(point0, point1 int, isUpper bool, local *chunkLocal) {
	z := g.data.z
	z1 := z[point1]
	level := g.lower
	if isUpper {
		level = g.upper
	}

	var frac float64
	if g.zInterp == Log {
		// The result does not depend on the base of the logarithm.
		frac = math.Log(z1/level) / math.Log(z1/z[point0])
	} else {
		frac = (z1 - level) / (z1 - z[point0])
	}

	// Exact when both points share a coordinate, so that lines end on
	// the grid boundary.
	x, y := g.data.x, g.data.y
	local.points = append(local.points, vec.Vec2{
		X: x[point1] + frac*(x[point0]-x[point1]),
		Y: y[point1] + frac*(y[point0]-y[point1]),
	})
}

func (g *Generator) addPoint(point int, local *chunkLocal) {
	local.points = append(local.points, vec.Vec2{X: g.data.x[point], Y: g.data.y[point]})
}

// followBoundary traces along the grid or chunk boundary until the path
// leaves into the interior.  It returns true if the path is back at its
// start.
func (g *Generator) followBoundary(loc *location, start location, local *chunkLocal, pointCount *int) bool {
	nx := g.nx
	quad, forward, left := loc.quad, loc.forward, loc.left
	pass := local.pass

	var startPoint int
	switch {
	case forward == nx && left == -1:
		startPoint = quad - nx
	case forward == 1 && left == nx:
		startPoint = quad - nx - 1
	case forward == nx-1 && left == -nx-1 && g.has(quad, existsSWCorner):
		startPoint = quad - nx
	case forward == nx+1 && left == nx-1 && g.has(quad, existsNWCorner):
		startPoint = quad - nx - 1
	case forward == -nx && left == 1:
		startPoint = quad - 1
	case forward == -1 && left == -nx:
		startPoint = quad
	case forward == -nx+1 && left == nx+1 && g.has(quad, existsNECorner):
		startPoint = quad - 1
	case forward == -nx-1 && left == -nx+1 && g.has(quad, existsSECorner):
		startPoint = quad
	default:
		faultf("invalid boundary direction at %s", *loc)
	}

	endPoint := startPoint + forward
	startZ := g.levels[startPoint]
	endZ := g.levels[endPoint]

	// The first point is somewhere along the start edge, or at the start
	// point itself for a boundary start.
	*pointCount++
	if pass > 0 {
		if startZ == 1 {
			g.addPoint(startPoint, local)
		} else {
			g.interp(startPoint, endPoint, loc.isUpper, local)
		}
	}

	finished := false
	for {
		if !local.containsQuad(quad, nx) {
			faultf("boundary walk left chunk %d at quad %d", local.chunk, quad)
		}

		if quad == start.quad && forward == start.forward && left == start.left {
			if start.onBoundary && *pointCount > 1 {
				finished = true
				break
			}
		} else if pass == 0 {
			g.clearBoundaryStart(quad, forward, left)
		}

		if endZ != 1 {
			// Leave into the interior along this level.
			loc.isUpper = endZ == 2
			forward, left = left, -forward
			break
		}

		*pointCount++
		if pass > 0 {
			g.addPoint(endPoint, local)

			if g.identifyHoles && g.is(quad, lookN) &&
				(left == nx || left == nx+1 || forward == nx+1) {
				local.lookUpQuads = append(local.lookUpQuads, quad)
			}
		}

		quad, forward, left = g.moveToNextBoundaryEdge(quad, forward, left)

		startPoint = endPoint
		endPoint = startPoint + forward
		endZ = g.levels[endPoint]
	}

	loc.quad, loc.forward, loc.left = quad, forward, left
	return finished
}

// clearBoundaryStart removes a start which lies on the boundary being
// traced in the first pass, since the path through it is already being
// counted.
func (g *Generator) clearBoundaryStart(quad, forward, left int) {
	nx := g.nx
	s := &g.state[quad]
	switch {
	case left == nx:
		*s &^= startBoundaryS
	case forward == -nx:
		*s &^= startBoundaryW
	case left == -nx:
		*s &^= startHoleN
	default:
		switch g.gridFlags[quad] & existsAnyCorner {
		case existsNECorner:
			if left == nx+1 {
				*s &^= startCorner
			}
		case existsNWCorner:
			if forward == nx+1 {
				*s &^= startCorner
			}
		case existsSECorner:
			if forward == -nx-1 {
				*s &^= startCorner
			}
		case existsSWCorner:
			if left == -nx-1 {
				*s &^= startCorner
			}
		}
	}
}

// followInterior traces a contour through the interior of the chunk until
// it reaches a boundary.  It returns true if the path is back at its
// start.  One point is added per quad visited, on the entry edge.
func (g *Generator) followInterior(loc *location, start location, local *chunkLocal, pointCount *int) bool {
	nx := g.nx
	quad, forward, left := loc.quad, loc.forward, loc.left
	isUpper := loc.isUpper
	pass := local.pass

	// Left point of the entry edge.
	var leftPoint int
	startCornerDiagonal := false
	switch {
	case forward == nx && left == -1:
		leftPoint = quad - nx - 1
	case forward == 1 && left == nx:
		leftPoint = quad - 1
	case forward == nx-1 && left == -nx-1 && g.has(quad, existsNWCorner):
		leftPoint = quad - nx - 1
		startCornerDiagonal = true
	case forward == nx+1 && left == nx-1 && g.has(quad, existsNECorner):
		leftPoint = quad - 1
		startCornerDiagonal = true
	case forward == -nx && left == 1:
		leftPoint = quad
	case forward == -1 && left == -nx:
		leftPoint = quad - nx
	case forward == -nx-1 && left == -nx+1 && g.has(quad, existsSWCorner):
		leftPoint = quad - nx
		startCornerDiagonal = true
	case forward == -nx+1 && left == nx+1 && g.has(quad, existsSECorner):
		leftPoint = quad
		startCornerDiagonal = true
	default:
		faultf("invalid interior direction at %s", *loc)
	}
	rightPoint := leftPoint - left

	wantLookN := g.identifyHoles && pass > 0
	var zTest uint8
	if isUpper {
		zTest = 2
	}

	finished := false
	for {
		if !local.containsQuad(quad, nx) {
			faultf("interior walk left chunk %d at quad %d", local.chunk, quad)
		}

		if pass > 0 {
			g.interp(leftPoint, rightPoint, isUpper, local)
		}
		*pointCount++

		if quad == start.quad && forward == start.forward && left == start.left &&
			isUpper == start.isUpper && !start.onBoundary && *pointCount > 1 {
			finished = true
			break
		}

		oppositeLeft := leftPoint + forward
		oppositeRight := rightPoint + forward
		cornerOppositeIsRight := false
		entryForward := forward
		f := g.gridFlags[quad]

		if startCornerDiagonal {
			// Turn 45 degrees to the left, so that forward and left are
			// axis aligned again.
			cornerOppositeIsRight = true
			switch f & existsAnyCorner {
			case existsNWCorner:
				forward, left = -1, -nx
				oppositeLeft, oppositeRight = quad-1, quad-1
			case existsNECorner:
				forward, left = nx, -1
				oppositeLeft, oppositeRight = quad, quad
			case existsSWCorner:
				forward, left = -nx, 1
				oppositeLeft, oppositeRight = quad-nx-1, quad-nx-1
			default:
				forward, left = 1, nx
				oppositeLeft, oppositeRight = quad-nx, quad-nx
			}
		}

		zOppositeLeft := g.levels[oppositeLeft]
		zOppositeRight := g.levels[oppositeRight]

		turn := -1 // 1 turns left, 0 goes straight on, -1 turns right
		switch {
		case f&existsQuad != 0:
			if zOppositeLeft == zTest {
				if zOppositeRight == zTest || g.saddleLevel(quad) == zTest {
					turn = 1
				}
			} else if zOppositeRight == zTest {
				turn = 0
			}
		case startCornerDiagonal:
			if zOppositeLeft == zTest {
				turn = 0
			}
		default:
			switch f & existsAnyCorner {
			case existsNWCorner:
				cornerOppositeIsRight = forward == -nx
			case existsNECorner:
				cornerOppositeIsRight = forward == -1
			case existsSWCorner:
				cornerOppositeIsRight = forward == 1
			default:
				cornerOppositeIsRight = forward == nx
			}
			if cornerOppositeIsRight {
				if zOppositeRight == zTest {
					turn = 0
				}
			} else {
				turn = 0
				if zOppositeLeft == zTest {
					turn = 1
				}
			}
		}

		if pass == 0 && !(quad == start.quad && forward == start.forward && left == start.left) {
			// Remove starts which this path passes through.
			s := &g.state[quad]
			zNE := g.levels[quad]
			zNW := g.levels[quad-1]
			if *s&startE != 0 && forward == -1 && left == -nx && turn == -1 &&
				(isUpper && zNE > 0 || !isUpper && zNE < 2) {
				*s &^= startE
				if !g.filled && quad < start.quad {
					// The rest of the line has been counted already.
					break
				}
			} else if *s&startN != 0 && forward == -nx && left == 1 && turn == 1 &&
				(isUpper && zNW > 0 || !isUpper && zNW < 2) {
				*s &^= startN
				if !g.filled && quad < start.quad {
					break
				}
			}
		}

		reachedBoundary := false

		// Find the entry edge of the next quad.  The quad index is
		// updated below.
		switch {
		case turn > 0:
			forward, left = left, -forward
			rightPoint = oppositeLeft
		case turn < 0:
			forward, left = -left, forward
			leftPoint = oppositeRight
		case f&existsQuad != 0:
			leftPoint = oppositeLeft
			rightPoint = oppositeRight
		case startCornerDiagonal:
			rightPoint = oppositeRight
		default:
			// Straight on in a corner reaches the diagonal boundary.
			reachedBoundary = true
			if cornerOppositeIsRight {
				rightPoint = oppositeRight
			} else {
				leftPoint = oppositeLeft
			}
			switch f & existsAnyCorner {
			case existsNWCorner:
				forward, left = nx+1, nx-1
			case existsNECorner:
				forward, left = -nx+1, nx+1
			case existsSWCorner:
				forward, left = nx-1, -nx-1
			default:
				forward, left = -nx-1, -nx+1
			}
		}

		if g.quadAsTri && f&existsQuad != 0 && g.crossesDiagonal(entryForward, forward) {
			*pointCount++
			if pass > 0 {
				g.interp(quad-nx-1, quad, isUpper, local)
			}
		}

		if wantLookN && forward == 1 && g.is(quad, lookN) {
			// If the quad is also a look S quad, only the line which
			// belongs to the look N flag is recorded.
			zNE := g.levels[quad]
			if !g.is(quad, lookS) || (isUpper && zNE < 2 || !isUpper && zNE > 0) {
				local.lookUpQuads = append(local.lookUpQuads, quad)
			}
		}

		if !reachedBoundary {
			switch forward {
			case 1:
				reachedBoundary = g.has(quad, boundaryE)
			case nx:
				reachedBoundary = g.has(quad, boundaryN)
			case -1:
				reachedBoundary = g.boundaryW(quad)
			case -nx:
				reachedBoundary = g.boundaryS(quad)
			default:
				faultf("invalid interior direction %d in quad %d", forward, quad)
			}
			if reachedBoundary {
				forward, left = left, -forward
			}
		}

		if reachedBoundary {
			if !g.filled {
				*pointCount++
				if pass > 0 {
					g.interp(leftPoint, rightPoint, false, local)
				}
			}
			break
		}

		quad += forward
		startCornerDiagonal = false
	}

	loc.quad, loc.forward, loc.left = quad, forward, left
	loc.isUpper = isUpper
	return finished
}

// crossesDiagonal reports whether a path entering a quad in direction
// entry and leaving in direction exit passes from one triangle to the
// other, when the quad is split along its SW-NE diagonal.  The S and E
// edges belong to the lower right triangle.
func (g *Generator) crossesDiagonal(entry, exit int) bool {
	entryLowerRight := entry == g.nx || entry == -1 // via S or E edge
	exitLowerRight := exit == -g.nx || exit == 1    // via S or E edge
	return entryLowerRight != exitLowerRight
}

// moveToNextBoundaryEdge finds the boundary edge which continues the
// boundary path at the end point of the current edge, looking clockwise.
func (g *Generator) moveToNextBoundaryEdge(quad, forward, left int) (int, int, int) {
	nx := g.nx

	// Edges leaving the NE point of a quad, clockwise:
	//
	//	0  E edge facing N, forward = nx
	//	1  SE edge (NW corner) from SW facing NE, forward = nx+1
	//	2  S edge facing E, forward = 1
	//	3  SW edge (NE corner) from NW facing SE, forward = -nx+1
	//	4  W edge facing S, forward = -nx
	//	5  NW edge (SE corner) from NE facing SW, forward = -nx-1
	//	6  N edge facing W, forward = -1
	//	7  NE edge (SW corner) from SE facing NW, forward = nx-1
	//
	// The quad is changed to the one whose NE point is the end point of
	// the current edge.
	var edge int
	switch {
	case forward == nx && left == -1:
		edge = 0
	case forward == 1 && left == nx:
		quad -= nx
		edge = 2
	case forward == nx-1 && g.has(quad, existsSWCorner):
		quad--
		edge = 7
	case forward == nx+1 && g.has(quad, existsNWCorner):
		edge = 1
	case forward == -nx && left == 1:
		quad -= nx + 1
		edge = 4
	case forward == -1 && left == -nx:
		quad--
		edge = 6
	case forward == -nx+1 && g.has(quad, existsNECorner):
		quad -= nx
		edge = 3
	case forward == -nx-1 && g.has(quad, existsSECorner):
		quad -= nx + 1
		edge = 5
	default:
		faultf("invalid boundary direction forward=%d left=%d in quad %d", forward, left, quad)
	}

	step := 1
	if !g.cornerMask {
		// Only the axis aligned edges can be boundaries.
		edge++
		step = 2
	}

	for range 8 {
		switch edge {
		case 0:
			if g.has(quad, existsSECorner) {
				return quad, -nx - 1, -nx + 1
			}
		case 1:
			if g.has(quad, boundaryN) {
				return quad, -1, -nx
			}
		case 2:
			if g.has(quad+nx, existsSWCorner) {
				return quad + nx, nx - 1, -nx - 1
			}
		case 3:
			if g.has(quad+nx, boundaryE) {
				return quad + nx, nx, -1
			}
		case 4:
			if g.has(quad+nx+1, existsNWCorner) {
				return quad + nx + 1, nx + 1, nx - 1
			}
		case 5:
			if g.has(quad+1, boundaryN) {
				return quad + nx + 1, 1, nx
			}
		case 6:
			if g.has(quad+1, existsNECorner) {
				return quad + 1, -nx + 1, nx + 1
			}
		case 7:
			if g.has(quad, boundaryE) {
				return quad + 1, -nx, 1
			}
		}
		edge = (edge + step) % 8
	}

	faultf("no boundary edge continues at quad %d", quad)
	return 0, 0, 0
}

// setLookFlags marks a hole start with LOOK_S, and the quad on the
// enclosing outer boundary directly to the south with LOOK_N.
func (g *Generator) setLookFlags(holeStartQuad int) {
	if g.is(holeStartQuad, lookS) {
		faultf("look S already set in quad %d", holeStartQuad)
	}
	g.state[holeStartQuad] |= lookS

	nx := g.nx
	quad := holeStartQuad
	for {
		if quad < 0 {
			faultf("no look N quad below hole start %d", holeStartQuad)
		}
		if g.boundaryS(quad) || g.has(quad, existsNECorner|existsNWCorner) || g.levels[quad-nx] != 1 {
			if g.is(quad, lookN) {
				faultf("look N already set in quad %d", quad)
			}
			g.state[quad] |= lookN
			return
		}
		quad -= nx
	}
}

// findLookS walks north from a look N quad to the corresponding hole start.
func (g *Generator) findLookS(lookNQuad int) int {
	quad := lookNQuad
	for !g.is(quad, lookS) {
		quad += g.nx
		if quad >= len(g.state) || !g.has(quad, existsAny) {
			faultf("no hole start above look N quad %d", lookNQuad)
		}
	}
	return quad
}
