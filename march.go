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
	"math"

	"seehuhn.de/go/geom/vec"
)

// chunkLocal holds the working state of the tracer for one chunk.
// Quad limits are inclusive.
type chunkLocal struct {
	chunk        int
	istart, iend int
	jstart, jend int
	pass         int
	totalPoints  int
	lineCount    int
	holeCount    int
	points       []vec.Vec2
	lineOffsets  []uint32
	outerOffsets []uint32
	lookUpQuads  []int
}

func (l *chunkLocal) containsQuad(quad, nx int) bool {
	i, j := quad%nx, quad/nx
	return i >= l.istart && i <= l.iend && j >= l.jstart && j <= l.jend
}

// chunkData is the traced output of a single chunk.
//
// lineOffsets has one entry per path, plus a final entry equal to the
// number of points.  If holes are identified, outerOffsets lists the index
// into lineOffsets at which each outer boundary starts, again followed by
// a final entry.  Each outer boundary is followed by its holes.
type chunkData struct {
	points       []vec.Vec2
	lineOffsets  []uint32
	outerOffsets []uint32
}

func (c *chunkData) isEmpty() bool {
	return len(c.points) == 0
}

// chunkLimits returns the quad limits of a chunk.  Quads are indexed by
// their NE point, so that quad indices start at 1 in each direction.
func (g *Generator) chunkLimits(chunk int) *chunkLocal {
	ichunk := chunk % g.nxChunks
	jchunk := chunk / g.nxChunks

	local := &chunkLocal{chunk: chunk}
	local.istart = ichunk*g.xChunkSize + 1
	if ichunk < g.nxChunks-1 {
		local.iend = (ichunk + 1) * g.xChunkSize
	} else {
		local.iend = g.nx - 1
	}
	local.jstart = jchunk*g.yChunkSize + 1
	if jchunk < g.nyChunks-1 {
		local.jend = (jchunk + 1) * g.yChunkSize
	} else {
		local.jend = g.ny - 1
	}
	return local
}

type outerOrHole bool

const (
	outer outerOrHole = false
	hole  outerOrHole = true
)

// closedLine traces a closed boundary of a filled region, alternating
// between boundary and interior segments.
func (g *Generator) closedLine(start location, kind outerOrHole, local *chunkLocal) {
	if kind == hole && local.pass == 0 && g.identifyHoles {
		g.setLookFlags(start.quad)
	}

	loc := start
	pointCount := 0
	finished := false
	for !finished {
		if loc.onBoundary {
			finished = g.followBoundary(&loc, start, local, &pointCount)
		} else {
			finished = g.followInterior(&loc, start, local, &pointCount)
		}
		loc.onBoundary = !loc.onBoundary
	}

	if local.pass > 0 {
		local.lineOffsets[local.lineCount] = uint32(local.totalPoints)
		if kind == outer && g.identifyHoles {
			outerCount := local.lineCount - local.holeCount
			local.outerOffsets[outerCount] = uint32(local.lineCount)
		}
	}

	local.totalPoints += pointCount
	local.lineCount++
	if kind == hole {
		local.holeCount++
	}
}

// closedLineWrapper traces an outer boundary.  In the second pass, if
// holes are identified, the holes inside the outer boundary are traced
// directly after it.
func (g *Generator) closedLineWrapper(start location, kind outerOrHole, local *chunkLocal) {
	if local.pass == 0 || !g.identifyHoles {
		g.closedLine(start, kind, local)
		return
	}

	local.lookUpQuads = local.lookUpQuads[:0]
	g.closedLine(start, kind, local)

	// Tracing a hole can append to lookUpQuads.
	for k := 0; k < len(local.lookUpQuads); k++ {
		quad := g.findLookS(local.lookUpQuads[k])

		// A hole starts at START_E, START_HOLE_N or at a SW corner.
		switch {
		case g.is(quad, startE):
			g.closedLine(location{quad, -1, -g.nx, g.levels[quad] > 0, false}, hole, local)
		case g.is(quad, startHoleN):
			g.closedLine(location{quad, -1, -g.nx, false, true}, hole, local)
		case g.is(quad, startCorner) && g.has(quad, existsSWCorner):
			g.closedLine(location{quad, g.nx - 1, -g.nx - 1, false, true}, hole, local)
		default:
			faultf("no hole start in look S quad %d", quad)
		}
	}
}

// line traces a single contour line.
func (g *Generator) line(start location, local *chunkLocal) {
	loc := start
	pointCount := 0

	// finished is true for a closed loop.
	finished := g.followInterior(&loc, start, local, &pointCount)

	if local.pass > 0 {
		local.lineOffsets[local.lineCount] = uint32(local.totalPoints)
	}

	if local.pass == 0 && !start.onBoundary && !finished {
		// An interior start which is not a closed loop is part of a line
		// which starts on a boundary and is traced from there.  The first
		// point would otherwise be counted twice.
		pointCount--
	} else {
		local.lineCount++
	}

	local.totalPoints += pointCount
}

// marchFilled traces all filled boundaries of a chunk.
func (g *Generator) marchFilled(local *chunkLocal) *chunkData {
	nx := g.nx
	for local.pass = 0; local.pass < 2; local.pass++ {
		ignoreHoles := g.identifyHoles && local.pass == 1

		jFinalStart := local.jstart
		for j := local.jstart; j <= local.jend; j++ {
			quad := local.istart + j*nx

			if g.is(quad, noMoreStarts) {
				break
			}
			if g.is(quad, noStartsInRow) {
				continue
			}

			prevStartCount := local.lineCount
			if g.identifyHoles {
				prevStartCount -= local.holeCount
			}

			for i := local.istart; i <= local.iend; i, quad = i+1, quad+1 {
				if !g.is(quad, anyStartFilled) {
					continue
				}
				zNW := g.levels[quad-1]
				zNE := g.levels[quad]
				zSW := g.levels[quad-nx-1]

				if g.is(quad, startBoundaryS) {
					g.closedLineWrapper(location{quad, 1, nx, zSW == 2, true}, outer, local)
				}

				if g.is(quad, startBoundaryW) {
					g.closedLineWrapper(location{quad, -nx, 1, zNW == 2, true}, outer, local)
				}

				if g.is(quad, startCorner) {
					switch g.gridFlags[quad] & existsAnyCorner {
					case existsNECorner:
						g.closedLineWrapper(location{quad, -nx + 1, nx + 1, zNW == 2, true}, outer, local)
					case existsNWCorner:
						g.closedLineWrapper(location{quad, nx + 1, nx - 1, zSW == 2, true}, outer, local)
					case existsSECorner:
						g.closedLineWrapper(location{quad, -nx - 1, -nx + 1, zNE == 2, true}, outer, local)
					default:
						if !ignoreHoles {
							g.closedLineWrapper(location{quad, nx - 1, -nx - 1, false, true}, hole, local)
						}
					}
				}

				if g.is(quad, startN) {
					g.closedLineWrapper(location{quad, -nx, 1, zNW > 0, false}, outer, local)
				}

				if ignoreHoles {
					continue
				}

				if g.is(quad, startE) {
					g.closedLineWrapper(location{quad, -1, -nx, zNE > 0, false}, hole, local)
				}

				if g.is(quad, startHoleN) {
					g.closedLineWrapper(location{quad, -1, -nx, false, true}, hole, local)
				}
			}

			startCount := local.lineCount
			if g.identifyHoles {
				startCount -= local.holeCount
			}
			if startCount != prevStartCount {
				jFinalStart = j
			} else {
				g.state[local.istart+j*nx] |= noStartsInRow
			}
		}

		if jFinalStart < local.jend {
			g.state[local.istart+(jFinalStart+1)*nx] |= noMoreStarts
		}

		if local.pass == 0 {
			g.allocate(local)
		}
	}

	return g.finish(local)
}

// marchLines traces all contour lines of a chunk.
func (g *Generator) marchLines(local *chunkLocal) *chunkData {
	nx := g.nx
	for local.pass = 0; local.pass < 2; local.pass++ {
		jFinalStart := local.jstart
		for j := local.jstart; j <= local.jend; j++ {
			quad := local.istart + j*nx

			if g.is(quad, noMoreStarts) {
				break
			}
			if g.is(quad, noStartsInRow) {
				continue
			}

			prevStartCount := local.lineCount

			for i := local.istart; i <= local.iend; i, quad = i+1, quad+1 {
				if !g.is(quad, anyStartLines) {
					continue
				}

				if g.is(quad, startBoundaryS) {
					g.line(location{quad, nx, -1, false, true}, local)
				}
				if g.is(quad, startBoundaryW) {
					g.line(location{quad, 1, nx, false, true}, local)
				}
				if g.is(quad, startBoundaryE) {
					g.line(location{quad, -1, -nx, false, true}, local)
				}
				if g.is(quad, startBoundaryN) {
					g.line(location{quad, -nx, 1, false, true}, local)
				}
				if g.is(quad, startE) {
					g.line(location{quad, -1, -nx, false, false}, local)
				}
				if g.is(quad, startN) {
					g.line(location{quad, -nx, 1, false, false}, local)
				}
				if g.is(quad, startCorner) {
					var forward, left int
					switch g.gridFlags[quad] & existsAnyCorner {
					case existsNWCorner:
						forward, left = nx-1, -nx-1
					case existsNECorner:
						forward, left = nx+1, nx-1
					case existsSWCorner:
						forward, left = -nx-1, -nx+1
					default:
						forward, left = -nx+1, nx+1
					}
					g.line(location{quad, forward, left, false, true}, local)
				}
			}

			if local.lineCount != prevStartCount {
				jFinalStart = j
			} else {
				g.state[local.istart+j*nx] |= noStartsInRow
			}
		}

		if jFinalStart < local.jend {
			g.state[local.istart+(jFinalStart+1)*nx] |= noMoreStarts
		}

		if local.pass == 0 {
			g.allocate(local)
		}
	}

	return g.finish(local)
}

// allocate sizes the output buffers of a chunk from the counts of the
// first pass, and resets the counts for the second pass.
func (g *Generator) allocate(local *chunkLocal) {
	if local.totalPoints > math.MaxUint32 {
		faultf("chunk %d has %d points, too many for 32 bit offsets", local.chunk, local.totalPoints)
	}

	local.points = make([]vec.Vec2, 0, local.totalPoints)

	local.lineOffsets = make([]uint32, local.lineCount+1)
	local.lineOffsets[local.lineCount] = uint32(local.totalPoints)

	if g.filled && g.identifyHoles {
		outerCount := local.lineCount - local.holeCount
		local.outerOffsets = make([]uint32, outerCount+1)
		local.outerOffsets[outerCount] = uint32(local.lineCount)
	} else {
		local.outerOffsets = nil
	}

	local.totalPoints = 0
	local.lineCount = 0
	local.holeCount = 0
}

// finish checks that both passes agree and returns the chunk data.
func (g *Generator) finish(local *chunkLocal) *chunkData {
	if len(local.lineOffsets) != local.lineCount+1 {
		faultf("chunk %d: %d paths in first pass, %d in second",
			local.chunk, len(local.lineOffsets)-1, local.lineCount)
	}
	if int(local.lineOffsets[local.lineCount]) != local.totalPoints || len(local.points) != local.totalPoints {
		faultf("chunk %d: %d points in first pass, %d in second",
			local.chunk, local.lineOffsets[local.lineCount], len(local.points))
	}
	if local.outerOffsets != nil {
		outerCount := local.lineCount - local.holeCount
		if len(local.outerOffsets) != outerCount+1 {
			faultf("chunk %d: %d outer boundaries in first pass, %d in second",
				local.chunk, len(local.outerOffsets)-1, outerCount)
		}
	}

	if local.totalPoints == 0 {
		return &chunkData{}
	}
	return &chunkData{
		points:       local.points,
		lineOffsets:  local.lineOffsets,
		outerOffsets: local.outerOffsets,
	}
}
