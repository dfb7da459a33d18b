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
	"strings"
)

// Grid flags.  These are set once, when the generator is constructed.
// At most one of the exists flags is set per quad.  The corner flags are
// only used with corner masking, and name the corner which is furthest
// from the single masked corner.
const (
	existsQuad     uint16 = 1 << iota // all four corners are unmasked
	existsNECorner                    // SW corner masked
	existsNWCorner                    // SE corner masked
	existsSECorner                    // NW corner masked
	existsSWCorner                    // NE corner masked
	boundaryN                         // N edge of the quad is a boundary
	boundaryE                         // E edge of the quad is a boundary

	existsAnyCorner = existsNECorner | existsNWCorner | existsSECorner | existsSWCorner
	existsAny       = existsQuad | existsAnyCorner
	existsNEdge     = existsQuad | existsNWCorner | existsNECorner
	existsEEdge     = existsQuad | existsNECorner | existsSECorner
	existsSEdge     = existsQuad | existsSWCorner | existsSECorner
	existsWEdge     = existsQuad | existsNWCorner | existsSWCorner
	existsNAndEEdge = existsQuad | existsNECorner
)

// Per query state of a quad.
const (
	saddleLevel1     uint32 = 1 << iota // saddle z > lower level
	saddleLevel2                        // saddle z > upper level
	startN                              // N to E, filled and lines
	startE                              // E to N, filled and lines
	startBoundaryN                      // lines only
	startBoundaryE                      // lines only
	startBoundaryS                      // filled and lines
	startBoundaryW                      // filled and lines
	startHoleN                          // N boundary, E to W, filled only
	startCorner                         // filled and lines
	lookN                               // hole look-up, lower end
	lookS                               // hole look-up, upper end
	noStartsInRow                       // set on the first quad of a chunk row
	noMoreStarts                        // set on the first quad of a chunk row

	saddleMask       = saddleLevel1 | saddleLevel2
	anyStartFilled   = startN | startE | startBoundaryW | startBoundaryS | startHoleN | startCorner
	anyStartLines    = startN | startE | startBoundaryN | startBoundaryE | startBoundaryS | startBoundaryW | startCorner
	saddleUnset      = saddleMask
	clearedQuadState = saddleUnset
)

// initGrid computes the existence and boundary flags of all quads.
func (g *Generator) initGrid() {
	nx, ny := g.nx, g.ny
	flags := make([]uint16, nx*ny)
	d := g.data

	if d.mask == nil {
		for j := range ny {
			for i := range nx {
				quad := i + j*nx
				var f uint16
				if i > 0 && j > 0 {
					f |= existsQuad
				}
				if (i%g.xChunkSize == 0 || i == nx-1) && j > 0 {
					f |= boundaryE
				}
				if (j%g.yChunkSize == 0 || j == ny-1) && i > 0 {
					f |= boundaryN
				}
				flags[quad] = f
			}
		}
		g.gridFlags = flags
		return
	}

	// Quad and corner existence.
	bit := func(point int) int {
		if d.mask[point] {
			return 1
		}
		return 0
	}
	for j := 1; j < ny; j++ {
		for i := 1; i < nx; i++ {
			quad := i + j*nx
			config := bit(quad-1)<<3 | bit(quad)<<2 | bit(quad-nx-1)<<1 | bit(quad-nx)
			if !g.cornerMask {
				if config == 0 {
					flags[quad] = existsQuad
				}
				continue
			}
			switch config {
			case 0:
				flags[quad] = existsQuad
			case 1:
				flags[quad] = existsNWCorner
			case 2:
				flags[quad] = existsNECorner
			case 4:
				flags[quad] = existsSWCorner
			case 8:
				flags[quad] = existsSECorner
			}
		}
	}

	// Boundaries between existing and missing parts, and along chunk lines.
	has := func(quad int, mask uint16) bool {
		return flags[quad]&mask != 0
	}
	for j := range ny {
		jChunkBoundary := j%g.yChunkSize == 0
		for i := range nx {
			quad := i + j*nx
			iChunkBoundary := i%g.xChunkSize == 0

			var hasE, eastHasW, hasN, northHasS bool
			if g.cornerMask {
				hasE = has(quad, existsEEdge)
				eastHasW = i < nx-1 && has(quad+1, existsWEdge)
				hasN = has(quad, existsNEdge)
				northHasS = j < ny-1 && has(quad+nx, existsSEdge)
			} else {
				hasE = has(quad, existsQuad)
				hasN = hasE
				eastHasW = i < nx-1 && has(quad+1, existsQuad)
				northHasS = j < ny-1 && has(quad+nx, existsQuad)
			}

			if hasE != eastHasW || (iChunkBoundary && hasE && eastHasW) {
				flags[quad] |= boundaryE
			}
			if hasN != northHasS || (jChunkBoundary && hasN && northHasS) {
				flags[quad] |= boundaryN
			}
		}
	}
	g.gridFlags = flags
}

// zLevel classifies a z value relative to the levels of the current query.
func (g *Generator) zLevel(z float64) uint8 {
	if g.filled && z > g.upper {
		return 2
	}
	if z > g.lower {
		return 1
	}
	return 0
}

// saddleLevel returns the z-level of the centre of a quad, computing and
// caching it on first use.
func (g *Generator) saddleLevel(quad int) uint8 {
	if s := g.state[quad] & saddleMask; s != saddleUnset {
		return uint8(s)
	}

	z := g.data.z
	nx := g.nx
	var level uint8
	if g.quadAsTri {
		// The SW-NE diagonal connects the SW and NE corners.
		level = g.zLevel(z[quad-nx-1])
	} else {
		zmid := 0.25 * (z[quad-nx-1] + z[quad-nx] + z[quad-1] + z[quad])
		level = g.zLevel(zmid)
	}
	g.state[quad] = g.state[quad]&^saddleMask | uint32(level)
	return level
}

// initLevelsAndStarts computes the z-levels of the points owned by a chunk
// and marks the start locations in the quads of the chunk.
//
// Points and quads on row 0 and column 0 belong to the chunks which touch
// them.  Levels of points owned by other chunks are computed directly
// from z, so that chunks can be initialised concurrently.
func (g *Generator) initLevelsAndStarts(local *chunkLocal) {
	nx := g.nx
	z := g.data.z
	flags := g.gridFlags
	state := g.state
	levels := g.levels

	istart := local.istart
	if istart <= 1 {
		istart = 0
	}
	jstart := local.jstart
	if jstart <= 1 {
		jstart = 0
	}
	iend, jend := local.iend, local.jend

	jFinalStart := jstart - 1

	for j := jstart; j <= jend; j++ {
		quad := istart + j*nx
		startInRow := false

		var zNW, zSW uint8
		if istart > 0 {
			zNW = g.zLevel(z[quad-1])
			if j > 0 {
				zSW = g.zLevel(z[quad-nx-1])
			}
		}

		for i := istart; i <= iend; i, quad = i+1, quad+1 {
			var zSE uint8
			switch {
			case j == 0:
				// no quads in row 0
			case j == jstart:
				zSE = g.zLevel(z[quad-nx])
			default:
				zSE = levels[quad-nx]
			}

			state[quad] = clearedQuadState

			zNE := g.zLevel(z[quad])
			levels[quad] = zNE

			f := flags[quad]
			if f&existsAny != 0 {
				var s uint32
				if g.filled {
					s = g.filledStarts(quad, i, j, local, f, zNW, zNE, zSW, zSE)
					startInRow = startInRow || s&anyStartFilled != 0
				} else {
					s = g.lineStarts(quad, f, zNW, zNE, zSW, zSE)
					startInRow = startInRow || s&anyStartLines != 0
				}
				state[quad] |= s
			}

			zNW = zNE
			zSW = zSE
		}

		if startInRow {
			jFinalStart = j
		} else if j > 0 {
			state[local.istart+j*nx] |= noStartsInRow
		}
	}

	if jFinalStart < local.jend {
		state[local.istart+(jFinalStart+1)*nx] |= noMoreStarts
	}
}

func (g *Generator) filledStarts(quad, i, j int, local *chunkLocal, f uint16, zNW, zNE, zSW, zSE uint8) uint32 {
	var s uint32
	neCorner := f&existsNECorner != 0

	if f&existsNAndEEdge != 0 {
		if zNW == 0 && zSE == 0 && zNE > 0 &&
			(neCorner || zSW == 0 || g.saddleLevel(quad) == 0) {
			s |= startN // N to E low
		} else if zNW == 2 && zSE == 2 && zNE < 2 &&
			(neCorner || zSW == 2 || g.saddleLevel(quad) == 2) {
			s |= startN // N to E high
		}

		if zNE == 0 && zNW > 0 && zSE > 0 &&
			(neCorner || zSW > 0 || g.saddleLevel(quad) > 0) {
			s |= startE // E to N low
		} else if zNE == 2 && zNW < 2 && zSE < 2 &&
			(neCorner || zSW < 2 || g.saddleLevel(quad) < 2) {
			s |= startE // E to N high
		}
	}

	if g.boundaryS(quad) &&
		((zSW == 2 && zSE < 2) || (zSW == 0 && zSE > 0) || zSW == 1) {
		s |= startBoundaryS
	}

	if g.boundaryW(quad) &&
		((zNW == 2 && zSW < 2) || (zNW == 0 && zSW > 0) ||
			(zNW == 1 && (zSW != 1 || f&existsNWCorner != 0))) {
		s |= startBoundaryW
	}

	switch f & existsAnyCorner {
	case existsNECorner:
		if (zNW == 2 && zSE < 2) || (zNW == 0 && zSE > 0) || zNW == 1 {
			s |= startCorner
		}
	case existsNWCorner:
		if (zSW == 2 && zNE < 2) || (zSW == 0 && zNE > 0) {
			s |= startCorner
		}
	case existsSECorner:
		if (zSW == 0 && zSE == 0 && zNE > 0) || (zSW == 2 && zSE == 2 && zNE < 2) {
			s |= startCorner
		}
	case existsSWCorner:
		if zNW == 1 && zSE == 1 {
			s |= startCorner
		}
	}

	// A hole in a filled region, along the N boundary of a masked area.
	// A quad directly east of another hole start within the chunk is not a start.
	if f&boundaryN != 0 && f&existsNEdge != 0 && zNW == 1 && zNE == 1 &&
		j%g.yChunkSize != 0 && j != g.ny-1 &&
		(i == local.istart || g.state[quad-1]&startHoleN == 0) {
		s |= startHoleN
	}

	return s
}

func (g *Generator) lineStarts(quad int, f uint16, zNW, zNE, zSW, zSE uint8) uint32 {
	var s uint32

	if g.boundaryS(quad) && zSW == 1 && zSE == 0 {
		s |= startBoundaryS
	}
	if g.boundaryW(quad) && zNW == 1 && zSW == 0 {
		s |= startBoundaryW
	}
	if f&boundaryE != 0 && zSE == 1 && zNE == 0 {
		s |= startBoundaryE
	}
	if f&boundaryN != 0 && zNE == 1 && zNW == 0 {
		s |= startBoundaryN
	}

	if f&existsNAndEEdge != 0 && f&(boundaryN|boundaryE) == 0 {
		neCorner := f&existsNECorner != 0
		if zNE == 0 && zNW > 0 && zSE > 0 &&
			(neCorner || zSW > 0 || g.saddleLevel(quad) > 0) {
			s |= startE // E to N low
		} else if zNW == 0 && zSE == 0 && zNE > 0 &&
			(neCorner || zSW == 0 || g.saddleLevel(quad) == 0) {
			s |= startN // N to E low
		}
	}

	var cornerStart bool
	switch f & existsAnyCorner {
	case existsNWCorner:
		cornerStart = zSW == 1 && zNE == 0
	case existsNECorner:
		cornerStart = zNW == 1 && zSE == 0
	case existsSWCorner:
		cornerStart = zSE == 1 && zNW == 0
	case existsSECorner:
		cornerStart = zNE == 1 && zSW == 0
	}
	if cornerStart {
		s |= startCorner
	}

	return s
}

func (g *Generator) boundaryS(quad int) bool {
	return g.gridFlags[quad-g.nx]&boundaryN != 0
}

func (g *Generator) boundaryW(quad int) bool {
	return g.gridFlags[quad-1]&boundaryE != 0
}

func (g *Generator) has(quad int, mask uint16) bool {
	return g.gridFlags[quad]&mask != 0
}

func (g *Generator) is(quad int, mask uint32) bool {
	return g.state[quad]&mask != 0
}

// dumpCache returns a textual picture of the classifier state, with the
// northernmost row first.  This is attached to internal errors.
func (g *Generator) dumpCache() string {
	b := &strings.Builder{}
	for j := g.ny - 1; j >= 0; j-- {
		fmt.Fprintf(b, "j=%-3d", j)
		for i := range g.nx {
			g.dumpQuad(b, i+j*g.nx)
		}
		b.WriteByte('\n')
	}
	b.WriteString("     ")
	for i := range g.nx {
		fmt.Fprintf(b, "i=%-12d", i)
	}
	b.WriteByte('\n')
	return b.String()
}

func (g *Generator) dumpQuad(b *strings.Builder, quad int) {
	pick := func(cond bool, yes, no byte) byte {
		if cond {
			return yes
		}
		return no
	}

	switch {
	case g.is(quad, noMoreStarts):
		b.WriteByte('x')
	case g.is(quad, noStartsInRow):
		b.WriteByte('i')
	default:
		b.WriteByte('.')
	}

	switch g.gridFlags[quad] & existsAny {
	case existsQuad:
		b.WriteString("Q_")
	case existsNWCorner:
		b.WriteString("NW")
	case existsNECorner:
		b.WriteString("NE")
	case existsSWCorner:
		b.WriteString("SW")
	case existsSECorner:
		b.WriteString("SE")
	default:
		b.WriteString("..")
	}

	bn, be := g.has(quad, boundaryN), g.has(quad, boundaryE)
	switch {
	case bn && be:
		b.WriteByte('b')
	case bn:
		b.WriteByte('n')
	case be:
		b.WriteByte('e')
	default:
		b.WriteByte('.')
	}

	b.WriteByte('0' + g.levels[quad])
	b.WriteByte('0' + byte(g.state[quad]&saddleMask))
	b.WriteByte(pick(g.is(quad, startBoundaryS), 's', '.'))
	b.WriteByte(pick(g.is(quad, startBoundaryW), 'w', '.'))
	if !g.filled {
		b.WriteByte(pick(g.is(quad, startBoundaryE), 'e', '.'))
		b.WriteByte(pick(g.is(quad, startBoundaryN), 'n', '.'))
	}
	b.WriteByte(pick(g.is(quad, startE), 'E', '.'))
	b.WriteByte(pick(g.is(quad, startN), 'N', '.'))
	if g.filled {
		b.WriteByte(pick(g.is(quad, startHoleN), 'h', '.'))
	}
	b.WriteByte(pick(g.is(quad, startCorner), 'c', '.'))
	if g.filled {
		ln, ls := g.is(quad, lookN), g.is(quad, lookS)
		switch {
		case ln && ls:
			b.WriteByte('B')
		case ln:
			b.WriteByte('^')
		case ls:
			b.WriteByte('v')
		default:
			b.WriteByte('.')
		}
	}
	b.WriteByte(' ')
}
