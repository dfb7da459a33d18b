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

// assembleLines packs traced chunk data into the representation of the
// given line type.
func assembleLines(t LineType, chunks []*chunkData) LineResult {
	switch t {
	case LineSeparate, LineSeparateCode:
		var points [][]vec.Vec2
		var codes [][]Code
		for _, c := range chunks {
			if c.isEmpty() {
				continue
			}
			for k := range len(c.lineOffsets) - 1 {
				start, end := c.lineOffsets[k], c.lineOffsets[k+1]
				line := c.points[start:end:end]
				points = append(points, line)
				if t == LineSeparateCode {
					codes = append(codes, lineCodes(line, []uint32{0, end - start}))
				}
			}
		}
		if t == LineSeparate {
			return &SeparateLines{Points: points}
		}
		return &SeparateCodeLines{Points: points, Codes: codes}

	case LineChunkCombinedCode:
		res := &ChunkCombinedCodeLines{
			Points: make([][]vec.Vec2, len(chunks)),
			Codes:  make([][]Code, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = c.points
			res.Codes[i] = lineCodes(c.points, c.lineOffsets)
		}
		return res

	case LineChunkCombinedOffset:
		res := &ChunkCombinedOffsetLines{
			Points:  make([][]vec.Vec2, len(chunks)),
			Offsets: make([][]uint32, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = c.points
			res.Offsets[i] = c.lineOffsets
		}
		return res

	case LineChunkCombinedNan:
		res := &ChunkCombinedNanLines{
			Points: make([][]vec.Vec2, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = insertNaNs(c.points, c.lineOffsets)
		}
		return res

	default:
		panic("unreachable")
	}
}

// assembleFilled packs traced chunk data into the representation of the
// given fill type.  For the types which group holes with their outer
// boundaries, outerOffsets must be set in every non-empty chunk.
func assembleFilled(t FillType, chunks []*chunkData) FillResult {
	switch t {
	case FillOuterCode, FillOuterOffset:
		var points [][]vec.Vec2
		var codes [][]Code
		var offsets [][]uint32
		for _, c := range chunks {
			if c.isEmpty() {
				continue
			}
			for k := range len(c.outerOffsets) - 1 {
				outerStart, outerEnd := c.outerOffsets[k], c.outerOffsets[k+1]
				pointStart := c.lineOffsets[outerStart]
				pointEnd := c.lineOffsets[outerEnd]
				points = append(points, c.points[pointStart:pointEnd:pointEnd])

				o := make([]uint32, outerEnd-outerStart+1)
				for m := range o {
					o[m] = c.lineOffsets[int(outerStart)+m] - pointStart
				}
				if t == FillOuterCode {
					codes = append(codes, fillCodes(o))
				} else {
					offsets = append(offsets, o)
				}
			}
		}
		if t == FillOuterCode {
			return &OuterCodeFill{Points: points, Codes: codes}
		}
		return &OuterOffsetFill{Points: points, Offsets: offsets}

	case FillChunkCombinedCode:
		res := &ChunkCombinedCodeFill{
			Points: make([][]vec.Vec2, len(chunks)),
			Codes:  make([][]Code, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = c.points
			res.Codes[i] = fillCodes(c.lineOffsets)
		}
		return res

	case FillChunkCombinedOffset:
		res := &ChunkCombinedOffsetFill{
			Points:  make([][]vec.Vec2, len(chunks)),
			Offsets: make([][]uint32, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = c.points
			res.Offsets[i] = c.lineOffsets
		}
		return res

	case FillChunkCombinedCodeOffset:
		res := &ChunkCombinedCodeOffsetFill{
			Points:       make([][]vec.Vec2, len(chunks)),
			Codes:        make([][]Code, len(chunks)),
			OuterOffsets: make([][]uint32, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = c.points
			res.Codes[i] = fillCodes(c.lineOffsets)
			outer := make([]uint32, len(c.outerOffsets))
			for k, o := range c.outerOffsets {
				outer[k] = c.lineOffsets[o]
			}
			res.OuterOffsets[i] = outer
		}
		return res

	case FillChunkCombinedOffsetOffset:
		res := &ChunkCombinedOffsetOffsetFill{
			Points:       make([][]vec.Vec2, len(chunks)),
			Offsets:      make([][]uint32, len(chunks)),
			OuterOffsets: make([][]uint32, len(chunks)),
		}
		for i, c := range chunks {
			if c.isEmpty() {
				continue
			}
			res.Points[i] = c.points
			res.Offsets[i] = c.lineOffsets
			res.OuterOffsets[i] = c.outerOffsets
		}
		return res

	default:
		panic("unreachable")
	}
}

// fillCodes returns the codes for a set of closed rings.
func fillCodes(offsets []uint32) []Code {
	codes := make([]Code, offsets[len(offsets)-1])
	for k := range len(offsets) - 1 {
		start, end := offsets[k], offsets[k+1]
		codes[start] = MoveTo
		for m := start + 1; m < end-1; m++ {
			codes[m] = LineTo
		}
		codes[end-1] = ClosePoly
	}
	return codes
}

// lineCodes returns the codes for a set of lines.  A line is closed if its
// first and last points are identical.
func lineCodes(points []vec.Vec2, offsets []uint32) []Code {
	codes := make([]Code, offsets[len(offsets)-1])
	for k := range len(offsets) - 1 {
		start, end := offsets[k], offsets[k+1]
		codes[start] = MoveTo
		for m := start + 1; m < end; m++ {
			codes[m] = LineTo
		}
		if end-start > 1 && points[start] == points[end-1] {
			codes[end-1] = ClosePoly
		}
	}
	return codes
}

var nanPoint = vec.Vec2{X: math.NaN(), Y: math.NaN()}

func insertNaNs(points []vec.Vec2, offsets []uint32) []vec.Vec2 {
	nLines := len(offsets) - 1
	res := make([]vec.Vec2, 0, len(points)+nLines-1)
	for k := range nLines {
		if k > 0 {
			res = append(res, nanPoint)
		}
		res = append(res, points[offsets[k]:offsets[k+1]]...)
	}
	return res
}
